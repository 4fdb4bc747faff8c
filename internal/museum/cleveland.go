package museum

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go-artwork-pipeline/pkg/models"
)

const clevelandBaseURL = "https://openaccess-api.clevelandart.org/api"

// Cleveland searches the Cleveland Museum of Art open access API
type Cleveland struct {
	client  *http.Client
	baseURL string
}

// NewCleveland creates the Cleveland Museum of Art adapter
func NewCleveland(client *http.Client) *Cleveland {
	return &Cleveland{client: client, baseURL: clevelandBaseURL}
}

func (c *Cleveland) Code() models.SourceCode {
	return models.SourceCMA
}

type clevelandSearchResponse struct {
	Data []struct {
		ID           int    `json:"id"`
		Title        string `json:"title"`
		CreationDate string `json:"creation_date"`
		Technique    string `json:"technique"`
		Measurements string `json:"measurements"`
		Creators     []struct {
			Description string `json:"description"`
		} `json:"creators"`
		Images struct {
			Web struct {
				URL string `json:"url"`
			} `json:"web"`
		} `json:"images"`
	} `json:"data"`
}

// Search queries the artworks endpoint with has_image so results carry web
// images; the first creator's description is the display artist
func (c *Cleveland) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("has_image", "1")

	var resp clevelandSearchResponse
	if err := getJSON(ctx, c.client, c.baseURL+"/artworks/?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.ArtworkCandidate, 0, len(resp.Data))
	for _, item := range resp.Data {
		if item.Images.Web.URL == "" {
			continue
		}
		artist := ""
		if len(item.Creators) > 0 {
			artist = item.Creators[0].Description
		}
		candidates = append(candidates, models.ArtworkCandidate{
			ID:            candidateID(c.Code(), strconv.Itoa(item.ID)),
			Title:         item.Title,
			Artist:        artist,
			Year:          item.CreationDate,
			Museum:        "Cleveland Museum of Art",
			MuseumCity:    "Cleveland",
			MuseumCountry: "United States",
			Medium:        item.Technique,
			Dimensions:    item.Measurements,
			ImageURL:      item.Images.Web.URL,
			Source:        c.Code(),
		})
	}
	return candidates, nil
}
