package museum

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go-artwork-pipeline/pkg/models"
)

const articBaseURL = "https://api.artic.edu/api/v1"

// ArtInstitute searches the Art Institute of Chicago open API
type ArtInstitute struct {
	client  *http.Client
	baseURL string
}

// NewArtInstitute creates the Art Institute of Chicago adapter
func NewArtInstitute(client *http.Client) *ArtInstitute {
	return &ArtInstitute{client: client, baseURL: articBaseURL}
}

func (a *ArtInstitute) Code() models.SourceCode {
	return models.SourceAIC
}

type articSearchResponse struct {
	Config struct {
		IIIFURL string `json:"iiif_url"`
	} `json:"config"`
	Data []struct {
		ID            int    `json:"id"`
		Title         string `json:"title"`
		ArtistTitle   string `json:"artist_title"`
		DateDisplay   string `json:"date_display"`
		MediumDisplay string `json:"medium_display"`
		Dimensions    string `json:"dimensions"`
		ImageID       string `json:"image_id"`
	} `json:"data"`
}

// Search queries the artworks search endpoint. Results without an IIIF
// image identifier are dropped.
func (a *ArtInstitute) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", "id,title,artist_title,date_display,medium_display,dimensions,image_id")

	var resp articSearchResponse
	if err := getJSON(ctx, a.client, a.baseURL+"/artworks/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	iiif := resp.Config.IIIFURL
	if iiif == "" {
		iiif = "https://www.artic.edu/iiif/2"
	}

	candidates := make([]models.ArtworkCandidate, 0, len(resp.Data))
	for _, item := range resp.Data {
		if item.ImageID == "" {
			continue
		}
		candidates = append(candidates, models.ArtworkCandidate{
			ID:            candidateID(a.Code(), strconv.Itoa(item.ID)),
			Title:         item.Title,
			Artist:        item.ArtistTitle,
			Year:          item.DateDisplay,
			Museum:        "Art Institute of Chicago",
			MuseumCity:    "Chicago",
			MuseumCountry: "United States",
			Medium:        item.MediumDisplay,
			Dimensions:    item.Dimensions,
			ImageURL:      fmt.Sprintf("%s/%s/full/843,/0/default.jpg", iiif, item.ImageID),
			Source:        a.Code(),
		})
	}
	return candidates, nil
}
