package museum

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "go-artwork-pipeline/internal/errors"
	"go-artwork-pipeline/pkg/models"
)

const harvardBaseURL = "https://api.harvardartmuseums.org"

// Harvard searches the Harvard Art Museums API; requires an API key
type Harvard struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHarvard creates the Harvard Art Museums adapter
func NewHarvard(client *http.Client, apiKey string) *Harvard {
	return &Harvard{client: client, baseURL: harvardBaseURL, apiKey: apiKey}
}

func (h *Harvard) Code() models.SourceCode {
	return models.SourceHarvard
}

type harvardSearchResponse struct {
	Records []struct {
		ObjectID        int    `json:"objectid"`
		Title           string `json:"title"`
		Dated           string `json:"dated"`
		Medium          string `json:"medium"`
		Dimensions      string `json:"dimensions"`
		PrimaryImageURL string `json:"primaryimageurl"`
		People          []struct {
			Name string `json:"name"`
		} `json:"people"`
	} `json:"records"`
}

// Search queries the object endpoint with hasimage; records without a
// primary image URL are dropped
func (h *Harvard) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	if h.apiKey == "" {
		return nil, apperrors.NewUpstreamError("harvard art museums API key not configured", nil)
	}

	params := url.Values{}
	params.Set("apikey", h.apiKey)
	params.Set("q", query)
	params.Set("size", strconv.Itoa(limit))
	params.Set("hasimage", "1")

	var resp harvardSearchResponse
	if err := getJSON(ctx, h.client, h.baseURL+"/object?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.ArtworkCandidate, 0, len(resp.Records))
	for _, item := range resp.Records {
		if item.PrimaryImageURL == "" {
			continue
		}
		artist := ""
		if len(item.People) > 0 {
			artist = item.People[0].Name
		}
		candidates = append(candidates, models.ArtworkCandidate{
			ID:            candidateID(h.Code(), strconv.Itoa(item.ObjectID)),
			Title:         item.Title,
			Artist:        artist,
			Year:          item.Dated,
			Museum:        "Harvard Art Museums",
			MuseumCity:    "Cambridge",
			MuseumCountry: "United States",
			Medium:        item.Medium,
			Dimensions:    item.Dimensions,
			ImageURL:      item.PrimaryImageURL,
			Source:        h.Code(),
		})
	}
	return candidates, nil
}
