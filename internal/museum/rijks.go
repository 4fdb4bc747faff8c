package museum

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	apperrors "go-artwork-pipeline/internal/errors"
	"go-artwork-pipeline/pkg/models"
)

const rijksBaseURL = "https://www.rijksmuseum.nl/api/en"

// trailing production year in a Rijksmuseum long title, e.g.
// "The Milkmaid, Johannes Vermeer, c. 1660"
var rijksYearRe = regexp.MustCompile(`(1[0-9]{3}|20[0-2][0-9])\s*$`)

// Rijksmuseum searches the Rijksmuseum collection API; requires an API key
type Rijksmuseum struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewRijksmuseum creates the Rijksmuseum adapter
func NewRijksmuseum(client *http.Client, apiKey string) *Rijksmuseum {
	return &Rijksmuseum{client: client, baseURL: rijksBaseURL, apiKey: apiKey}
}

func (r *Rijksmuseum) Code() models.SourceCode {
	return models.SourceRijks
}

type rijksSearchResponse struct {
	ArtObjects []struct {
		ObjectNumber          string `json:"objectNumber"`
		Title                 string `json:"title"`
		LongTitle             string `json:"longTitle"`
		PrincipalOrFirstMaker string `json:"principalOrFirstMaker"`
		WebImage              *struct {
			URL string `json:"url"`
		} `json:"webImage"`
	} `json:"artObjects"`
}

// Search queries the collection endpoint with imgonly so every result has
// a web image; entries whose image URL still comes back empty are dropped
func (r *Rijksmuseum) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	if r.apiKey == "" {
		return nil, apperrors.NewUpstreamError("rijksmuseum API key not configured", nil)
	}

	params := url.Values{}
	params.Set("key", r.apiKey)
	params.Set("q", query)
	params.Set("ps", strconv.Itoa(limit))
	params.Set("imgonly", "True")

	var resp rijksSearchResponse
	if err := getJSON(ctx, r.client, r.baseURL+"/collection?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.ArtworkCandidate, 0, len(resp.ArtObjects))
	for _, item := range resp.ArtObjects {
		if item.WebImage == nil || item.WebImage.URL == "" {
			continue
		}
		candidates = append(candidates, models.ArtworkCandidate{
			ID:            candidateID(r.Code(), item.ObjectNumber),
			Title:         item.Title,
			Artist:        item.PrincipalOrFirstMaker,
			Year:          rijksYearRe.FindString(item.LongTitle),
			Museum:        "Rijksmuseum",
			MuseumCity:    "Amsterdam",
			MuseumCountry: "Netherlands",
			ImageURL:      item.WebImage.URL,
			Source:        r.Code(),
		})
	}
	return candidates, nil
}
