package museum

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go-artwork-pipeline/pkg/models"
)

const (
	vamBaseURL  = "https://api.vam.ac.uk/v2"
	vamIIIFBase = "https://framemark.vam.ac.uk/collections"
)

// VictoriaAndAlbert searches the Victoria and Albert Museum API
type VictoriaAndAlbert struct {
	client  *http.Client
	baseURL string
}

// NewVictoriaAndAlbert creates the V&A adapter
func NewVictoriaAndAlbert(client *http.Client) *VictoriaAndAlbert {
	return &VictoriaAndAlbert{client: client, baseURL: vamBaseURL}
}

func (v *VictoriaAndAlbert) Code() models.SourceCode {
	return models.SourceVAM
}

type vamSearchResponse struct {
	Records []struct {
		SystemNumber   string `json:"systemNumber"`
		PrimaryTitle   string `json:"_primaryTitle"`
		PrimaryDate    string `json:"_primaryDate"`
		PrimaryImageID string `json:"_primaryImageId"`
		PrimaryMaker   struct {
			Name string `json:"name"`
		} `json:"_primaryMaker"`
		Images struct {
			PrimaryThumbnail string `json:"_primary_thumbnail"`
		} `json:"_images"`
	} `json:"records"`
}

// Search queries the object search endpoint with images_exist; records
// without a primary image identifier are dropped
func (v *VictoriaAndAlbert) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("images_exist", "true")

	var resp vamSearchResponse
	if err := getJSON(ctx, v.client, v.baseURL+"/objects/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.ArtworkCandidate, 0, len(resp.Records))
	for _, item := range resp.Records {
		imageURL := ""
		if item.PrimaryImageID != "" {
			imageURL = fmt.Sprintf("%s/%s/full/!600,600/0/default.jpg", vamIIIFBase, item.PrimaryImageID)
		} else if item.Images.PrimaryThumbnail != "" {
			imageURL = item.Images.PrimaryThumbnail
		}
		if imageURL == "" {
			continue
		}
		candidates = append(candidates, models.ArtworkCandidate{
			ID:            candidateID(v.Code(), item.SystemNumber),
			Title:         item.PrimaryTitle,
			Artist:        item.PrimaryMaker.Name,
			Year:          item.PrimaryDate,
			Museum:        "Victoria and Albert Museum",
			MuseumCity:    "London",
			MuseumCountry: "United Kingdom",
			ImageURL:      imageURL,
			Source:        v.Code(),
		})
	}
	return candidates, nil
}
