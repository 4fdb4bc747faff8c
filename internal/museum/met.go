package museum

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go-artwork-pipeline/pkg/models"
)

const metBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// metFetchWorkers bounds the concurrent per-object requests for one search
const metFetchWorkers = 4

// MetMuseum searches the Metropolitan Museum of Art collection API. The
// provider needs a second round-trip per object, so search results are
// hydrated through a small bounded batch of detail fetches.
type MetMuseum struct {
	client  *http.Client
	baseURL string
}

// NewMetMuseum creates the Metropolitan Museum adapter
func NewMetMuseum(client *http.Client) *MetMuseum {
	return &MetMuseum{client: client, baseURL: metBaseURL}
}

func (m *MetMuseum) Code() models.SourceCode {
	return models.SourceMet
}

type metSearchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

type metObjectResponse struct {
	ObjectID          int    `json:"objectID"`
	Title             string `json:"title"`
	ArtistDisplayName string `json:"artistDisplayName"`
	ObjectDate        string `json:"objectDate"`
	Medium            string `json:"medium"`
	Dimensions        string `json:"dimensions"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
	PrimaryImage      string `json:"primaryImage"`
}

// Search queries the search endpoint, then fetches up to limit full object
// records concurrently. Objects without an image are dropped.
func (m *MetMuseum) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hasImages", "true")

	var search metSearchResponse
	if err := getJSON(ctx, m.client, m.baseURL+"/search?"+params.Encode(), &search); err != nil {
		return nil, err
	}

	ids := search.ObjectIDs
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pool := newWorkerPool(metFetchWorkers)
	pool.start()
	defer pool.close()

	results := make([]*models.ArtworkCandidate, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		pool.submit(func() {
			defer wg.Done()
			var obj metObjectResponse
			if err := getJSON(ctx, m.client, m.baseURL+"/objects/"+strconv.Itoa(id), &obj); err != nil {
				// A single missing object is not worth failing the source
				return
			}
			imageURL := obj.PrimaryImageSmall
			if imageURL == "" {
				imageURL = obj.PrimaryImage
			}
			if imageURL == "" {
				return
			}
			results[i] = &models.ArtworkCandidate{
				ID:            candidateID(m.Code(), strconv.Itoa(obj.ObjectID)),
				Title:         obj.Title,
				Artist:        obj.ArtistDisplayName,
				Year:          obj.ObjectDate,
				Museum:        "The Metropolitan Museum of Art",
				MuseumCity:    "New York",
				MuseumCountry: "United States",
				Medium:        obj.Medium,
				Dimensions:    obj.Dimensions,
				ImageURL:      imageURL,
				Source:        m.Code(),
			}
		})
	}
	wg.Wait()

	candidates := make([]models.ArtworkCandidate, 0, len(ids))
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, *r)
		}
	}
	return candidates, nil
}
