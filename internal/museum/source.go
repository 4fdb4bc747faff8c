package museum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-artwork-pipeline/pkg/models"
)

// Source is one open-access museum API. Each implementation translates its
// provider's schema into ArtworkCandidate at this boundary; no raw provider
// shape crosses into the rest of the pipeline. A failing source returns an
// error and never retries internally.
type Source interface {
	Code() models.SourceCode
	Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error)
}

// NewHTTPClient builds the shared client used by every adapter. Connection
// pooling is sized for a six-way fan-out; the client timeout is a backstop
// under the per-request context deadline.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        12,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   20 * time.Second,
	}
}

// getJSON issues a GET request and decodes the JSON response into out
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "artwork-pipeline/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// candidateID builds the globally unique source-prefixed identifier
func candidateID(code models.SourceCode, nativeID string) string {
	return fmt.Sprintf("%s-%s", code, nativeID)
}
