package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"
)

// ImageFetcher pulls a remote image (e.g. a museum candidate's open-access
// image) into the pipeline
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
	FetchImageBytes(ctx context.Context, imageURL string) ([]byte, error)
}

// maxImageBytes caps a single fetched image; museum IIIF endpoints serve
// sized renditions well under this
const maxImageBytes = 32 * 1024 * 1024

// HTTPImageFetcher implements ImageFetcher over plain HTTP
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP image fetcher with pooling sized for
// one-at-a-time artwork downloads
func NewHTTPImageFetcher(timeout time.Duration) ImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes an image
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	data, err := h.FetchImageBytes(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FetchImageBytes downloads an image without decoding it. Transient
// failures (network errors, 5xx) are retried up to three attempts; 4xx
// responses fail immediately.
func (h *HTTPImageFetcher) FetchImageBytes(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "artwork-pipeline/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
			resp.Body.Close()
			if err != nil {
				lastErr = err
				continue
			}
			return data, nil
		}

		resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client errors are not retryable
			return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
}
