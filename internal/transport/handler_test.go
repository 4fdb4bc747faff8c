package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"go-artwork-pipeline/internal/analysis"
	"go-artwork-pipeline/internal/config"
	"go-artwork-pipeline/internal/museum"
	"go-artwork-pipeline/internal/observer"
	"go-artwork-pipeline/internal/palette"
	"go-artwork-pipeline/internal/repository"
	"go-artwork-pipeline/internal/storage"
	"go-artwork-pipeline/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSource struct {
	code    models.SourceCode
	results []models.ArtworkCandidate
}

func (f *fakeSource) Code() models.SourceCode { return f.code }

func (f *fakeSource) Search(ctx context.Context, query string, limit int) ([]models.ArtworkCandidate, error) {
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     10 * time.Second,
		SearchTimeout:      5 * time.Second,
		AnalysisTimeout:    20 * time.Second,
		ImageFetchTimeout:  5 * time.Second,
		MaxRequestBodySize: 20 * 1024 * 1024,
		OCRLanguages:       []string{"eng"},
	}
}

func testHandler(t *testing.T, sources ...museum.Source) http.Handler {
	t.Helper()
	cfg := testConfig()
	pipeline := analysis.NewPipeline(palette.NewExtractor(), nil, nil, nil)
	aggregator := museum.NewAggregator(sources, nil)
	records := repository.NewMemoryRecordStore()
	fetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)
	return NewHandler(cfg, pipeline, aggregator, records, nil, fetcher, observer.NewMetricsObserver())
}

func encodedJPEG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{180, 40, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestDetectEndpoint(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/detect", models.DetectRequest{Image: encodedJPEG(t)})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.DetectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Bounds.Width != 32 || resp.Bounds.Height != 32 {
		t.Errorf("Expected full-frame fallback for uniform image, got %+v", resp.Bounds)
	}
}

func TestDetectEndpointRejectsGarbage(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/detect", models.DetectRequest{Image: "bm90IGFuIGltYWdl"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestCropEndpoint(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/crop", models.CropRequest{
		Image:  encodedJPEG(t),
		Bounds: models.CropBounds{X: 4, Y: 4, Width: 16, Height: 12},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.CropResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Width != 16 || resp.Height != 12 {
		t.Errorf("Unexpected crop size %dx%d", resp.Width, resp.Height)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		t.Fatalf("Response image is not base64: %v", err)
	}
	if img, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("Response image does not decode: %v", err)
	} else if img.Bounds().Dx() != 16 {
		t.Errorf("Decoded crop width %d", img.Bounds().Dx())
	}
}

func TestCropEndpointInvalidBounds(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/crop", models.CropRequest{
		Image:  encodedJPEG(t),
		Bounds: models.CropBounds{X: 30, Y: 0, Width: 16, Height: 16},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	h := testHandler(t, &fakeSource{code: "aic", results: []models.ArtworkCandidate{
		{ID: "aic-1", Title: "Water Lilies", Source: "aic"},
	}})

	w := doJSON(t, h, http.MethodGet, "/v1/search?q=monet&limit=5", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Query != "monet" || resp.Total != 1 || resp.Results[0].Title != "Water Lilies" {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodGet, "/v1/search", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestSearchEndpointUnknownSource(t *testing.T) {
	h := testHandler(t, &fakeSource{code: "aic"})

	w := doJSON(t, h, http.MethodGet, "/v1/search?q=monet&source=nope", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalyzeEndpointColorOnly(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/analyze", models.AnalyzeRequest{
		ArtworkImage: encodedJPEG(t),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || !resp.Sources.HasColor {
		t.Errorf("Unexpected response %+v", resp)
	}
	if resp.Data.DominantColor == "" {
		t.Error("Expected a dominant color")
	}
}

func TestAnalyzeEndpointRequiresImage(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/analyze", models.AnalyzeRequest{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestSaveRecordEndpoint(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/records", models.SaveRecordRequest{
		UserID: "user-1",
		Record: models.MergedArtworkRecord{Title: "Water Lilies"},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.SaveRecordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID == "" {
		t.Error("Expected a record ID")
	}
}

func TestSaveRecordEndpointRejectsUntitled(t *testing.T) {
	h := testHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/records", models.SaveRecordRequest{
		UserID: "user-1",
		Record: models.MergedArtworkRecord{Artist: "Claude Monet"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequestSizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestBodySize = 64
	pipeline := analysis.NewPipeline(palette.NewExtractor(), nil, nil, nil)
	h := NewHandler(cfg, pipeline, museum.NewAggregator(nil, nil),
		repository.NewMemoryRecordStore(), nil,
		storage.NewHTTPImageFetcher(time.Second), nil)

	w := doJSON(t, h, http.MethodPost, "/v1/detect", models.DetectRequest{Image: encodedJPEG(t)})

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", w.Code)
	}
}
