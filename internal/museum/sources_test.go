package museum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go-artwork-pipeline/pkg/models"
)

func TestArtInstituteSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artworks/search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "monet" {
			t.Errorf("Expected q=monet, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"config": {"iiif_url": "https://iiif.example.org"},
			"data": [
				{"id": 27992, "title": "Water Lilies", "artist_title": "Claude Monet",
				 "date_display": "1906", "medium_display": "Oil on canvas",
				 "dimensions": "89 x 93 cm", "image_id": "abc-123"},
				{"id": 1, "title": "No image", "artist_title": "X", "image_id": ""}
			]
		}`))
	}))
	defer server.Close()

	src := NewArtInstitute(server.Client())
	src.baseURL = server.URL

	got, err := src.Search(context.Background(), "monet", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate (imageless dropped), got %d", len(got))
	}
	c := got[0]
	if c.ID != "aic-27992" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.Title != "Water Lilies" || c.Artist != "Claude Monet" || c.Year != "1906" {
		t.Errorf("Unexpected candidate %+v", c)
	}
	if c.Museum != "Art Institute of Chicago" || c.MuseumCity != "Chicago" {
		t.Errorf("Unexpected museum fields %+v", c)
	}
	if c.ImageURL != "https://iiif.example.org/abc-123/full/843,/0/default.jpg" {
		t.Errorf("ImageURL = %q", c.ImageURL)
	}
	if c.Source != models.SourceAIC {
		t.Errorf("Source = %q", c.Source)
	}
}

func TestMetMuseumSearchHydratesObjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			w.Write([]byte(`{"total": 3, "objectIDs": [10, 20, 30]}`))
		case "/objects/10":
			w.Write([]byte(`{"objectID": 10, "title": "Bridge over a Pond",
				"artistDisplayName": "Claude Monet", "objectDate": "1899",
				"medium": "Oil on canvas", "primaryImageSmall": "https://img.example.org/10.jpg"}`))
		case "/objects/20":
			// No image at all, must be dropped
			w.Write([]byte(`{"objectID": 20, "title": "Imageless"}`))
		case "/objects/30":
			w.Write([]byte(`{"objectID": 30, "title": "Haystacks",
				"artistDisplayName": "Claude Monet", "objectDate": "1891",
				"primaryImage": "https://img.example.org/30.jpg"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := NewMetMuseum(server.Client())
	src.baseURL = server.URL

	got, err := src.Search(context.Background(), "monet", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d: %+v", len(got), got)
	}
	// Search order must survive the concurrent hydration
	if got[0].ID != "met-10" || got[1].ID != "met-30" {
		t.Errorf("Order lost: %q, %q", got[0].ID, got[1].ID)
	}
	if got[1].ImageURL != "https://img.example.org/30.jpg" {
		t.Errorf("Expected primaryImage fallback, got %q", got[1].ImageURL)
	}
	if got[0].Museum != "The Metropolitan Museum of Art" {
		t.Errorf("Museum = %q", got[0].Museum)
	}
}

func TestMetMuseumSearchRespectsLimit(t *testing.T) {
	var objectCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/search" {
			w.Write([]byte(`{"total": 4, "objectIDs": [1, 2, 3, 4]}`))
			return
		}
		objectCalls.Add(1)
		w.Write([]byte(`{"objectID": 1, "title": "T", "primaryImageSmall": "https://img.example.org/x.jpg"}`))
	}))
	defer server.Close()

	src := NewMetMuseum(server.Client())
	src.baseURL = server.URL

	got, err := src.Search(context.Background(), "monet", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(got))
	}
	if n := objectCalls.Load(); n != 2 {
		t.Errorf("Expected 2 object fetches, got %d", n)
	}
}

func TestClevelandSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("has_image"); got != "1" {
			t.Errorf("Expected has_image=1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{"id": 94979, "title": "Water Lilies", "creation_date": "1915-26",
				 "technique": "oil on fabric", "measurements": "201.3 x 425.8 cm",
				 "creators": [{"description": "Claude Monet (French, 1840-1926)"}],
				 "images": {"web": {"url": "https://img.example.org/94979.jpg"}}},
				{"id": 1, "title": "No image", "creators": [],
				 "images": {"web": {"url": ""}}}
			]
		}`))
	}))
	defer server.Close()

	src := NewCleveland(server.Client())
	src.baseURL = server.URL

	got, err := src.Search(context.Background(), "monet", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	if got[0].ID != "cma-94979" {
		t.Errorf("ID = %q", got[0].ID)
	}
	if got[0].Artist != "Claude Monet (French, 1840-1926)" {
		t.Errorf("Artist = %q", got[0].Artist)
	}
	if got[0].Medium != "oil on fabric" {
		t.Errorf("Medium = %q", got[0].Medium)
	}
}

func TestRijksmuseumRequiresAPIKey(t *testing.T) {
	src := NewRijksmuseum(http.DefaultClient, "")

	if _, err := src.Search(context.Background(), "vermeer", 5); err == nil {
		t.Error("Expected error without an API key")
	}
}

func TestHarvardRequiresAPIKey(t *testing.T) {
	src := NewHarvard(http.DefaultClient, "")

	if _, err := src.Search(context.Background(), "sargent", 5); err == nil {
		t.Error("Expected error without an API key")
	}
}

func TestGetJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewArtInstitute(server.Client())
	src.baseURL = server.URL

	if _, err := src.Search(context.Background(), "monet", 5); err == nil {
		t.Error("Expected error on non-2xx upstream status")
	}
}
