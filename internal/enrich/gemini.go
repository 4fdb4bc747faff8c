package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"go-artwork-pipeline/pkg/models"
)

// Enricher is the AI vision enrichment collaborator: given artwork image
// bytes it returns best-effort art-historical metadata. Fields the service
// cannot determine stay empty strings.
type Enricher interface {
	Enrich(ctx context.Context, imageData []byte) (*models.EnrichmentData, error)
}

const enrichmentPrompt = `You are an art historian cataloging a photographed artwork.
Respond with a single JSON object and nothing else, using exactly these keys
(use "" for anything you cannot determine):
{"title":"","artist":"","artist_dates":"","year":"","period":"","style":"",
"medium":"","dimensions":"","museum":"","museum_city":"","museum_country":"",
"description":"","curatorial_note":""}
"description" is a short factual description of the artwork.
"curatorial_note" is one or two sentences of curatorial commentary.`

// GeminiEnricher implements Enricher on the Gemini vision API
type GeminiEnricher struct {
	apiKey string
	model  string
}

// NewGeminiEnricher creates an enricher for the given API key and model
func NewGeminiEnricher(apiKey, model string) *GeminiEnricher {
	return &GeminiEnricher{apiKey: apiKey, model: model}
}

// Enrich sends the image with the cataloging prompt and parses the JSON reply
func (g *GeminiEnricher) Enrich(ctx context.Context, imageData []byte) (*models.EnrichmentData, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.ImageData("jpeg", imageData), genai.Text(enrichmentPrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from gemini")
	}

	return ParseEnrichmentJSON(string(txt))
}

// ParseEnrichmentJSON decodes the model's reply leniently: markdown code
// fences are stripped and absent fields stay empty
func ParseEnrichmentJSON(raw string) (*models.EnrichmentData, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var data models.EnrichmentData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment response: %w", err)
	}
	return &data, nil
}
