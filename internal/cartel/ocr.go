package cartel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/otiai10/gosseract/v2"
)

// RecognitionResult is the raw output of the text-recognition engine
type RecognitionResult struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"` // 0-100
	Words      []string `json:"words"`
}

// Recognizer extracts raw text from a photographed museum label. The
// recognition engine itself is an external collaborator; implementations
// wrap it behind this interface so the pipeline can be tested without a
// Tesseract installation.
type Recognizer interface {
	Recognize(ctx context.Context, imageData []byte) (*RecognitionResult, error)
	Close() error
}

// TesseractRecognizer wraps a single reusable gosseract client. Tesseract
// clients are expensive to initialize and not safe for concurrent use, so
// one handle is kept and recognition requests are serialized on a mutex.
type TesseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractRecognizer creates a recognizer configured for the given
// languages (e.g. "eng", "fra")
func NewTesseractRecognizer(languages []string) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}
	return &TesseractRecognizer{client: client}, nil
}

// Recognize runs text recognition over the image bytes
func (t *TesseractRecognizer) Recognize(ctx context.Context, imageData []byte) (*RecognitionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("text recognition failed: %w", err)
	}

	words := strings.Fields(text)
	return &RecognitionResult{
		Text:       text,
		Confidence: estimateConfidence(text, words),
		Words:      words,
	}, nil
}

// Close releases the underlying Tesseract handle
func (t *TesseractRecognizer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}

// estimateConfidence scores recognized text on a 0-100 scale from text
// quality indicators. Tesseract's plain-text API does not expose a
// per-block confidence, so this heuristic stands in for it: coherent
// word-like tokens raise the score, garbage characters lower it.
func estimateConfidence(text string, words []string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	confidence := 30.0

	if len(words) >= 3 {
		confidence += 15
	}
	if len(words) >= 8 {
		confidence += 10
	}

	// Ratio of letters/digits to total characters; label photos that
	// produce mostly punctuation noise score low
	var total, sane int
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sane++
		}
	}
	if total > 0 {
		confidence += 45 * float64(sane) / float64(total)
	}

	if confidence > 100 {
		confidence = 100
	}
	return confidence
}
