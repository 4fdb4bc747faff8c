package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"go-artwork-pipeline/internal/cartel"
	"go-artwork-pipeline/internal/enrich"
	"go-artwork-pipeline/internal/fusion"
	"go-artwork-pipeline/internal/logger"
	"go-artwork-pipeline/internal/observer"
	"go-artwork-pipeline/internal/palette"
	"go-artwork-pipeline/pkg/models"
)

// ProgressFunc receives step-boundary notifications for UI feedback; it has
// no effect on control flow
type ProgressFunc func(step, total int, message string)

// AnalyzeInput describes one capture session
type AnalyzeInput struct {
	Artwork    []byte
	Cartel     []byte
	UseAI      bool
	OnProgress ProgressFunc
}

// AnalyzeOutput is the pipeline result. Success is false only when a
// failure escapes the per-step isolation (or the artwork image cannot be
// decoded); individual source failures degrade to empty fields instead.
type AnalyzeOutput struct {
	Success bool
	Error   string
	Record  models.MergedArtworkRecord
	Sources models.AnalysisSources
	Elapsed time.Duration
}

// Pipeline coordinates color extraction, cartel OCR, and AI enrichment
// into one merged artwork record. The OCR handle and enricher are
// constructor-injected so concurrent sessions and tests never share
// ambient state; either may be nil, which simply disables that step.
type Pipeline struct {
	colors     *palette.Extractor
	recognizer cartel.Recognizer
	enricher   enrich.Enricher
	events     observer.Subject
}

// NewPipeline creates an analysis pipeline
func NewPipeline(colors *palette.Extractor, recognizer cartel.Recognizer, enricher enrich.Enricher, events observer.Subject) *Pipeline {
	return &Pipeline{
		colors:     colors,
		recognizer: recognizer,
		enricher:   enricher,
		events:     events,
	}
}

// Analyze runs the selected steps concurrently and merges their results.
// Steps are decided up front from the input: color always runs, OCR runs
// when a cartel photo is present, enrichment runs when requested and
// configured. Each step is isolated; one failing source never aborts the
// others.
func (p *Pipeline) Analyze(ctx context.Context, input AnalyzeInput) AnalyzeOutput {
	start := time.Now()
	p.notify(ctx, observer.PipelineEvent{EventType: observer.AnalysisStarted, Success: true})

	img, err := imaging.Decode(bytes.NewReader(input.Artwork))
	if err != nil {
		out := AnalyzeOutput{
			Success: false,
			Error:   fmt.Sprintf("failed to decode artwork image: %v", err),
			Elapsed: time.Since(start),
		}
		p.notify(ctx, observer.PipelineEvent{EventType: observer.AnalysisFailed, ErrorMessage: out.Error})
		return out
	}

	runOCR := len(input.Cartel) > 0 && p.recognizer != nil
	runAI := input.UseAI && p.enricher != nil

	total := 2 // color + merge
	if runOCR {
		total++
	}
	if runAI {
		total++
	}

	progress := newProgressTracker(ctx, total, input.OnProgress, p)

	var (
		colorResult models.ColorResult
		ocrData     *models.CartelData
		aiData      *models.EnrichmentData
		wg          sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		colorResult = p.runColorStep(img)
		progress.step("color extraction complete")
	}()

	if runOCR {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ocrData = p.runOCRStep(ctx, input.Cartel)
			progress.step("label recognition complete")
		}()
	}

	if runAI {
		wg.Add(1)
		go func() {
			defer wg.Done()
			aiData = p.runEnrichStep(ctx, input.Artwork)
			progress.step("AI enrichment complete")
		}()
	}

	wg.Wait()

	out := AnalyzeOutput{
		Sources: models.AnalysisSources{
			HasOCR:   ocrData != nil,
			HasAI:    aiData != nil,
			HasColor: true,
		},
	}

	// The merge itself runs outside the per-step isolation: a failure here
	// is a pipeline bug, not a degraded source, and is surfaced as such
	func() {
		defer func() {
			if r := recover(); r != nil {
				out.Success = false
				out.Error = fmt.Sprintf("merge failed: %v", r)
				out.Record = models.MergedArtworkRecord{}
			}
		}()
		out.Record = fusion.Merge(ocrData, aiData, &colorResult)
		out.Success = true
	}()
	progress.step("merge complete")

	out.Elapsed = time.Since(start)
	if out.Success {
		p.notify(ctx, observer.PipelineEvent{
			EventType:      observer.AnalysisCompleted,
			Success:        true,
			ProcessingTime: out.Elapsed,
			Metadata: map[string]interface{}{
				"has_ocr": out.Sources.HasOCR,
				"has_ai":  out.Sources.HasAI,
			},
		})
	} else {
		p.notify(ctx, observer.PipelineEvent{EventType: observer.AnalysisFailed, ErrorMessage: out.Error})
	}
	return out
}

// runColorStep never fails; any panic or extraction error degrades to the
// gray fallback
func (p *Pipeline) runColorStep(img image.Image) (result models.ColorResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Warn("color extraction panicked, using gray fallback")
			result = palette.FallbackColor
		}
	}()
	if p.colors == nil {
		return palette.FallbackColor
	}
	return p.colors.Dominant(img)
}

// runOCRStep returns nil whenever recognition fails or its confidence is
// too low to trust a parse
func (p *Pipeline) runOCRStep(ctx context.Context, cartelImage []byte) (data *models.CartelData) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Warn("label recognition panicked")
			data = nil
		}
	}()

	recognition, err := p.recognizer.Recognize(ctx, cartelImage)
	if err != nil {
		logger.WithError(err).Warn("label recognition failed")
		return nil
	}
	if recognition.Confidence <= cartel.MinTrustedConfidence {
		logger.WithField("confidence", recognition.Confidence).Debug("label recognition confidence too low to parse")
		return nil
	}

	parsed := cartel.ParseCartelText(recognition.Text)
	parsed.Confidence = recognition.Confidence
	return &parsed
}

// runEnrichStep returns nil on any enrichment failure
func (p *Pipeline) runEnrichStep(ctx context.Context, artwork []byte) (data *models.EnrichmentData) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Warn("AI enrichment panicked")
			data = nil
		}
	}()

	enriched, err := p.enricher.Enrich(ctx, artwork)
	if err != nil {
		logger.WithError(err).Warn("AI enrichment failed")
		return nil
	}
	return enriched
}

func (p *Pipeline) notify(ctx context.Context, event observer.PipelineEvent) {
	if p.events != nil {
		p.events.NotifyObservers(ctx, event)
	}
}

// progressTracker serializes OnProgress callbacks from concurrent steps
type progressTracker struct {
	mu       sync.Mutex
	ctx      context.Context
	done     int
	total    int
	callback ProgressFunc
	pipeline *Pipeline
}

func newProgressTracker(ctx context.Context, total int, callback ProgressFunc, pipeline *Pipeline) *progressTracker {
	return &progressTracker{ctx: ctx, total: total, callback: callback, pipeline: pipeline}
}

func (t *progressTracker) step(message string) {
	t.mu.Lock()
	t.done++
	current := t.done
	t.mu.Unlock()

	t.pipeline.notify(t.ctx, observer.PipelineEvent{
		EventType: observer.AnalysisStep,
		Success:   true,
		Metadata:  map[string]interface{}{"step": current, "total": t.total, "message": message},
	})
	if t.callback != nil {
		t.callback(current, t.total, message)
	}
}
