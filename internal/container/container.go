package container

import (
	"fmt"
	"net/http"

	"go-artwork-pipeline/internal/analysis"
	"go-artwork-pipeline/internal/cartel"
	"go-artwork-pipeline/internal/config"
	"go-artwork-pipeline/internal/enrich"
	"go-artwork-pipeline/internal/logger"
	"go-artwork-pipeline/internal/museum"
	"go-artwork-pipeline/internal/observer"
	"go-artwork-pipeline/internal/palette"
	"go-artwork-pipeline/internal/repository"
	"go-artwork-pipeline/internal/storage"
	"go-artwork-pipeline/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	recognizer *cartel.TesseractRecognizer
	pipeline   *analysis.Pipeline
	aggregator *museum.Aggregator
	records    repository.RecordStore
	images     storage.ImageStore
	handler    http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Museum adapters share one pooled HTTP client. The slice order fixes
	// the interleaving order of aggregated search results.
	client := museum.NewHTTPClient()
	sources := []museum.Source{
		museum.NewArtInstitute(client),
		museum.NewMetMuseum(client),
		museum.NewRijksmuseum(client, cfg.RijksmuseumAPIKey),
		museum.NewCleveland(client),
		museum.NewHarvard(client, cfg.HarvardAPIKey),
		museum.NewVictoriaAndAlbert(client),
	}

	events := observer.NewEventSubject()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	metrics := observer.NewMetricsObserver()
	events.Subscribe(metrics)

	aggregator := museum.NewAggregator(sources, events)

	recognizer, err := cartel.NewTesseractRecognizer(cfg.OCRLanguages)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text recognition: %w", err)
	}

	var enricher enrich.Enricher
	if cfg.EnrichmentEnabled() {
		enricher = enrich.NewGeminiEnricher(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	pipeline := analysis.NewPipeline(palette.NewExtractor(), recognizer, enricher, events)

	var images storage.ImageStore
	if cfg.UploadsEnabled() {
		images, err = storage.NewAzureImageStore(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.AzureStorageContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image store: %w", err)
		}
	}

	records := repository.NewMemoryRecordStore()
	fetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)
	handler := transport.NewHandler(cfg, pipeline, aggregator, records, images, fetcher, metrics)

	return &Container{
		config:     cfg,
		recognizer: recognizer,
		pipeline:   pipeline,
		aggregator: aggregator,
		records:    records,
		images:     images,
		handler:    handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases resources held by pipeline components
func (c *Container) Close() error {
	if c.recognizer != nil {
		return c.recognizer.Close()
	}
	return nil
}
