package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineEvent represents one event emitted by the ingestion pipeline or
// the museum aggregator. Side effects like logging and metrics hang off
// this port instead of being inlined in the components.
type PipelineEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source,omitempty"`
	Query          string                 `json:"query,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// AnalysisStarted when the ingestion pipeline begins
	AnalysisStarted EventType = "analysis_started"
	// AnalysisStep at each pipeline step boundary
	AnalysisStep EventType = "analysis_step"
	// AnalysisCompleted when the pipeline produces a merged record
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when the pipeline fails outright
	AnalysisFailed EventType = "analysis_failed"
	// SearchStarted when an aggregate museum search begins
	SearchStarted EventType = "search_started"
	// SearchCompleted when an aggregate museum search resolves
	SearchCompleted EventType = "search_completed"
	// SourceFailed when one museum source errors during a fan-out
	SourceFailed EventType = "source_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// EventSubject is the default Subject implementation
type EventSubject struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventSubject creates an empty subject
func NewEventSubject() *EventSubject {
	return &EventSubject{}
}

// Subscribe registers an observer
func (s *EventSubject) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unsubscribe removes an observer by name
func (s *EventSubject) Unsubscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.GetObserverName() == observer.GetObserverName() {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// NotifyObservers delivers the event to every subscribed observer
func (s *EventSubject) NotifyObservers(ctx context.Context, event PipelineEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()
	for _, o := range observers {
		o.OnEvent(ctx, event)
	}
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.Source != "" {
		fields["source"] = event.Source
	}
	if event.Query != "" {
		fields["query"] = event.Query
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Info("Artwork analysis started")
	case AnalysisStep:
		o.logger.WithFields(fields).Debug("Artwork analysis step")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Artwork analysis completed")
	case AnalysisFailed:
		o.logger.WithFields(fields).Error("Artwork analysis failed")
	case SearchStarted:
		o.logger.WithFields(fields).Info("Museum search started")
	case SearchCompleted:
		o.logger.WithFields(fields).Info("Museum search completed")
	case SourceFailed:
		o.logger.WithFields(fields).Warn("Museum source failed")
	default:
		o.logger.WithFields(fields).Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from pipeline events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalAnalyses       int64
	successfulAnalyses  int64
	failedAnalyses      int64
	totalSearches       int64
	sourceFailures      map[string]int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		sourceFailures: make(map[string]int64),
	}
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.totalAnalyses++
	case AnalysisCompleted:
		o.successfulAnalyses++
		o.totalProcessingTime += event.ProcessingTime
	case AnalysisFailed:
		o.failedAnalyses++
	case SearchStarted:
		o.totalSearches++
	case SourceFailed:
		o.sourceFailures[event.Source]++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	failures := make(map[string]int64, len(o.sourceFailures))
	for k, v := range o.sourceFailures {
		failures[k] = v
	}
	return map[string]interface{}{
		"total_analyses":        o.totalAnalyses,
		"successful_analyses":   o.successfulAnalyses,
		"failed_analyses":       o.failedAnalyses,
		"total_searches":        o.totalSearches,
		"source_failures":       failures,
		"total_processing_time": o.totalProcessingTime.String(),
	}
}
