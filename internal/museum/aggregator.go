package museum

import (
	"context"
	"sync"
	"time"

	apperrors "go-artwork-pipeline/internal/errors"
	"go-artwork-pipeline/internal/observer"
	"go-artwork-pipeline/pkg/models"
)

// Aggregator fans a query out to every configured museum source and
// interleaves the per-source result lists for presentation variety. A
// failing source contributes zero results; the aggregate search itself
// never fails.
type Aggregator struct {
	sources []Source
	order   []models.SourceCode
	events  observer.Subject
}

// NewAggregator creates an aggregator over the given sources. The slice
// order is the fixed interleaving order. events may be nil.
func NewAggregator(sources []Source, events observer.Subject) *Aggregator {
	order := make([]models.SourceCode, 0, len(sources))
	for _, s := range sources {
		order = append(order, s.Code())
	}
	return &Aggregator{sources: sources, order: order, events: events}
}

// SearchAll queries every source concurrently, each capped at
// ceil(limit/len(sources)) results, and returns the interleaved aggregate.
// Ordering is deterministic given the same per-source result lists,
// independent of completion timing.
func (a *Aggregator) SearchAll(ctx context.Context, query string, limit int) []models.ArtworkCandidate {
	if limit <= 0 || len(a.sources) == 0 {
		return nil
	}
	start := time.Now()
	a.notify(ctx, observer.PipelineEvent{EventType: observer.SearchStarted, Query: query, Success: true})

	perSource := (limit + len(a.sources) - 1) / len(a.sources)

	groups := make(map[models.SourceCode][]models.ArtworkCandidate, len(a.sources))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, src := range a.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := src.Search(ctx, query, perSource)
			if err != nil {
				a.notify(ctx, observer.PipelineEvent{
					EventType:    observer.SourceFailed,
					Source:       string(src.Code()),
					Query:        query,
					ErrorMessage: err.Error(),
				})
				return
			}
			mu.Lock()
			groups[src.Code()] = results
			mu.Unlock()
		}()
	}
	wg.Wait()

	aggregate := Interleave(groups, a.order)
	if len(aggregate) > limit {
		aggregate = aggregate[:limit]
	}

	a.notify(ctx, observer.PipelineEvent{
		EventType:      observer.SearchCompleted,
		Query:          query,
		Success:        true,
		ProcessingTime: time.Since(start),
		Metadata:       map[string]interface{}{"results": len(aggregate)},
	})
	return aggregate
}

// SearchOne delegates to a single source by code; no interleaving
func (a *Aggregator) SearchOne(ctx context.Context, code models.SourceCode, query string, limit int) ([]models.ArtworkCandidate, error) {
	for _, src := range a.sources {
		if src.Code() == code {
			return src.Search(ctx, query, limit)
		}
	}
	return nil, apperrors.NewNotFoundError("unknown museum source: "+string(code), nil)
}

// Interleave emits results round-robin in the given source order: for
// i = 0,1,2,... append the i-th item of each source that has one, until
// every source is exhausted. Sources exhausted early are skipped.
func Interleave(groups map[models.SourceCode][]models.ArtworkCandidate, order []models.SourceCode) []models.ArtworkCandidate {
	// Only sources named in the order participate; anything else in the
	// map would otherwise make the loop spin forever
	total := 0
	for _, code := range order {
		total += len(groups[code])
	}

	out := make([]models.ArtworkCandidate, 0, total)
	for i := 0; len(out) < total; i++ {
		for _, code := range order {
			if g := groups[code]; i < len(g) {
				out = append(out, g[i])
			}
		}
	}
	return out
}

func (a *Aggregator) notify(ctx context.Context, event observer.PipelineEvent) {
	if a.events != nil {
		a.events.NotifyObservers(ctx, event)
	}
}
