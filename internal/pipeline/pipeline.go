package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/couchcryptid/realestate-search-service/internal/observability"
)

// publishTimeout bounds how long a search event may take to publish.
const publishTimeout = 5 * time.Second

// EventPublisher records a finished search somewhere durable.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SearchEvent) error
}

// pinger is implemented by scrapers that can report their own health.
type pinger interface {
	Ping(ctx context.Context) error
}

// Pipeline runs a property search: validate, scrape, normalize, measure
// distances and shape the response.
type Pipeline struct {
	scraper   domain.Scraper
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	inflight  sync.WaitGroup
}

// New creates a Pipeline. Pass a nil publisher to disable search events.
func New(s domain.Scraper, pub EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		scraper:   s,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness pings the scraper when it supports health checks.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	if pg, ok := p.scraper.(pinger); ok {
		return pg.Ping(ctx)
	}
	return nil
}

// Search executes one request. It returns a *domain.ValidationError for
// out-of-bounds parameters and a *domain.SearchError when the scraper
// fails. Nothing is retried.
func (p *Pipeline) Search(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	if err := params.Validate(); err != nil {
		p.metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return domain.SearchResult{}, err
	}

	start := time.Now()
	table, err := p.scraper.Scrape(ctx, params.ScrapeRequest())
	if err != nil {
		serr := &domain.SearchError{Cause: err}
		elapsed := time.Since(start)
		p.metrics.SearchesTotal.WithLabelValues(domain.OutcomeError).Inc()
		p.metrics.SearchDuration.Observe(elapsed.Seconds())
		p.logger.Warn("search failed",
			"error", err,
			"location", params.Location,
			"listing_type", params.ListingType,
		)
		p.publish(ctx, domain.NewSearchEvent(params, 0, serr, elapsed))
		return domain.SearchResult{}, serr
	}

	result := Transform(table, params.Radius)
	elapsed := time.Since(start)

	p.metrics.SearchesTotal.WithLabelValues(domain.OutcomeSuccess).Inc()
	p.metrics.SearchDuration.Observe(elapsed.Seconds())
	p.metrics.PropertiesReturned.Observe(float64(result.Count))
	p.metrics.RadiusFilteredTotal.Add(float64(result.Filtered))

	p.logger.Info("search completed",
		"location", params.Location,
		"listing_type", params.ListingType,
		"rows", len(table),
		"count", result.Count,
		"filtered", result.Filtered,
		"duration", elapsed,
	)
	p.publish(ctx, domain.NewSearchEvent(params, result.Count, nil, elapsed))

	return result.SearchResult, nil
}

// Wait blocks until every pending search event has been published or has
// timed out. Call it before closing the publisher.
func (p *Pipeline) Wait() {
	p.inflight.Wait()
}

// publish sends the event in the background, detached from the request's
// cancellation. Failures are logged and counted only.
func (p *Pipeline) publish(ctx context.Context, event domain.SearchEvent) {
	if p.publisher == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if err := p.publisher.Publish(pubCtx, event); err != nil {
			p.metrics.SearchEvents.WithLabelValues(domain.OutcomeError).Inc()
			p.logger.Warn("publish search event failed", "error", err, "id", event.ID)
			return
		}
		p.metrics.SearchEvents.WithLabelValues(domain.OutcomeSuccess).Inc()
	}()
}
