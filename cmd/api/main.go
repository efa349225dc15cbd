package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/realestate-search-service/internal/adapter/homeharvest"
	"github.com/couchcryptid/realestate-search-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/realestate-search-service/internal/adapter/kafka"
	"github.com/couchcryptid/realestate-search-service/internal/config"
	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/couchcryptid/realestate-search-service/internal/observability"
	"github.com/couchcryptid/realestate-search-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var scraper domain.Scraper = homeharvest.NewClient(cfg.ScraperURL, cfg.ScraperTimeout, metrics, logger)
	if cfg.ScraperCacheSize > 0 {
		scraper = homeharvest.NewCachedScraper(scraper, cfg.ScraperCacheSize, cfg.ScraperCacheTTL, metrics)
		logger.Info("scraper cache enabled", "cache_size", cfg.ScraperCacheSize, "ttl", cfg.ScraperCacheTTL)
	}

	// Search events are feature-flagged via SEARCH_EVENTS_ENABLED / KAFKA_BROKERS.
	var (
		events    pipeline.EventPublisher
		publisher *kafkaadapter.Publisher
	)
	if cfg.SearchEventsEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		events = publisher
		logger.Info("search events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSearchTopic)
	} else {
		logger.Info("search events disabled")
	}

	p := pipeline.New(scraper, events, logger, metrics)
	srv := httpadapter.NewServer(cfg, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	p.Wait()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
