package homeharvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/couchcryptid/realestate-search-service/internal/observability"
)

// Client implements domain.Scraper against the HomeHarvest sidecar.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a HomeHarvest scraper client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Scrape posts the request arguments to /scrape and decodes the returned
// table.
func (c *Client) Scrape(ctx context.Context, req domain.ScrapeRequest) (domain.RawTable, error) {
	body, err := json.Marshal(req.Args)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ScraperDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("scraper API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	table, err := DecodeTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("scrape completed",
		"location", req.Args["location"],
		"rows", len(table),
		"duration", time.Since(start),
	)
	return table, nil
}

// Ping checks that the sidecar is up. It backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scraper health request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scraper unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
