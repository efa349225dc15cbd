package domain

import "context"

// Scraper fetches listings from the external provider. Implementations
// return rows in provider order and do not retry.
type Scraper interface {
	Scrape(ctx context.Context, req ScrapeRequest) (RawTable, error)
}
