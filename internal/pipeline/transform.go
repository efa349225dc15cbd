package pipeline

import (
	"github.com/couchcryptid/realestate-search-service/internal/domain"
)

// Result is a shaped search response plus the number of rows the radius
// filter removed.
type Result struct {
	domain.SearchResult
	Filtered int
}

// Transform turns a scraped table into the response: every cell is
// normalized, distances from the first located row are attached (and, with
// a radius, applied as a filter), then rows are shaped into Properties.
func Transform(table domain.RawTable, radius *float64) Result {
	rows := domain.NormalizeRows(table)
	kept := domain.AttachAndFilterDistance(rows, radius)
	props := domain.PropertiesFromRows(kept)

	return Result{
		SearchResult: domain.SearchResult{
			Count:      len(props),
			Properties: props,
		},
		Filtered: len(rows) - len(kept),
	}
}
