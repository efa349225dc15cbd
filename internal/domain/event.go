package domain

import (
	"time"

	"github.com/google/uuid"
)

// Search outcomes recorded on events and metrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// SearchEvent is the audit record published after every search.
type SearchEvent struct {
	ID          string      `json:"id"`
	Location    string      `json:"location"`
	ListingType ListingType `json:"listing_type"`
	Radius      *float64    `json:"radius,omitempty"`
	ResultCount int         `json:"result_count"`
	Outcome     string      `json:"outcome"`
	Error       string      `json:"error,omitempty"`
	DurationMS  int64       `json:"duration_ms"`
	SearchedAt  time.Time   `json:"searched_at"`
}

// NewSearchEvent records the result of a search. A non-nil err marks the
// event as failed.
func NewSearchEvent(params SearchParams, count int, err error, elapsed time.Duration) SearchEvent {
	event := SearchEvent{
		ID:          uuid.NewString(),
		Location:    params.Location,
		ListingType: params.ListingType,
		Radius:      params.Radius,
		ResultCount: count,
		Outcome:     OutcomeSuccess,
		DurationMS:  elapsed.Milliseconds(),
		SearchedAt:  clock.Now().UTC(),
	}
	if err != nil {
		event.Outcome = OutcomeError
		event.Error = err.Error()
	}
	return event
}
