package domain

import "time"

// RawRow is one scraped listing record as delivered by the scraper: column
// name to provider-native value. Only the latitude/longitude pair is assumed.
type RawRow map[string]any

// RawTable is an ordered batch of scraped rows. Order is significant: it
// decides which row supplies the center coordinate.
type RawTable []RawRow

// NormalizedRow is a RawRow whose values have been reduced to nil, bool,
// int64, float64, string, []any or map[string]any.
type NormalizedRow map[string]any

// Missing is a provider scalar-null marker. Scraper adapters substitute it
// for cells the provider reported as missing.
type Missing string

const (
	// NA marks a missing scalar (pandas NA/NaN/None).
	NA Missing = "NA"
	// NaT marks a missing timestamp.
	NaT Missing = "NaT"
)

// IsNA reports true for every Missing marker.
func (Missing) IsNA() bool { return true }

func (m Missing) String() string { return string(m) }

// naReporter is implemented by provider values that know whether they are
// a null marker.
type naReporter interface {
	IsNA() bool
}

// LocalTime is a wall-clock timestamp without a zone, as pandas writes naive
// datetime64 values. It normalizes to ISO-8601 text with no offset.
type LocalTime struct {
	time.Time
}
