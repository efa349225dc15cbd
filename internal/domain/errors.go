package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSearchFailed matches every error produced by a failed scraper call.
var ErrSearchFailed = errors.New("search failed")

// SearchError wraps the scraper failure behind a search request. Both
// ErrSearchFailed and the original cause are reachable through errors.Is.
type SearchError struct {
	Cause error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("failed to scrape properties: %v", e.Cause)
}

func (e *SearchError) Unwrap() []error {
	return []error{ErrSearchFailed, e.Cause}
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field of a search request that is out of bounds.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "invalid search request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) addf(field, format string, args ...any) {
	e.add(field, fmt.Sprintf(format, args...))
}
