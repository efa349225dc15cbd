package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

type ctxKey struct{}

// errorResponse mirrors the {"detail": ...} body used for every failure.
type errorResponse struct {
	Detail any `json:"detail"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := decodeSearchParams(w, r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: []domain.FieldError{
			{Field: "body", Message: err.Error()},
		}})
		return
	}

	result, err := s.searcher.Search(r.Context(), params)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: verr.Fields})
		return
	}

	detail := err.Error()
	if !errors.Is(err, domain.ErrSearchFailed) {
		detail = fmt.Sprintf("an unexpected error occurred: %v", err)
	}
	s.logger.Error("search request failed",
		"error", err,
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: detail})
}

func decodeSearchParams(w http.ResponseWriter, r *http.Request) (domain.SearchParams, error) {
	var params domain.SearchParams

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return params, errors.New("request body is required")
		}
		return params, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return params, errors.New("invalid JSON: unexpected data after object")
	}
	return params, nil
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
}

// requestID tags every request with an X-Request-ID, reusing the caller's
// value when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestIDFromContext returns the id assigned by the request-id middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
