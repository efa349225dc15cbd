package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/config"
	"github.com/couchcryptid/realestate-search-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service metadata reported by the root endpoint.
const (
	ServiceName    = "Real Estate API"
	ServiceVersion = "1.0.0"
	serviceID      = "realstate-api"
)

// Searcher runs property searches. It is implemented by pipeline.Pipeline.
type Searcher interface {
	Search(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error)
}

// Server exposes the search API alongside health, readiness and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	searcher   Searcher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API routes plus /healthz, /readyz
// and /metrics.
func NewServer(cfg *config.Config, searcher Searcher, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:        cfg.HTTPAddr(),
			Handler:     withCORS(cfg.CORSOrigins)(requestID(r)),
			ReadTimeout: 10 * time.Second,
			// A search waits on the scraper, so the write deadline follows its timeout.
			WriteTimeout: cfg.ScraperTimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		searcher: searcher,
		logger:   logger,
	}

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	props := r.PathPrefix("/properties").Subrouter()
	props.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":        ServiceName,
		"version":     ServiceVersion,
		"description": "A search API over HomeHarvest real estate listings",
		"health":      "/health",
		"search":      "/properties/search",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceID})
}

// withCORS allows the configured origins with credentials, any method and
// any header.
func withCORS(origins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID", "Accept", "Origin"}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
}
