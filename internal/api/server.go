// Package api provides the HTTP JSON API for memory-bank.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the HTTP interface layer. It maps routes onto the
// read operations of internal/service and wraps every result in the shared
// response envelope.
//
// INTEGRATION POINTS:
// - internal/service/service.go: all template, domain and guide data
// - internal/errors/handlers.go: HTTPErrorHandler writes error envelopes
// - internal/validation/validator.go: query parameter parsing
// - internal/renderer/renderer.go: HTML fragments for template content
// - internal/api/openapi.go: OpenAPI document at /api/openapi.json
//
// MIDDLEWARE STACK:
// - Request ID: X-Request-ID propagated or generated
// - Logging: method, path, status and duration through zap
// - CORS: configured origins
// - Recovery: panics become INTERNAL_ERROR envelopes
//
// ENDPOINT STRUCTURE:
// - /api/templates, /api/templates/{slug}: general library
// - /api/libraries, /api/libraries/{domain}, /api/libraries/{domain}/{slug}: domain libraries
// - /api/export/{slug}: markdown download
// - /api/search, /api/guide, /api/health, /api/openapi.json
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reputable-tech/memory-bank/internal/config"
	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/renderer"
	"github.com/reputable-tech/memory-bank/internal/service"
)

// APIServer serves the JSON API
type APIServer struct {
	service      *service.Service
	renderer     *renderer.Renderer
	errorHandler *errors.HTTPErrorHandler
	logger       *zap.Logger
	config       config.ServerConfig
	server       *http.Server
	now          func() time.Time
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *service.Service, cfg config.ServerConfig, logger *zap.Logger) *APIServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")

	s := &APIServer{
		service:      svc,
		renderer:     renderer.NewRenderer(),
		errorHandler: errors.NewHTTPErrorHandler(logger),
		logger:       logger,
		config:       cfg,
		now:          time.Now,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with the full middleware stack
func (s *APIServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestID,
		Logging(s.logger),
		CORS(s.config.CORSOrigins),
		Recovery(s.errorHandler, s.logger),
	)

	r.NotFound(s.handleRouteNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(s.handleRouteNotFound)
		r.MethodNotAllowed(s.handleMethodNotAllowed)

		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{slug}", s.handleGetTemplate)
		r.Get("/templates/{slug}/html", s.handleGetTemplateHTML)

		r.Get("/libraries", s.handleListLibraries)
		r.Get("/libraries/{domain}", s.handleListDomainTemplates)
		r.Get("/libraries/{domain}/{slug}", s.handleGetDomainTemplate)
		r.Get("/libraries/{domain}/{slug}/html", s.handleGetDomainTemplateHTML)

		r.Get("/export/{slug}", s.handleExport)
		r.Get("/search", s.handleSearch)

		r.Get("/guide", s.handleListGuide)
		r.Get("/guide/{step}", s.handleGetGuide)

		r.Get("/health", s.handleHealth)
		r.Get("/docs", s.handleOpenAPI)
		r.Get("/openapi.json", s.handleOpenAPISpec)
	})

	return r
}

func (s *APIServer) handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.NewAppError(errors.ErrCodeRouteNotFound, "Route not found."))
}

func (s *APIServer) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.NewAppError(errors.ErrCodeMethodNotAllowed, "Method not allowed."))
}

// Start begins serving HTTP requests. It returns nil after a graceful Stop.
func (s *APIServer) Start() error {
	s.logger.Info("API server starting",
		zap.String("addr", "http://"+s.config.Addr()),
		zap.String("docs", "http://"+s.config.Addr()+"/api/docs"),
	)

	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}

// Meta carries response metadata
type Meta struct {
	Count     *int   `json:"count,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// APIResponse represents the standardized response envelope
type APIResponse struct {
	Status string            `json:"status"`
	Data   interface{}       `json:"data,omitempty"`
	Error  *errors.ErrorBody `json:"error,omitempty"`
	Meta   *Meta             `json:"meta,omitempty"`
}

// newMeta stamps version and timestamp onto response metadata
func (s *APIServer) newMeta() *Meta {
	return &Meta{
		Version:   service.Version,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
}

// withCount sets the item count on m
func (m *Meta) withCount(n int) *Meta {
	m.Count = &n
	return m
}

// writeResponse writes a successful JSON envelope
func (s *APIServer) writeResponse(w http.ResponseWriter, data interface{}, meta *Meta) {
	response := APIResponse{
		Status: "ok",
		Data:   data,
		Meta:   meta,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response using the error handler
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	s.errorHandler.WriteHTTPError(w, err)
}
