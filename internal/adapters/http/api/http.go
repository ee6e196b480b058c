// Package api declares HTTP contracts and route registration helpers for
// the dispatch query surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/app"
	"github.com/fortsentinel/dispatch/internal/domain/model"
)

// Record and Result mirror the shapes returned by the service layer.
type (
	Record = repository.Record
	Result = app.Result
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// ProcessArticle runs one article through the pipeline.
	ProcessArticle(ctx context.Context, article model.Article) (Result, error)

	// Get returns a stored dispatch by id.
	Get(ctx context.Context, id string) (Record, error)

	// List returns stored dispatches matching the filter, newest first.
	List(ctx context.Context, f repository.Filter) ([]Record, error)
}

// Server wires HTTP routes for the dispatch API.
type Server struct {
	healthHandler     *HealthHandler
	dispatchesHandler *DispatchesHandler
	generateHandler   *GenerateHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		dispatchesHandler: NewDispatchesHandler(deps),
		generateHandler:   NewGenerateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/dispatches", MetricsMiddleware(s.dispatchesHandler.HandleList, "dispatches"))
	mux.HandleFunc("/api/dispatches/", MetricsMiddleware(s.dispatchesHandler.HandleGet, "dispatch"))
	mux.HandleFunc("/api/generate", MetricsMiddleware(s.generateHandler.HandleGenerate, "generate"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
