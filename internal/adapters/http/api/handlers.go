package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fortsentinel/dispatch/internal/adapters/repository"
	"github.com/fortsentinel/dispatch/internal/domain/dispatch"
	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves liveness plus Prometheus metrics from the custom
// registry.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// DispatchesHandler serves the read side of the store.
type DispatchesHandler struct {
	deps Dependencies
}

// NewDispatchesHandler creates a new dispatches handler.
func NewDispatchesHandler(deps Dependencies) *DispatchesHandler {
	return &DispatchesHandler{deps: deps}
}

type listResponse struct {
	Dispatches []dispatchView `json:"dispatches"`
}

// dispatchView is the wire shape for a record; the body is omitted from
// listings and returned only on direct gets.
type dispatchView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Tags      []string  `json:"tags"`
	Voice     string    `json:"voice"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body,omitempty"`
}

func toView(rec Record, withBody bool) dispatchView {
	v := dispatchView{
		ID:        rec.ID,
		Title:     rec.Title,
		Date:      rec.DatePartition,
		Tags:      rec.Tags,
		Voice:     rec.Voice,
		Summary:   rec.Summary,
		Source:    rec.SourceName,
		URL:       rec.ArticleURL,
		CreatedAt: rec.CreatedAt,
	}
	if withBody {
		v.Body = rec.Body
	}
	return v
}

// HandleList handles GET /api/dispatches with optional tag, voice, from and
// to query parameters (dates as YYYY-MM-DD).
func (h *DispatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	filter := repository.Filter{
		Tag:   r.URL.Query().Get("tag"),
		Voice: r.URL.Query().Get("voice"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid from date; want YYYY-MM-DD"))
			return
		}
		filter.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid to date; want YYYY-MM-DD"))
			return
		}
		filter.To = t
	}

	records, err := h.deps.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage_error", err)
		return
	}

	views := make([]dispatchView, len(records))
	for i, rec := range records {
		views[i] = toView(rec, false)
	}
	writeJSON(w, http.StatusOK, listResponse{Dispatches: views})
}

// HandleGet handles GET /api/dispatches/{id}.
func (h *DispatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/dispatches/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing dispatch id"))
		return
	}

	rec, err := h.deps.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "storage_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toView(rec, true))
}

// GenerateHandler runs the pipeline for a single submitted article.
type GenerateHandler struct {
	deps Dependencies
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(deps Dependencies) *GenerateHandler {
	return &GenerateHandler{deps: deps}
}

// generateRequest mirrors the article shape accepted by POST /api/generate.
type generateRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	BodyText    string `json:"body_text"`
	SourceName  string `json:"source_name"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
}

type generateResponse struct {
	ID      string   `json:"id"`
	Voice   string   `json:"voice"`
	Tags    []string `json:"tags"`
	Created bool     `json:"created"`
}

// HandleGenerate handles POST /api/generate.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	article := model.Article{
		URL:        req.URL,
		Title:      req.Title,
		BodyText:   req.BodyText,
		SourceName: req.SourceName,
		Author:     req.Author,
		FetchedAt:  time.Now(),
	}
	if req.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid published_at; must be RFC3339"))
			return
		}
		article.PublishedAt = t
	}

	res, err := h.deps.ProcessArticle(r.Context(), article)
	if err != nil {
		if errors.Is(err, dispatch.ErrInvalidArticle) || errors.Is(err, dispatch.ErrUnknownVoice) {
			writeError(w, http.StatusBadRequest, "invalid_article", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "storage_error", err)
		return
	}

	status := http.StatusCreated
	if !res.Written {
		status = http.StatusOK
	}
	writeJSON(w, status, generateResponse{
		ID:      res.ID,
		Voice:   res.Voice,
		Tags:    res.Tags,
		Created: res.Written,
	})
}
