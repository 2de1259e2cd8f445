package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/lodestar/internal/domain"
	"github.com/davidbz/lodestar/internal/observability"
)

const (
	headerResolutionSource = "X-Resolution-Source"
	maxBodyBytes           = 8 << 20
)

// Handler handles HTTP requests.
type Handler struct {
	pipeline *domain.Pipeline
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(pipeline *domain.Pipeline) *Handler {
	return &Handler{
		pipeline: pipeline,
	}
}

// importRequest is the body of POST /v1/knowledge/import.
type importRequest struct {
	Items []domain.ImportItem `json:"items"`
}

// HandleAsk resolves a question.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ResolveRequest
	if err := decode(w, r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Resolve(ctx, req)
	if result != nil && result.Source != "" {
		w.Header().Set(headerResolutionSource, string(result.Source))
	}
	if err != nil {
		observability.FromContext(ctx).Warn("ask failed", observability.Error(err))
		writeJSON(w, r, statusFor(err), result)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// HandleHealth reports dependency health. Unhealthy maps to 503.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := h.pipeline.Health(r.Context())

	status := http.StatusOK
	if report.Status == domain.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, report)
}

// HandleLiveness handles process liveness checks.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleImport stores question/answer pairs directly in the vector tier.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req importRequest
	if err := decode(w, r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	report, err := h.pipeline.BulkImport(ctx, req.Items)
	if err != nil {
		observability.FromContext(ctx).Warn("import failed", observability.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

// HandleCacheStats reports cache backend statistics.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.pipeline.CacheStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, stats)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingFailure), errors.Is(err, domain.ErrGenerativeFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
