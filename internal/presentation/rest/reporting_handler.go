package rest

import (
	"log/slog"
	"net/http"

	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/pkg/auth"
)

// ReportingHandler exposes segment and metrics endpoints.
type ReportingHandler struct {
	segments *usecase.GetSegments
	metrics  *usecase.GetMetrics
	users    *usecase.ListUsers
	logger   *slog.Logger
}

// NewReportingHandler creates a new ReportingHandler.
func NewReportingHandler(
	segments *usecase.GetSegments,
	metrics *usecase.GetMetrics,
	users *usecase.ListUsers,
	logger *slog.Logger,
) *ReportingHandler {
	return &ReportingHandler{
		segments: segments,
		metrics:  metrics,
		users:    users,
		logger:   logger,
	}
}

// Segments handles GET /api/v1/segments.
func (h *ReportingHandler) Segments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.segments.Execute(r.Context())
	if err != nil {
		h.logger.Error("segments query failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "segments query failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Metrics handles GET /api/v1/metrics.
func (h *ReportingHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.metrics.Execute(r.Context())
	if err != nil {
		h.logger.Error("metrics query failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "metrics query failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdminUsers handles GET /api/v1/admin/users. Restricted to admins.
func (h *ReportingHandler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || !claims.HasRole(auth.RoleAdmin) {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	resp, err := h.users.Execute(r.Context())
	if err != nil {
		h.logger.Error("user listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "user listing failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers reporting routes on the provided ServeMux.
func (h *ReportingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/segments", h.Segments)
	mux.HandleFunc("GET /api/v1/metrics", h.Metrics)
	mux.HandleFunc("GET /api/v1/admin/users", h.AdminUsers)
}
