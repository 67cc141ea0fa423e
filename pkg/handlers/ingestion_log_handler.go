package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

const defaultLogListLimit = 100

// IngestionLogHandler serves the ingestion audit trail.
type IngestionLogHandler struct {
	logs   repositories.IngestionLogRepository
	logger *zap.Logger
}

// NewIngestionLogHandler creates a new ingestion log handler.
func NewIngestionLogHandler(logs repositories.IngestionLogRepository, logger *zap.Logger) *IngestionLogHandler {
	return &IngestionLogHandler{
		logs:   logs,
		logger: logger,
	}
}

// RegisterRoutes registers the log handler's routes on the given mux.
func (h *IngestionLogHandler) RegisterRoutes(mux *http.ServeMux, requireAdmin func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/ingestion-logs", requireAdmin(h.List))
}

// List handles GET /api/ingestion-logs
func (h *IngestionLogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	logs, err := h.logs.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list ingestion logs", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list ingestion logs")
		return
	}

	response := ApiResponse{
		Success: true,
		Data:    logs,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ingestion logs", zap.Error(err))
	}
}
