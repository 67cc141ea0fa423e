package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/services"
)

// EntityHandler handles entity read requests.
type EntityHandler struct {
	entities services.EntityService
	logger   *zap.Logger
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(entities services.EntityService, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{
		entities: entities,
		logger:   logger,
	}
}

// RegisterRoutes registers the entity handler's routes on the given mux.
func (h *EntityHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/entities/{slug}", h.Get)
}

// Get handles GET /api/entities/{slug}
// Returns the entity with its active relationships and timeline.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	detail, err := h.entities.GetDetail(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "entity not found")
			return
		}
		h.logger.Error("Failed to get entity", zap.String("slug", slug), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get entity")
		return
	}

	response := ApiResponse{
		Success: true,
		Data:    detail,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode entity detail", zap.Error(err))
	}
}
