package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/services"
)

// IngestRequest is the request body for POST /api/ingest.
type IngestRequest struct {
	URL string `json:"url"`
}

// DuplicateResponse is returned with 409 when the source URL was already
// ingested.
type DuplicateResponse struct {
	Success    bool   `json:"success"`
	Duplicate  bool   `json:"duplicate"`
	ExistingID string `json:"existing_id"`
	Slug       string `json:"slug"`
}

// IngestHandler handles article ingestion requests.
type IngestHandler struct {
	ingestion services.IngestionService
	logger    *zap.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingestion services.IngestionService, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		ingestion: ingestion,
		logger:    logger,
	}
}

// RegisterRoutes registers the ingest handler's routes on the given mux.
func (h *IngestHandler) RegisterRoutes(mux *http.ServeMux, requireAdmin func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/ingest", requireAdmin(h.Ingest))
}

// Ingest handles POST /api/ingest
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "url is required")
		return
	}

	result, err := h.ingestion.Ingest(r.Context(), req.URL)
	if err != nil {
		pe := apperrors.AsPipeline(err)
		_ = ErrorResponse(w, pe.HTTPStatus(), string(pe.Kind), pe.Message)
		return
	}

	if result.Duplicate {
		response := DuplicateResponse{
			Duplicate:  true,
			ExistingID: result.ExistingID.String(),
			Slug:       result.Slug,
		}
		if err := WriteJSON(w, http.StatusConflict, response); err != nil {
			h.logger.Error("Failed to encode duplicate response", zap.Error(err))
		}
		return
	}

	response := ApiResponse{
		Success: true,
		Data:    result,
	}
	if err := WriteJSON(w, http.StatusCreated, response); err != nil {
		h.logger.Error("Failed to encode ingest response", zap.Error(err))
	}
}
