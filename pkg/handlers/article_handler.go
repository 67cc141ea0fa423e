package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/services"
)

const defaultArticleListLimit = 50

// ArticleHandler handles article read requests.
type ArticleHandler struct {
	articles services.ArticleService
	logger   *zap.Logger
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articles services.ArticleService, logger *zap.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		logger:   logger,
	}
}

// RegisterRoutes registers the article handler's routes on the given mux.
func (h *ArticleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/articles", h.List)
	mux.HandleFunc("GET /api/articles/{slug}", h.Get)
}

// List handles GET /api/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultArticleListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	articles, err := h.articles.ListPublished(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list articles", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list articles")
		return
	}

	response := ApiResponse{
		Success: true,
		Data:    articles,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode article list", zap.Error(err))
	}
}

// Get handles GET /api/articles/{slug}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	article, err := h.articles.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "article not found")
			return
		}
		h.logger.Error("Failed to get article", zap.String("slug", slug), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get article")
		return
	}

	response := ApiResponse{
		Success: true,
		Data:    article,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode article", zap.Error(err))
	}
}
