package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search for a free slug.
const maxSlugAttempts = 50

// ArticleService owns article persistence and the read paths.
type ArticleService interface {
	// CreateFromIngestion persists an extracted article as published with a
	// collision-free slug.
	CreateFromIngestion(ctx context.Context, extraction *ArticleExtraction, sourceURL string) (*models.Article, error)

	// ListPublished promotes due scheduled articles, then returns published
	// articles newest first.
	ListPublished(ctx context.Context, limit int) ([]*models.Article, error)

	// GetBySlug returns one article, promoting due scheduled articles first
	// so a just-due article is readable.
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
}

type articleService struct {
	articles repositories.ArticleRepository
	logger   *zap.Logger
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articles repositories.ArticleRepository, logger *zap.Logger) ArticleService {
	return &articleService{
		articles: articles,
		logger:   logger.Named("articles"),
	}
}

var _ ArticleService = (*articleService)(nil)

func (s *articleService) CreateFromIngestion(ctx context.Context, extraction *ArticleExtraction, sourceURL string) (*models.Article, error) {
	slug, err := s.uniqueSlug(ctx, extraction.Title)
	if err != nil {
		return nil, err
	}

	var summary *string
	if trimmed := strings.TrimSpace(extraction.Summary); trimmed != "" {
		summary = &trimmed
	}

	article := &models.Article{
		Title:     extraction.Title,
		Content:   extraction.Content,
		Summary:   summary,
		Slug:      slug,
		Category:  extraction.Category,
		Status:    models.ArticleStatusPublished,
		SourceURL: &sourceURL,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.New(apperrors.KindPersistenceError, "failed to create article", err)
	}
	return article, nil
}

// uniqueSlug slugifies the title and appends -2, -3, ... until the slug is
// free.
func (s *articleService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := models.Slugify(title)
	if base == "" {
		base = "article"
	}

	slug := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.articles.SlugExists(ctx, slug)
		if err != nil {
			return "", apperrors.New(apperrors.KindPersistenceError, "failed to check slug", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperrors.Newf(apperrors.KindPersistenceError, "no free slug for %q after %d attempts", base, maxSlugAttempts)
}

func (s *articleService) ListPublished(ctx context.Context, limit int) ([]*models.Article, error) {
	s.promoteDue(ctx)
	return s.articles.ListPublished(ctx, limit)
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	s.promoteDue(ctx)
	return s.articles.GetBySlug(ctx, slug)
}

func (s *articleService) promoteDue(ctx context.Context) {
	promoted, err := s.articles.PromoteScheduled(ctx, time.Now())
	if err != nil {
		s.logger.Warn("Failed to promote scheduled articles", zap.Error(err))
		return
	}
	if promoted > 0 {
		s.logger.Info("Promoted scheduled articles", zap.Int64("count", promoted))
	}
}
