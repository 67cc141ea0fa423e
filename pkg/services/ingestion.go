package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/fetch"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/htmltext"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// IngestResult is the outcome of a successful (or duplicate) ingestion.
type IngestResult struct {
	ArticleID  uuid.UUID  `json:"article_id"`
	Slug       string     `json:"slug"`
	Category   string     `json:"category"`
	Entities   []string   `json:"entities"`
	Duplicate  bool       `json:"duplicate"`
	ExistingID *uuid.UUID `json:"existing_id,omitempty"`
}

// IngestionService runs the full pipeline for one source URL: fetch,
// sanitize, extract, persist, resolve entities, version relationships, and
// record timeline events. Exactly one audit log row is written per call.
type IngestionService interface {
	Ingest(ctx context.Context, sourceURL string) (*IngestResult, error)
}

type ingestionService struct {
	fetcher     *fetch.Fetcher
	extraction  ExtractionService
	articles    ArticleService
	resolver    EntityResolverService
	versioner   ClaimVersionerService
	timeline    TimelineService
	articleRepo repositories.ArticleRepository
	logRepo     repositories.IngestionLogRepository
	maxChars    int
	minChars    int
	logger      *zap.Logger
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(
	fetcher *fetch.Fetcher,
	extraction ExtractionService,
	articles ArticleService,
	resolver EntityResolverService,
	versioner ClaimVersionerService,
	timeline TimelineService,
	articleRepo repositories.ArticleRepository,
	logRepo repositories.IngestionLogRepository,
	maxChars, minChars int,
	logger *zap.Logger,
) IngestionService {
	return &ingestionService{
		fetcher:     fetcher,
		extraction:  extraction,
		articles:    articles,
		resolver:    resolver,
		versioner:   versioner,
		timeline:    timeline,
		articleRepo: articleRepo,
		logRepo:     logRepo,
		maxChars:    maxChars,
		minChars:    minChars,
		logger:      logger.Named("ingestion"),
	}
}

var _ IngestionService = (*ingestionService)(nil)

func (s *ingestionService) Ingest(ctx context.Context, sourceURL string) (*IngestResult, error) {
	start := time.Now()

	result, err := s.run(ctx, sourceURL, start)
	if err != nil {
		pe := apperrors.AsPipeline(err)
		s.writeLog(ctx, sourceURL, pe.LogStatus(), start, pe.Error())
		s.logger.Warn("Ingestion failed",
			zap.String("source_url", sourceURL),
			zap.String("kind", string(pe.Kind)),
			zap.Error(err))
		return nil, pe
	}

	if result.Duplicate {
		s.writeLog(ctx, sourceURL, models.IngestStatusDuplicate, start, "")
		return result, nil
	}

	s.writeLog(ctx, sourceURL, models.IngestStatusSuccess, start, "")
	s.logger.Info("Ingested article",
		zap.String("source_url", sourceURL),
		zap.String("slug", result.Slug),
		zap.Int("entities", len(result.Entities)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *ingestionService) run(ctx context.Context, sourceURL string, ingestedAt time.Time) (*IngestResult, error) {
	existing, err := s.articleRepo.GetBySourceURL(ctx, sourceURL)
	if err == nil {
		id := existing.ID
		return &IngestResult{
			ArticleID:  existing.ID,
			Slug:       existing.Slug,
			Category:   existing.Category,
			Duplicate:  true,
			ExistingID: &id,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.New(apperrors.KindPersistenceError, "failed to check source url", err)
	}

	rawHTML, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	sanitized, err := htmltext.Extract(rawHTML, s.maxChars, s.minChars)
	if err != nil {
		return nil, err
	}

	extraction, err := s.extraction.ExtractArticle(ctx, sanitized.Title, sanitized.Text)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.CreateFromIngestion(ctx, extraction, sourceURL)
	if err != nil {
		return nil, err
	}

	// Everything below enriches the stored article. Failures are logged and
	// skipped; the ingestion itself has already succeeded.
	resolved := s.resolver.ResolveBatch(ctx, article.ID, article.Category, sanitized.Text, extraction.Entities)

	names := make([]string, len(resolved))
	for i, r := range resolved {
		names[i] = r.Entity.Name
	}

	if len(names) >= 2 {
		triples, err := s.extraction.ExtractRelationships(ctx, names, sanitized.Text)
		if err != nil {
			s.logger.Warn("Relationship extraction failed",
				zap.String("source_url", sourceURL),
				zap.Error(err))
		} else if len(triples) > 0 {
			s.versioner.ApplyTriples(ctx, sourceURL, triples)
		}
	}

	if extraction.TimelineEvent != nil {
		if _, err := s.timeline.RecordEvent(ctx, sourceURL, ingestedAt, *extraction.TimelineEvent); err != nil {
			s.logger.Warn("Timeline event not recorded",
				zap.String("source_url", sourceURL),
				zap.Error(err))
		}
	}

	return &IngestResult{
		ArticleID: article.ID,
		Slug:      article.Slug,
		Category:  article.Category,
		Entities:  names,
	}, nil
}

func (s *ingestionService) writeLog(ctx context.Context, sourceURL, status string, start time.Time, message string) {
	entry := &models.IngestionLog{
		SourceURL:        sourceURL,
		Status:           status,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	if message != "" {
		entry.ErrorMessage = &message
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write ingestion log",
			zap.String("source_url", sourceURL),
			zap.String("status", status),
			zap.Error(err))
	}
}
