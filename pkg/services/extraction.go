package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/llm"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/prompts"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/retry"
)

// EntityCandidate is a raw {name, type} pair returned by the extractor.
// Nothing here is trusted until the resolver has validated it.
type EntityCandidate struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TimelineCandidate is the raw timeline event returned by the extractor.
type TimelineCandidate struct {
	Entity      string `json:"entity"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventType   string `json:"event_type"`
}

// ArticleExtraction is the validated result of the structured extraction call.
// Category is already coerced to the closed vocabulary; entity types and
// event types are validated downstream by their consumers.
type ArticleExtraction struct {
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	Summary       string             `json:"summary"`
	Category      string             `json:"category"`
	Entities      []EntityCandidate  `json:"entities"`
	TimelineEvent *TimelineCandidate `json:"timeline_event"`
}

// RelationshipTriple is one row of the narrower relationship extraction call.
type RelationshipTriple struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence"`
}

// ExtractionService turns sanitized article text into structured records via
// the external LLM. The LLM is an untrusted oracle: its output is re-validated
// field by field before anything downstream consumes it.
type ExtractionService interface {
	ExtractArticle(ctx context.Context, pageTitle, sanitizedText string) (*ArticleExtraction, error)
	ExtractRelationships(ctx context.Context, entityNames []string, sanitizedText string) ([]RelationshipTriple, error)
}

type extractionService struct {
	client llm.Client
	logger *zap.Logger
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(client llm.Client, logger *zap.Logger) ExtractionService {
	return &extractionService{
		client: client,
		logger: logger.Named("extraction"),
	}
}

var _ ExtractionService = (*extractionService)(nil)

const extractionTemperature = 0.1

func (s *extractionService) ExtractArticle(ctx context.Context, pageTitle, sanitizedText string) (*ArticleExtraction, error) {
	prompt := prompts.BuildArticleExtractionPrompt(pageTitle, sanitizedText)

	response, err := retry.DoWithResult(ctx, nil, func() (string, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.ArticleExtractionSystem(), extractionTemperature)
	})
	if err != nil {
		return nil, apperrors.New(apperrors.KindExtractionServiceError, "article extraction call failed", err)
	}

	extraction, err := llm.ParseJSONResponse[ArticleExtraction](response)
	if err != nil {
		return nil, apperrors.New(apperrors.KindExtractionParseError, "article extraction returned invalid JSON", err)
	}

	extraction.Title = strings.TrimSpace(extraction.Title)
	extraction.Content = strings.TrimSpace(extraction.Content)
	if extraction.Title == "" || extraction.Content == "" {
		return nil, apperrors.Newf(apperrors.KindExtractionParseError,
			"extraction response missing title or content")
	}

	rawCategory := extraction.Category
	extraction.Category = models.NormalizeCategory(rawCategory)
	if extraction.Category != strings.ToLower(strings.TrimSpace(rawCategory)) {
		s.logger.Debug("Coerced extractor category",
			zap.String("raw", rawCategory),
			zap.String("category", extraction.Category))
	}

	s.logger.Info("Article extraction completed",
		zap.String("category", extraction.Category),
		zap.Int("entities", len(extraction.Entities)),
		zap.Bool("timeline_event", extraction.TimelineEvent != nil))

	return &extraction, nil
}

func (s *extractionService) ExtractRelationships(ctx context.Context, entityNames []string, sanitizedText string) ([]RelationshipTriple, error) {
	if len(entityNames) < 2 {
		// A triple needs two resolved entities.
		return nil, nil
	}

	prompt := prompts.BuildRelationshipExtractionPrompt(entityNames, sanitizedText)

	response, err := retry.DoWithResult(ctx, nil, func() (string, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.RelationshipExtractionSystem(), extractionTemperature)
	})
	if err != nil {
		return nil, apperrors.New(apperrors.KindExtractionServiceError, "relationship extraction call failed", err)
	}

	triples, err := llm.ParseJSONResponse[[]RelationshipTriple](response)
	if err != nil {
		return nil, apperrors.New(apperrors.KindExtractionParseError, "relationship extraction returned invalid JSON", err)
	}

	kept := make([]RelationshipTriple, 0, len(triples))
	for _, t := range triples {
		predicate, ok := models.NormalizePredicate(t.Predicate)
		if !ok {
			s.logger.Debug("Dropped triple with unknown predicate", zap.String("predicate", t.Predicate))
			continue
		}
		t.Predicate = predicate
		if t.Confidence < 0 {
			t.Confidence = 0
		}
		if t.Confidence > 1 {
			t.Confidence = 1
		}
		if strings.TrimSpace(t.Subject) == "" || strings.TrimSpace(t.Object) == "" {
			continue
		}
		kept = append(kept, t)
	}

	s.logger.Info("Relationship extraction completed",
		zap.Int("returned", len(triples)),
		zap.Int("kept", len(kept)))

	return kept, nil
}
