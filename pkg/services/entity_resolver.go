package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/llm"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/prompts"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// genericBlocklist rejects names too generic to be canonical entities.
// Candidate names are lowercased and singularized before matching.
var genericBlocklist = map[string]bool{
	"ai":                      true,
	"artificial intelligence": true,
	"technology":              true,
	"tech":                    true,
	"company":                 true,
	"startup":                 true,
	"government":              true,
	"industry":                true,
	"market":                  true,
	"internet":                true,
	"software":                true,
	"hardware":                true,
	"data":                    true,
	"news":                    true,
	"report":                  true,
	"world":                   true,
	"people":                  true,
	"user":                    true,
}

// aiKeywords gate person-type entities: a person is only accepted from an
// AI-related article whose body mentions one of these.
var aiKeywords = []string{
	"artificial intelligence", "machine learning", " ai ", "neural",
	"llm", "language model", "deep learning", "chatbot", "genai",
}

var eventNameKeywords = []string{
	"summit", "conference", "expo", "forum", "symposium", "hackathon",
	"keynote", "devday", "workshop", "congress",
}

var institutionNameKeywords = []string{
	"university", "institute", "college", "school", "academy",
	"foundation", "laboratory", "ministry", "department", "agency",
}

// venuePattern catches venue/party/wing names the extractor habitually
// mislabels; they are rejected unless explicitly typed venue.
var venuePattern = regexp.MustCompile(`(?i)\b(arena|stadium|theatre|theater|pavilion|ballroom|party|wing)\b`)

var numericPattern = regexp.MustCompile(`^[0-9.,%\s]+$`)

// corporateSuffixes are stripped off the end of normalized names so
// "OpenAI Inc." and "OpenAI" resolve to the same slug.
var corporateSuffixes = []string{
	"inc.", "inc", "corp.", "corp", "corporation", "llc", "ltd.", "ltd",
	"limited", "plc", "gmbh", "s.a.", "co.",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeEntityName trims, collapses whitespace, title-cases fully
// lowercase words, and strips trailing corporate suffixes. Mixed-case words
// (OpenAI, xAI) are preserved as written.
func NormalizeEntityName(raw string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")

	words := strings.Split(name, " ")
	for len(words) > 1 {
		last := strings.ToLower(strings.TrimSuffix(words[len(words)-1], ","))
		stripped := false
		for _, suffix := range corporateSuffixes {
			if last == suffix {
				words = words[:len(words)-1]
				words[len(words)-1] = strings.TrimSuffix(words[len(words)-1], ",")
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	for i, w := range words {
		if w == strings.ToLower(w) && w != "" {
			r := []rune(w)
			r[0] = unicode.ToUpper(r[0])
			words[i] = string(r)
		}
	}

	return strings.Join(words, " ")
}

// EntitySlug derives the canonical slug for a raw entity name.
func EntitySlug(raw string) string {
	return models.Slugify(NormalizeEntityName(raw))
}

// ResolvedEntity pairs a canonical entity with whether this batch created it.
type ResolvedEntity struct {
	Entity  *models.Entity
	Created bool
}

// EntityResolverService resolves raw extractor candidates to canonical
// entities and lazily backfills entity summaries.
type EntityResolverService interface {
	// ResolveBatch filters, normalizes, and upserts candidates in extractor
	// order, links each accepted entity to the article, and applies the
	// first-company-becomes-parent rule to model entities. Per-candidate
	// failures are logged and skipped, never fatal.
	ResolveBatch(ctx context.Context, articleID uuid.UUID, category, articleText string, candidates []EntityCandidate) []ResolvedEntity

	// BackfillSummary generates and stores a summary for an entity that has
	// none. Failures are non-fatal; the summary stays null.
	BackfillSummary(ctx context.Context, entity *models.Entity) *models.Entity
}

type entityResolverService struct {
	entities  repositories.EntityRepository
	articles  repositories.ArticleRepository
	llmClient llm.Client
	logger    *zap.Logger
}

// NewEntityResolverService creates a new EntityResolverService.
func NewEntityResolverService(
	entities repositories.EntityRepository,
	articles repositories.ArticleRepository,
	llmClient llm.Client,
	logger *zap.Logger,
) EntityResolverService {
	return &entityResolverService{
		entities:  entities,
		articles:  articles,
		llmClient: llmClient,
		logger:    logger.Named("resolver"),
	}
}

var _ EntityResolverService = (*entityResolverService)(nil)

func (s *entityResolverService) ResolveBatch(ctx context.Context, articleID uuid.UUID, category, articleText string, candidates []EntityCandidate) []ResolvedEntity {
	resolved := make([]ResolvedEntity, 0, len(candidates))
	lowerText := " " + strings.ToLower(articleText) + " "

	// Fold accumulator for the parent rule: the first accepted company in
	// extractor order becomes the parent of every model that follows it.
	var firstCompanyID *uuid.UUID

	for _, candidate := range candidates {
		if !s.accept(candidate, category, lowerText) {
			continue
		}

		entity, created, err := s.getOrCreate(ctx, candidate)
		if err != nil {
			s.logger.Warn("Skipping entity candidate",
				zap.String("name", candidate.Name),
				zap.Error(err))
			continue
		}

		if err := s.articles.LinkEntity(ctx, articleID, entity.ID); err != nil {
			s.logger.Warn("Failed to link entity to article",
				zap.String("slug", entity.Slug),
				zap.Error(err))
		}

		if entity.Type == models.EntityTypeCompany && firstCompanyID == nil {
			id := entity.ID
			firstCompanyID = &id
		}

		if entity.Type == models.EntityTypeModel && firstCompanyID != nil && *firstCompanyID != entity.ID {
			set, err := s.entities.SetParentIfUnset(ctx, entity.ID, *firstCompanyID)
			if err != nil {
				s.logger.Warn("Failed to set model parent",
					zap.String("slug", entity.Slug),
					zap.Error(err))
			} else if set {
				entity.ParentID = firstCompanyID
			}
		}

		resolved = append(resolved, ResolvedEntity{Entity: entity, Created: created})
	}

	return resolved
}

// accept applies the rejection rules and the per-type contextual filter.
func (s *entityResolverService) accept(candidate EntityCandidate, category, lowerText string) bool {
	name := strings.TrimSpace(candidate.Name)
	if len(name) < 2 {
		return false
	}
	if numericPattern.MatchString(name) {
		return false
	}
	if !models.IsValidEntityType(candidate.Type) {
		return false
	}

	lowerName := strings.ToLower(name)
	if genericBlocklist[lowerName] || genericBlocklist[inflection.Singular(lowerName)] {
		return false
	}

	if candidate.Type != models.EntityTypeVenue && venuePattern.MatchString(name) {
		return false
	}

	switch candidate.Type {
	case models.EntityTypePerson:
		if !models.AICategories[category] {
			return false
		}
		if !containsAny(lowerText, aiKeywords) {
			return false
		}
	case models.EntityTypeEvent:
		if !containsAny(lowerName, eventNameKeywords) {
			return false
		}
	case models.EntityTypeInstitution:
		if !containsAny(lowerName, institutionNameKeywords) {
			return false
		}
	}

	return true
}

func (s *entityResolverService) getOrCreate(ctx context.Context, candidate EntityCandidate) (*models.Entity, bool, error) {
	name := NormalizeEntityName(candidate.Name)
	slug := models.Slugify(name)
	if slug == "" {
		return nil, false, apperrors.Newf(apperrors.KindInvalidInput, "candidate %q slugs to empty", candidate.Name)
	}

	existing, err := s.entities.GetBySlug(ctx, slug)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	entity := &models.Entity{
		Name: name,
		Slug: slug,
		Type: candidate.Type,
	}
	if err := s.entities.Create(ctx, entity); err != nil {
		// A concurrent insert may have won the slug; re-read before failing.
		if again, readErr := s.entities.GetBySlug(ctx, slug); readErr == nil {
			return again, false, nil
		}
		return nil, false, err
	}
	return entity, true, nil
}

func (s *entityResolverService) BackfillSummary(ctx context.Context, entity *models.Entity) *models.Entity {
	if entity.Summary != nil && *entity.Summary != "" {
		return entity
	}

	response, err := s.llmClient.GenerateResponse(ctx,
		prompts.BuildEntitySummaryPrompt(entity.Name, entity.Type),
		prompts.EntitySummarySystem(), 0.3)
	if err != nil {
		s.logger.Warn("Entity summary backfill failed",
			zap.String("slug", entity.Slug),
			zap.Error(err))
		return entity
	}

	summary := strings.TrimSpace(response)
	if summary == "" {
		return entity
	}

	if err := s.entities.UpdateSummary(ctx, entity.ID, summary); err != nil {
		s.logger.Warn("Failed to store entity summary",
			zap.String("slug", entity.Slug),
			zap.Error(err))
		return entity
	}

	entity.Summary = &summary
	return entity
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
