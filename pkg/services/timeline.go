package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// defaultTimelineConfidence is assigned to timeline claims; the extractor
// does not score timeline events the way it scores relationships.
const defaultTimelineConfidence = 0.7

// eventDateFormats are tried in order when parsing extractor dates.
var eventDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
}

// TimelineService records extracted timeline events against their entities.
type TimelineService interface {
	// RecordEvent resolves the candidate's entity, normalizes its type and
	// date, and inserts the event plus its timeline claim unless an
	// identical event already exists. Returns true when a new event was
	// recorded. Failures are logged by the caller.
	RecordEvent(ctx context.Context, sourceURL string, ingestedAt time.Time, candidate TimelineCandidate) (bool, error)
}

type timelineService struct {
	db       *database.DB
	entities repositories.EntityRepository
	timeline repositories.TimelineRepository
	claims   repositories.ClaimRepository
	logger   *zap.Logger
}

// NewTimelineService creates a new TimelineService.
func NewTimelineService(
	db *database.DB,
	entities repositories.EntityRepository,
	timeline repositories.TimelineRepository,
	claims repositories.ClaimRepository,
	logger *zap.Logger,
) TimelineService {
	return &timelineService{
		db:       db,
		entities: entities,
		timeline: timeline,
		claims:   claims,
		logger:   logger.Named("timeline"),
	}
}

var _ TimelineService = (*timelineService)(nil)

func (s *timelineService) RecordEvent(ctx context.Context, sourceURL string, ingestedAt time.Time, candidate TimelineCandidate) (bool, error) {
	title := strings.TrimSpace(candidate.Title)
	if title == "" {
		return false, apperrors.Newf(apperrors.KindInvalidInput, "timeline event has no title")
	}

	entity, err := s.entities.GetBySlug(ctx, EntitySlug(candidate.Entity))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, apperrors.Newf(apperrors.KindInvalidInput, "no entity for timeline event %q", candidate.Entity)
		}
		return false, err
	}

	eventType := models.NormalizeEventType(candidate.EventType)
	eventDate := parseEventDate(candidate.Date, ingestedAt)

	exists, err := s.timeline.Exists(ctx, entity.ID, eventType, eventDate, title)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Debug("Skipping duplicate timeline event",
			zap.String("entity", entity.Slug),
			zap.String("event_type", eventType),
			zap.String("title", title))
		return false, nil
	}

	event := &models.TimelineEvent{
		EntityID:    entity.ID,
		Title:       title,
		Description: strings.TrimSpace(candidate.Description),
		EventDate:   eventDate,
		EventType:   eventType,
		SourceURL:   sourceURL,
		Confidence:  defaultTimelineConfidence,
	}
	if err := s.timeline.Create(ctx, event); err != nil {
		return false, err
	}

	claim := &models.Claim{
		ClaimType: models.ClaimTypeTimeline,
		SubjectID: entity.ID,
		Payload: &models.TimelinePayload{
			EventType:   eventType,
			EventDate:   eventDate.Format("2006-01-02"),
			Title:       title,
			Description: event.Description,
		},
		SourceURL:          sourceURL,
		Confidence:         defaultTimelineConfidence,
		Revision:           1,
		IsCurrent:          true,
		VerificationStatus: models.VerificationAutoExtracted,
	}
	if err := s.claims.Insert(ctx, s.db, claim); err != nil {
		// The event row is already in; a missing claim is recoverable later.
		s.logger.Warn("Failed to insert timeline claim",
			zap.String("entity", entity.Slug),
			zap.Error(err))
	}

	return true, nil
}

// parseEventDate tries the known extractor date formats and falls back to the
// ingestion date when none match.
func parseEventDate(raw string, ingestedAt time.Time) time.Time {
	cleaned := strings.TrimSpace(raw)
	if cleaned != "" {
		for _, layout := range eventDateFormats {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return t.Truncate(24 * time.Hour)
			}
		}
	}
	return ingestedAt.Truncate(24 * time.Hour)
}
