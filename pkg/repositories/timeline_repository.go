package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// TimelineRepository provides data access for timeline events.
type TimelineRepository interface {
	// Exists reports whether a row with the exact dedup tuple is stored.
	Exists(ctx context.Context, entityID uuid.UUID, eventType string, eventDate time.Time, title string) (bool, error)
	Create(ctx context.Context, event *models.TimelineEvent) error
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.TimelineEvent, error)
}

type timelineRepository struct {
	db *database.DB
}

// NewTimelineRepository creates a new TimelineRepository.
func NewTimelineRepository(db *database.DB) TimelineRepository {
	return &timelineRepository{db: db}
}

var _ TimelineRepository = (*timelineRepository)(nil)

func (r *timelineRepository) Exists(ctx context.Context, entityID uuid.UUID, eventType string, eventDate time.Time, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM timeline_events
			WHERE entity_id = $1 AND event_type = $2 AND event_date = $3 AND title = $4
		)`, entityID, eventType, eventDate, title).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check timeline event: %w", err)
	}
	return exists, nil
}

func (r *timelineRepository) Create(ctx context.Context, event *models.TimelineEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, `
		INSERT INTO timeline_events
			(id, entity_id, title, description, event_date, event_type, source_url, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entity_id, event_type, event_date, title) DO NOTHING`,
		event.ID, event.EntityID, event.Title, event.Description, event.EventDate,
		event.EventType, event.SourceURL, event.Confidence, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}

func (r *timelineRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.TimelineEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, entity_id, title, description, event_date, event_type, source_url, confidence, created_at
		FROM timeline_events
		WHERE entity_id = $1
		ORDER BY event_date DESC, created_at DESC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline events: %w", err)
	}
	defer rows.Close()

	var events []*models.TimelineEvent
	for rows.Next() {
		var e models.TimelineEvent
		err := rows.Scan(&e.ID, &e.EntityID, &e.Title, &e.Description, &e.EventDate,
			&e.EventType, &e.SourceURL, &e.Confidence, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline events: %w", err)
	}
	return events, nil
}
