package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

func newTestTimeline(entities *mockEntityRepo, timeline *mockTimelineRepo, claims *mockClaimRepo) TimelineService {
	return NewTimelineService(nil, entities, timeline, claims, zap.NewNop())
}

func seedEntity(entities *mockEntityRepo, name, slug, entityType string) *models.Entity {
	entity := &models.Entity{ID: uuid.New(), Name: name, Slug: slug, Type: entityType}
	entities.entities[slug] = entity
	return entity
}

func TestTimelineService_RecordEvent(t *testing.T) {
	entities := newMockEntityRepo()
	timeline := &mockTimelineRepo{}
	claims := &mockClaimRepo{}
	svc := newTestTimeline(entities, timeline, claims)

	entity := seedEntity(entities, "Acme", "acme", models.EntityTypeCompany)
	ingested := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	created, err := svc.RecordEvent(context.Background(), "https://example.com/a", ingested, TimelineCandidate{
		Entity:    "Acme Corp.",
		Date:      "2026-08-29",
		Title:     "Product launch",
		EventType: "launch",
	})
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, timeline.events, 1)
	event := timeline.events[0]
	assert.Equal(t, entity.ID, event.EntityID)
	assert.Equal(t, models.EventTypeRelease, event.EventType)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), event.EventDate)
	assert.Equal(t, defaultTimelineConfidence, event.Confidence)

	require.Len(t, claims.inserted, 1)
	claim := claims.inserted[0]
	assert.Equal(t, models.ClaimTypeTimeline, claim.ClaimType)
	assert.Equal(t, 1, claim.Revision)
	assert.True(t, claim.IsCurrent)
	require.NotNil(t, claim.Payload)
	assert.Equal(t, "2026-08-29", claim.Payload.EventDate)
}

func TestTimelineService_RecordEvent_Duplicate(t *testing.T) {
	entities := newMockEntityRepo()
	timeline := &mockTimelineRepo{}
	claims := &mockClaimRepo{}
	svc := newTestTimeline(entities, timeline, claims)

	seedEntity(entities, "Acme", "acme", models.EntityTypeCompany)
	ingested := time.Now()

	candidate := TimelineCandidate{Entity: "Acme", Date: "2026-08-29", Title: "Product launch", EventType: "release"}

	created, err := svc.RecordEvent(context.Background(), "https://example.com/a", ingested, candidate)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.RecordEvent(context.Background(), "https://example.com/b", ingested, candidate)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, timeline.events, 1)
	assert.Len(t, claims.inserted, 1)
}

func TestTimelineService_RecordEvent_DateFallsBackToIngestion(t *testing.T) {
	entities := newMockEntityRepo()
	timeline := &mockTimelineRepo{}
	claims := &mockClaimRepo{}
	svc := newTestTimeline(entities, timeline, claims)

	seedEntity(entities, "Acme", "acme", models.EntityTypeCompany)
	ingested := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)

	created, err := svc.RecordEvent(context.Background(), "https://example.com/a", ingested, TimelineCandidate{
		Entity:    "Acme",
		Date:      "sometime next quarter",
		Title:     "Expansion",
		EventType: "milestone",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), timeline.events[0].EventDate)
}

func TestTimelineService_RecordEvent_UnknownEntity(t *testing.T) {
	svc := newTestTimeline(newMockEntityRepo(), &mockTimelineRepo{}, &mockClaimRepo{})

	_, err := svc.RecordEvent(context.Background(), "https://example.com/a", time.Now(), TimelineCandidate{
		Entity: "Nobody", Title: "Event", EventType: "other",
	})
	require.Error(t, err)
}

func TestTimelineService_RecordEvent_NoTitle(t *testing.T) {
	entities := newMockEntityRepo()
	seedEntity(entities, "Acme", "acme", models.EntityTypeCompany)
	svc := newTestTimeline(entities, &mockTimelineRepo{}, &mockClaimRepo{})

	_, err := svc.RecordEvent(context.Background(), "https://example.com/a", time.Now(), TimelineCandidate{
		Entity: "Acme", Title: "   ", EventType: "other",
	})
	require.Error(t, err)
}
