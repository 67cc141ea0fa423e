//go:build integration

package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/testhelpers"
)

// uniqueSuffix keeps rows from different tests apart in the shared container.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func createTestEntity(t *testing.T, repo EntityRepository, entityType string) *models.Entity {
	t.Helper()
	suffix := uniqueSuffix()
	entity := &models.Entity{
		Name: "Entity " + suffix,
		Slug: "entity-" + suffix,
		Type: entityType,
	}
	require.NoError(t, repo.Create(context.Background(), entity))
	return entity
}

func TestArticleRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	repo := NewArticleRepository(db)
	ctx := context.Background()

	suffix := uniqueSuffix()
	sourceURL := fmt.Sprintf("https://example.com/%s", suffix)
	summary := "summary"
	article := &models.Article{
		Title:     "Integration Article " + suffix,
		Content:   "body",
		Summary:   &summary,
		Slug:      "integration-article-" + suffix,
		Category:  models.CategoryModels,
		Status:    models.ArticleStatusPublished,
		SourceURL: &sourceURL,
	}
	require.NoError(t, repo.Create(ctx, article))

	got, err := repo.GetBySlug(ctx, article.Slug)
	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)
	assert.Equal(t, models.CategoryModels, got.Category)

	got, err = repo.GetBySourceURL(ctx, sourceURL)
	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)

	_, err = repo.GetBySourceURL(ctx, "https://example.com/nope-"+suffix)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	exists, err := repo.SlugExists(ctx, article.Slug)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArticleRepository_PromoteScheduled_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	repo := NewArticleRepository(db)
	ctx := context.Background()

	suffix := uniqueSuffix()
	due := time.Now().Add(-time.Hour)
	article := &models.Article{
		Title:     "Scheduled " + suffix,
		Content:   "body",
		Slug:      "scheduled-" + suffix,
		Category:  models.CategoryOther,
		Status:    models.ArticleStatusScheduled,
		PublishAt: &due,
	}
	require.NoError(t, repo.Create(ctx, article))

	promoted, err := repo.PromoteScheduled(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, promoted, int64(1))

	got, err := repo.GetBySlug(ctx, article.Slug)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusPublished, got.Status)
}

func TestEntityRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	repo := NewEntityRepository(db)
	ctx := context.Background()

	company := createTestEntity(t, repo, models.EntityTypeCompany)
	model := createTestEntity(t, repo, models.EntityTypeModel)

	got, err := repo.GetBySlug(ctx, model.Slug)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	set, err := repo.SetParentIfUnset(ctx, model.ID, company.ID)
	require.NoError(t, err)
	assert.True(t, set)

	// Second writer does not displace the parent.
	other := createTestEntity(t, repo, models.EntityTypeCompany)
	set, err = repo.SetParentIfUnset(ctx, model.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, set)

	got, err = repo.GetByID(ctx, model.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, company.ID, *got.ParentID)

	require.NoError(t, repo.UpdateSummary(ctx, company.ID, "a company"))
	got, err = repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "a company", *got.Summary)
}

func TestRelationshipRepository_SupersessionFlow_Integration(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	db := testDB.DB
	entities := NewEntityRepository(db)
	relationships := NewRelationshipRepository(db)
	claims := NewClaimRepository(db)
	ctx := context.Background()

	subject := createTestEntity(t, entities, models.EntityTypeModel)
	firstOwner := createTestEntity(t, entities, models.EntityTypeCompany)
	secondOwner := createTestEntity(t, entities, models.EntityTypeCompany)

	today := time.Now().Truncate(24 * time.Hour)

	first := &models.EntityRelationship{
		SubjectID:  subject.ID,
		ObjectID:   firstOwner.ID,
		Predicate:  models.PredicateOwnedBy,
		SourceURL:  "https://example.com/1",
		Confidence: 0.9,
		IsActive:   true,
		ValidFrom:  today,
	}
	require.NoError(t, relationships.Insert(ctx, db, first))

	exists, err := relationships.ActiveExists(ctx, db, subject.ID, firstOwner.ID, models.PredicateOwnedBy)
	require.NoError(t, err)
	assert.True(t, exists)

	// Supersede with a new owner.
	active, err := relationships.FindActive(ctx, db, subject.ID, models.PredicateOwnedBy)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, relationships.Deactivate(ctx, db, []uuid.UUID{active[0].ID}, today))

	second := &models.EntityRelationship{
		SubjectID:  subject.ID,
		ObjectID:   secondOwner.ID,
		Predicate:  models.PredicateOwnedBy,
		SourceURL:  "https://example.com/2",
		Confidence: 0.95,
		IsActive:   true,
		ValidFrom:  today,
	}
	require.NoError(t, relationships.Insert(ctx, db, second))

	active, err = relationships.FindActive(ctx, db, subject.ID, models.PredicateOwnedBy)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, secondOwner.ID, active[0].ObjectID)

	// History is preserved on the subject.
	all, err := relationships.ListByEntity(ctx, subject.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	activeOnly, err := relationships.ListByEntity(ctx, subject.ID, true)
	require.NoError(t, err)
	assert.Len(t, activeOnly, 1)

	// Claim revisions count up across supersessions.
	predicate := models.PredicateOwnedBy
	objectID := firstOwner.ID
	require.NoError(t, claims.Insert(ctx, db, &models.Claim{
		ClaimType:          models.ClaimTypeRelationship,
		SubjectID:          subject.ID,
		ObjectID:           &objectID,
		Predicate:          &predicate,
		SourceURL:          "https://example.com/1",
		Confidence:         0.9,
		Revision:           1,
		IsCurrent:          true,
		VerificationStatus: models.VerificationAutoExtracted,
	}))

	superseded, err := claims.SupersedeRelationship(ctx, db, subject.ID, models.PredicateOwnedBy)
	require.NoError(t, err)
	assert.Equal(t, 1, superseded)

	current, err := claims.ListBySubject(ctx, subject.ID, true)
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestTimelineRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	entities := NewEntityRepository(db)
	timeline := NewTimelineRepository(db)
	ctx := context.Background()

	entity := createTestEntity(t, entities, models.EntityTypeCompany)
	eventDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	event := &models.TimelineEvent{
		EntityID:   entity.ID,
		Title:      "Launch",
		EventDate:  eventDate,
		EventType:  models.EventTypeRelease,
		SourceURL:  "https://example.com/a",
		Confidence: 0.7,
	}
	require.NoError(t, timeline.Create(ctx, event))

	exists, err := timeline.Exists(ctx, entity.ID, models.EventTypeRelease, eventDate, "Launch")
	require.NoError(t, err)
	assert.True(t, exists)

	// Identical insert is swallowed by the unique constraint.
	dupe := &models.TimelineEvent{
		EntityID:   entity.ID,
		Title:      "Launch",
		EventDate:  eventDate,
		EventType:  models.EventTypeRelease,
		SourceURL:  "https://example.com/b",
		Confidence: 0.7,
	}
	require.NoError(t, timeline.Create(ctx, dupe))

	events, err := timeline.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestIngestionLogRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t).DB
	repo := NewIngestionLogRepository(db)
	ctx := context.Background()

	message := "fetch exceeded 12s"
	entry := &models.IngestionLog{
		SourceURL:        "https://example.com/" + uniqueSuffix(),
		Status:           models.IngestStatusFetchError,
		ProcessingTimeMs: 12050,
		ErrorMessage:     &message,
	}
	require.NoError(t, repo.Create(ctx, entry))

	logs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)

	found := false
	for _, l := range logs {
		if l.ID == entry.ID {
			found = true
			require.NotNil(t, l.ErrorMessage)
			assert.Equal(t, message, *l.ErrorMessage)
		}
	}
	assert.True(t, found)
}
