package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// mockEntityRepo is an in-memory EntityRepository keyed by slug.
type mockEntityRepo struct {
	entities    map[string]*models.Entity
	createErr   error
	parentCalls []uuid.UUID
	summaries   map[uuid.UUID]string
}

func newMockEntityRepo() *mockEntityRepo {
	return &mockEntityRepo{
		entities:  make(map[string]*models.Entity),
		summaries: make(map[uuid.UUID]string),
	}
}

func (m *mockEntityRepo) Create(ctx context.Context, entity *models.Entity) error {
	if m.createErr != nil {
		return m.createErr
	}
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	m.entities[entity.Slug] = entity
	return nil
}

func (m *mockEntityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	for _, e := range m.entities {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockEntityRepo) GetBySlug(ctx context.Context, slug string) (*models.Entity, error) {
	if e, ok := m.entities[slug]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockEntityRepo) SetParentIfUnset(ctx context.Context, id, parentID uuid.UUID) (bool, error) {
	m.parentCalls = append(m.parentCalls, id)
	for _, e := range m.entities {
		if e.ID == id {
			if e.ParentID != nil {
				return false, nil
			}
			pid := parentID
			e.ParentID = &pid
			return true, nil
		}
	}
	return false, apperrors.ErrNotFound
}

func (m *mockEntityRepo) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	m.summaries[id] = summary
	return nil
}

var _ repositories.EntityRepository = (*mockEntityRepo)(nil)

// mockArticleRepo is an in-memory ArticleRepository.
type mockArticleRepo struct {
	bySlug   map[string]*models.Article
	bySource map[string]*models.Article
	links    map[uuid.UUID][]uuid.UUID
	created  []*models.Article
}

func newMockArticleRepo() *mockArticleRepo {
	return &mockArticleRepo{
		bySlug:   make(map[string]*models.Article),
		bySource: make(map[string]*models.Article),
		links:    make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockArticleRepo) Create(ctx context.Context, article *models.Article) error {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	article.CreatedAt = time.Now()
	m.bySlug[article.Slug] = article
	if article.SourceURL != nil {
		m.bySource[*article.SourceURL] = article
	}
	m.created = append(m.created, article)
	return nil
}

func (m *mockArticleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if a, ok := m.bySlug[slug]; ok {
		return a, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockArticleRepo) GetBySourceURL(ctx context.Context, sourceURL string) (*models.Article, error) {
	if a, ok := m.bySource[sourceURL]; ok {
		return a, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := m.bySlug[slug]
	return ok, nil
}

func (m *mockArticleRepo) ListPublished(ctx context.Context, limit int) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range m.bySlug {
		if a.Status == models.ArticleStatusPublished {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockArticleRepo) PromoteScheduled(ctx context.Context, now time.Time) (int64, error) {
	var promoted int64
	for _, a := range m.bySlug {
		if a.Status == models.ArticleStatusScheduled && a.PublishAt != nil && !a.PublishAt.After(now) {
			a.Status = models.ArticleStatusPublished
			promoted++
		}
	}
	return promoted, nil
}

func (m *mockArticleRepo) LinkEntity(ctx context.Context, articleID, entityID uuid.UUID) error {
	m.links[articleID] = append(m.links[articleID], entityID)
	return nil
}

func (m *mockArticleRepo) EntityIDs(ctx context.Context, articleID uuid.UUID) ([]uuid.UUID, error) {
	return m.links[articleID], nil
}

var _ repositories.ArticleRepository = (*mockArticleRepo)(nil)

// mockTimelineRepo is an in-memory TimelineRepository.
type mockTimelineRepo struct {
	events []*models.TimelineEvent
}

func (m *mockTimelineRepo) Exists(ctx context.Context, entityID uuid.UUID, eventType string, eventDate time.Time, title string) (bool, error) {
	for _, e := range m.events {
		if e.EntityID == entityID && e.EventType == eventType && e.EventDate.Equal(eventDate) && e.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTimelineRepo) Create(ctx context.Context, event *models.TimelineEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockTimelineRepo) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.TimelineEvent, error) {
	var out []*models.TimelineEvent
	for _, e := range m.events {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repositories.TimelineRepository = (*mockTimelineRepo)(nil)

// mockClaimRepo records inserted claims; q is ignored.
type mockClaimRepo struct {
	inserted     []*models.Claim
	supersedeMax int
}

func (m *mockClaimRepo) Insert(ctx context.Context, q repositories.Querier, claim *models.Claim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	m.inserted = append(m.inserted, claim)
	return nil
}

func (m *mockClaimRepo) SupersedeRelationship(ctx context.Context, q repositories.Querier, subjectID uuid.UUID, predicate string) (int, error) {
	return m.supersedeMax, nil
}

func (m *mockClaimRepo) ListBySubject(ctx context.Context, subjectID uuid.UUID, currentOnly bool) ([]*models.Claim, error) {
	return m.inserted, nil
}

var _ repositories.ClaimRepository = (*mockClaimRepo)(nil)

// mockLogRepo records ingestion log rows.
type mockLogRepo struct {
	entries []*models.IngestionLog
}

func (m *mockLogRepo) Create(ctx context.Context, log *models.IngestionLog) error {
	m.entries = append(m.entries, log)
	return nil
}

func (m *mockLogRepo) ListRecent(ctx context.Context, limit int) ([]*models.IngestionLog, error) {
	return m.entries, nil
}

var _ repositories.IngestionLogRepository = (*mockLogRepo)(nil)

// mockVersioner records applied triples.
type mockVersioner struct {
	sourceURL string
	triples   []RelationshipTriple
}

func (m *mockVersioner) ApplyTriples(ctx context.Context, sourceURL string, triples []RelationshipTriple) int {
	m.sourceURL = sourceURL
	m.triples = append(m.triples, triples...)
	return len(triples)
}

var _ ClaimVersionerService = (*mockVersioner)(nil)
