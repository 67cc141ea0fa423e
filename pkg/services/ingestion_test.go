package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/fetch"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/llm"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

type ingestionFixture struct {
	articleRepo *mockArticleRepo
	entityRepo  *mockEntityRepo
	logRepo     *mockLogRepo
	versioner   *mockVersioner
	client      *llm.MockClient
	svc         IngestionService
}

func newIngestionFixture(t *testing.T) *ingestionFixture {
	t.Helper()
	logger := zap.NewNop()

	f := &ingestionFixture{
		articleRepo: newMockArticleRepo(),
		entityRepo:  newMockEntityRepo(),
		logRepo:     &mockLogRepo{},
		versioner:   &mockVersioner{},
		client:      llm.NewMockClient(),
	}

	extraction := NewExtractionService(f.client, logger)
	articles := NewArticleService(f.articleRepo, logger)
	resolver := NewEntityResolverService(f.entityRepo, f.articleRepo, f.client, logger)
	timeline := NewTimelineService(nil, f.entityRepo, &mockTimelineRepo{}, &mockClaimRepo{}, logger)
	fetcher := fetch.New(nil, "test-agent", 5*time.Second, logger)

	f.svc = NewIngestionService(fetcher, extraction, articles, resolver,
		f.versioner, timeline, f.articleRepo, f.logRepo, 15000, 50, logger)
	return f
}

const ingestionPage = `<html><head><title>Acme News</title></head><body><article><p>
Acme announced its new large language model today, developed in partnership
with Initech. The launch positions both companies ahead of rivals, with
availability planned across enterprise customers later this year.
</p></article></body></html>`

func articleExtractionJSON() string {
	return `{
		"title": "Acme Announces New Model",
		"content": "Acme announced its new large language model today.",
		"summary": "Acme launched a model.",
		"category": "models",
		"entities": [
			{"name": "Acme", "type": "company"},
			{"name": "Initech", "type": "company"}
		],
		"timeline_event": null
	}`
}

func TestIngestionService_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ingestionPage))
	}))
	defer server.Close()

	f := newIngestionFixture(t)
	f.client.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		if strings.Contains(system, "relationships") {
			return `[{"subject": "Acme", "predicate": "partnered_with", "object": "Initech", "confidence": 0.9}]`, nil
		}
		return articleExtractionJSON(), nil
	}

	result, err := f.svc.Ingest(context.Background(), server.URL)
	require.NoError(t, err)

	assert.False(t, result.Duplicate)
	assert.Equal(t, "acme-announces-new-model", result.Slug)
	assert.Equal(t, models.CategoryModels, result.Category)
	assert.Equal(t, []string{"Acme", "Initech"}, result.Entities)

	require.Len(t, f.versioner.triples, 1)
	assert.Equal(t, models.PredicatePartneredWith, f.versioner.triples[0].Predicate)

	require.Len(t, f.logRepo.entries, 1)
	entry := f.logRepo.entries[0]
	assert.Equal(t, models.IngestStatusSuccess, entry.Status)
	assert.Equal(t, server.URL, entry.SourceURL)
	assert.Nil(t, entry.ErrorMessage)
}

func TestIngestionService_DuplicateShortCircuits(t *testing.T) {
	f := newIngestionFixture(t)

	sourceURL := "https://example.com/existing"
	existing := &models.Article{
		ID: uuid.New(), Slug: "existing-article", Category: models.CategoryModels,
		Status: models.ArticleStatusPublished, SourceURL: &sourceURL,
	}
	f.articleRepo.bySlug[existing.Slug] = existing
	f.articleRepo.bySource[sourceURL] = existing

	result, err := f.svc.Ingest(context.Background(), sourceURL)
	require.NoError(t, err)

	assert.True(t, result.Duplicate)
	require.NotNil(t, result.ExistingID)
	assert.Equal(t, existing.ID, *result.ExistingID)
	assert.Equal(t, 0, f.client.GenerateResponseCalls)

	require.Len(t, f.logRepo.entries, 1)
	assert.Equal(t, models.IngestStatusDuplicate, f.logRepo.entries[0].Status)
}

func TestIngestionService_ShortContentLogsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>stub</p></body></html>"))
	}))
	defer server.Close()

	f := newIngestionFixture(t)

	_, err := f.svc.Ingest(context.Background(), server.URL)
	require.Error(t, err)

	pe := apperrors.AsPipeline(err)
	assert.Equal(t, apperrors.KindExtractedTextTooShort, pe.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.HTTPStatus())

	require.Len(t, f.logRepo.entries, 1)
	entry := f.logRepo.entries[0]
	assert.Equal(t, models.IngestStatusFetchError, entry.Status)
	require.NotNil(t, entry.ErrorMessage)

	assert.Equal(t, 0, f.client.GenerateResponseCalls)
	assert.Empty(t, f.articleRepo.created)
}

func TestIngestionService_InvalidURLLogsFetchError(t *testing.T) {
	f := newIngestionFixture(t)

	_, err := f.svc.Ingest(context.Background(), "not-a-url")
	require.Error(t, err)

	pe := apperrors.AsPipeline(err)
	assert.Equal(t, apperrors.KindInvalidInput, pe.Kind)

	require.Len(t, f.logRepo.entries, 1)
	assert.Equal(t, models.IngestStatusFetchError, f.logRepo.entries[0].Status)
}

func TestIngestionService_ExtractionFailureLogsAIValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ingestionPage))
	}))
	defer server.Close()

	f := newIngestionFixture(t)
	f.client.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "not json at all", nil
	}

	_, err := f.svc.Ingest(context.Background(), server.URL)
	require.Error(t, err)

	pe := apperrors.AsPipeline(err)
	assert.Equal(t, apperrors.KindExtractionParseError, pe.Kind)

	require.Len(t, f.logRepo.entries, 1)
	assert.Equal(t, models.IngestStatusAIValidationError, f.logRepo.entries[0].Status)
	assert.Empty(t, f.articleRepo.created)
}
