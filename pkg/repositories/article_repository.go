package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// ArticleRepository provides data access for articles and the
// article-entity join.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListPublished(ctx context.Context, limit int) ([]*models.Article, error)
	PromoteScheduled(ctx context.Context, now time.Time) (int64, error)
	LinkEntity(ctx context.Context, articleID, entityID uuid.UUID) error
	EntityIDs(ctx context.Context, articleID uuid.UUID) ([]uuid.UUID, error)
}

type articleRepository struct {
	db *database.DB
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(db *database.DB) ArticleRepository {
	return &articleRepository{db: db}
}

var _ ArticleRepository = (*articleRepository)(nil)

const articleColumns = `id, title, content, summary, slug, category, status, publish_at, source_url, created_at`

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	article.CreatedAt = time.Now()

	query := `
		INSERT INTO articles (id, title, content, summary, slug, category, status, publish_at, source_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		article.ID, article.Title, article.Content, article.Summary, article.Slug,
		article.Category, article.Status, article.PublishAt, article.SourceURL, article.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, slug))
}

func (r *articleRepository) GetBySourceURL(ctx context.Context, sourceURL string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE source_url = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, sourceURL))
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *articleRepository) ListPublished(ctx context.Context, limit int) ([]*models.Article, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}
	return articles, nil
}

// PromoteScheduled flips scheduled articles whose publish_at has elapsed to
// published. Returns the number of rows promoted.
func (r *articleRepository) PromoteScheduled(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE articles
		SET status = 'published'
		WHERE status = 'scheduled' AND publish_at IS NOT NULL AND publish_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to promote scheduled articles: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LinkEntity upserts the article-entity join. Re-ingesting the same pair is a
// no-op.
func (r *articleRepository) LinkEntity(ctx context.Context, articleID, entityID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO article_entities (article_id, entity_id)
		VALUES ($1, $2)
		ON CONFLICT (article_id, entity_id) DO NOTHING`, articleID, entityID)
	if err != nil {
		return fmt.Errorf("failed to link entity to article: %w", err)
	}
	return nil
}

func (r *articleRepository) EntityIDs(ctx context.Context, articleID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT entity_id FROM article_entities WHERE article_id = $1`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query article entities: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entity id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *articleRepository) scanOne(row pgx.Row) (*models.Article, error) {
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Summary, &a.Slug, &a.Category,
		&a.Status, &a.PublishAt, &a.SourceURL, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}
	return &a, nil
}
