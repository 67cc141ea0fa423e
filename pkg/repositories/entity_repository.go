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

// EntityRepository provides data access for canonical entities.
type EntityRepository interface {
	Create(ctx context.Context, entity *models.Entity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error)
	GetBySlug(ctx context.Context, slug string) (*models.Entity, error)
	// SetParentIfUnset sets parent_id only when it is currently null
	// (first-writer-wins). Returns true when the parent was set.
	SetParentIfUnset(ctx context.Context, id, parentID uuid.UUID) (bool, error)
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error
}

type entityRepository struct {
	db *database.DB
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(db *database.DB) EntityRepository {
	return &entityRepository{db: db}
}

var _ EntityRepository = (*entityRepository)(nil)

const entityColumns = `id, name, slug, type, parent_id, summary, created_at`

func (r *entityRepository) Create(ctx context.Context, entity *models.Entity) error {
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	entity.CreatedAt = time.Now()

	query := `
		INSERT INTO entities (id, name, slug, type, parent_id, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		entity.ID, entity.Name, entity.Slug, entity.Type, entity.ParentID, entity.Summary, entity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}
	return nil
}

func (r *entityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = $1`, id))
}

func (r *entityRepository) GetBySlug(ctx context.Context, slug string) (*models.Entity, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE slug = $1`, slug))
}

func (r *entityRepository) SetParentIfUnset(ctx context.Context, id, parentID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE entities SET parent_id = $2
		WHERE id = $1 AND parent_id IS NULL`, id, parentID)
	if err != nil {
		return false, fmt.Errorf("failed to set entity parent: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *entityRepository) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE entities SET summary = $2 WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("failed to update entity summary: %w", err)
	}
	return nil
}

func (r *entityRepository) scanOne(row pgx.Row) (*models.Entity, error) {
	var e models.Entity
	err := row.Scan(&e.ID, &e.Name, &e.Slug, &e.Type, &e.ParentID, &e.Summary, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan entity: %w", err)
	}
	return &e, nil
}
