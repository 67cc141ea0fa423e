package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// RelationshipRepository provides data access for versioned entity
// relationships. Methods taking a Querier participate in the caller's
// transaction so supersession is atomic.
type RelationshipRepository interface {
	ActiveExists(ctx context.Context, q Querier, subjectID, objectID uuid.UUID, predicate string) (bool, error)
	FindActive(ctx context.Context, q Querier, subjectID uuid.UUID, predicate string) ([]*models.EntityRelationship, error)
	Deactivate(ctx context.Context, q Querier, ids []uuid.UUID, validTo time.Time) error
	Insert(ctx context.Context, q Querier, rel *models.EntityRelationship) error
	ListByEntity(ctx context.Context, entityID uuid.UUID, activeOnly bool) ([]*models.EntityRelationship, error)
}

type relationshipRepository struct {
	db *database.DB
}

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(db *database.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

var _ RelationshipRepository = (*relationshipRepository)(nil)

const relationshipColumns = `id, subject_id, object_id, predicate, source_url, confidence, is_active, valid_from, valid_to, created_at, updated_at`

func (r *relationshipRepository) ActiveExists(ctx context.Context, q Querier, subjectID, objectID uuid.UUID, predicate string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM entity_relationships
			WHERE subject_id = $1 AND object_id = $2 AND predicate = $3 AND is_active
		)`, subjectID, objectID, predicate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active relationship: %w", err)
	}
	return exists, nil
}

func (r *relationshipRepository) FindActive(ctx context.Context, q Querier, subjectID uuid.UUID, predicate string) ([]*models.EntityRelationship, error) {
	rows, err := q.Query(ctx, `
		SELECT `+relationshipColumns+`
		FROM entity_relationships
		WHERE subject_id = $1 AND predicate = $2 AND is_active`, subjectID, predicate)
	if err != nil {
		return nil, fmt.Errorf("failed to query active relationships: %w", err)
	}
	defer rows.Close()
	return collectRelationships(rows)
}

func (r *relationshipRepository) Deactivate(ctx context.Context, q Querier, ids []uuid.UUID, validTo time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		UPDATE entity_relationships
		SET is_active = false, valid_to = $2, updated_at = now()
		WHERE id = ANY($1)`, ids, validTo)
	if err != nil {
		return fmt.Errorf("failed to deactivate relationships: %w", err)
	}
	return nil
}

func (r *relationshipRepository) Insert(ctx context.Context, q Querier, rel *models.EntityRelationship) error {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	rel.CreatedAt = time.Now()

	_, err := q.Exec(ctx, `
		INSERT INTO entity_relationships
			(id, subject_id, object_id, predicate, source_url, confidence, is_active, valid_from, valid_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rel.ID, rel.SubjectID, rel.ObjectID, rel.Predicate, rel.SourceURL,
		rel.Confidence, rel.IsActive, rel.ValidFrom, rel.ValidTo, rel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert relationship: %w", err)
	}
	return nil
}

func (r *relationshipRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, activeOnly bool) ([]*models.EntityRelationship, error) {
	query := `
		SELECT ` + relationshipColumns + `
		FROM entity_relationships
		WHERE (subject_id = $1 OR object_id = $1)`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY valid_from DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships by entity: %w", err)
	}
	defer rows.Close()
	return collectRelationships(rows)
}

func collectRelationships(rows pgx.Rows) ([]*models.EntityRelationship, error) {
	var rels []*models.EntityRelationship
	for rows.Next() {
		var rel models.EntityRelationship
		err := rows.Scan(&rel.ID, &rel.SubjectID, &rel.ObjectID, &rel.Predicate,
			&rel.SourceURL, &rel.Confidence, &rel.IsActive, &rel.ValidFrom,
			&rel.ValidTo, &rel.CreatedAt, &rel.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		rels = append(rels, &rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relationships: %w", err)
	}
	return rels, nil
}
