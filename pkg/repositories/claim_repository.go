package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// ClaimRepository provides data access for versioned claims. Supersession
// methods take a Querier so they run inside the versioner's transaction.
type ClaimRepository interface {
	Insert(ctx context.Context, q Querier, claim *models.Claim) error
	// SupersedeRelationship marks current relationship claims for
	// (subject, predicate) as non-current and returns their max revision
	// (0 when none existed).
	SupersedeRelationship(ctx context.Context, q Querier, subjectID uuid.UUID, predicate string) (int, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID, currentOnly bool) ([]*models.Claim, error)
}

type claimRepository struct {
	db *database.DB
}

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(db *database.DB) ClaimRepository {
	return &claimRepository{db: db}
}

var _ ClaimRepository = (*claimRepository)(nil)

const claimColumns = `id, claim_type, subject_id, object_id, predicate, structured_payload, source_url, confidence, revision, is_current, verification_status, created_at, updated_at`

func (r *claimRepository) Insert(ctx context.Context, q Querier, claim *models.Claim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	claim.CreatedAt = time.Now()

	var payload []byte
	if claim.Payload != nil {
		var err error
		payload, err = json.Marshal(claim.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal claim payload: %w", err)
		}
	}

	_, err := q.Exec(ctx, `
		INSERT INTO claims
			(id, claim_type, subject_id, object_id, predicate, structured_payload,
			 source_url, confidence, revision, is_current, verification_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		claim.ID, claim.ClaimType, claim.SubjectID, claim.ObjectID, claim.Predicate,
		payload, claim.SourceURL, claim.Confidence, claim.Revision, claim.IsCurrent,
		claim.VerificationStatus, claim.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (r *claimRepository) SupersedeRelationship(ctx context.Context, q Querier, subjectID uuid.UUID, predicate string) (int, error) {
	var maxRevision int
	err := q.QueryRow(ctx, `
		WITH superseded AS (
			UPDATE claims
			SET is_current = false, updated_at = now()
			WHERE claim_type = 'relationship'
			  AND subject_id = $1 AND predicate = $2 AND is_current
			RETURNING revision
		)
		SELECT COALESCE(MAX(revision), 0) FROM superseded`,
		subjectID, predicate).Scan(&maxRevision)
	if err != nil {
		return 0, fmt.Errorf("failed to supersede claims: %w", err)
	}
	return maxRevision, nil
}

func (r *claimRepository) ListBySubject(ctx context.Context, subjectID uuid.UUID, currentOnly bool) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE subject_id = $1`
	if currentOnly {
		query += ` AND is_current`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()
	return collectClaims(rows)
}

func collectClaims(rows pgx.Rows) ([]*models.Claim, error) {
	var claims []*models.Claim
	for rows.Next() {
		var c models.Claim
		var payload []byte
		err := rows.Scan(&c.ID, &c.ClaimType, &c.SubjectID, &c.ObjectID, &c.Predicate,
			&payload, &c.SourceURL, &c.Confidence, &c.Revision, &c.IsCurrent,
			&c.VerificationStatus, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		if len(payload) > 0 {
			var tp models.TimelinePayload
			if err := json.Unmarshal(payload, &tp); err != nil {
				return nil, fmt.Errorf("failed to unmarshal claim payload: %w", err)
			}
			c.Payload = &tp
		}
		claims = append(claims, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claims: %w", err)
	}
	return claims, nil
}
