package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// ClaimVersionerService applies extracted relationship triples to the graph
// with supersession semantics: asserting a new object for a (subject,
// predicate) pair closes out the active relationships for that pair and
// records a new claim revision.
type ClaimVersionerService interface {
	// ApplyTriples resolves and applies each triple independently. A triple
	// that cannot be resolved or persisted is logged and skipped; it never
	// aborts its siblings. Returns the number of triples applied.
	ApplyTriples(ctx context.Context, sourceURL string, triples []RelationshipTriple) int
}

type claimVersionerService struct {
	db            *database.DB
	entities      repositories.EntityRepository
	relationships repositories.RelationshipRepository
	claims        repositories.ClaimRepository
	logger        *zap.Logger
}

// NewClaimVersionerService creates a new ClaimVersionerService.
func NewClaimVersionerService(
	db *database.DB,
	entities repositories.EntityRepository,
	relationships repositories.RelationshipRepository,
	claims repositories.ClaimRepository,
	logger *zap.Logger,
) ClaimVersionerService {
	return &claimVersionerService{
		db:            db,
		entities:      entities,
		relationships: relationships,
		claims:        claims,
		logger:        logger.Named("versioner"),
	}
}

var _ ClaimVersionerService = (*claimVersionerService)(nil)

func (s *claimVersionerService) ApplyTriples(ctx context.Context, sourceURL string, triples []RelationshipTriple) int {
	applied := 0
	for _, triple := range triples {
		subject, object, err := s.resolvePair(ctx, triple)
		if err != nil {
			s.logger.Debug("Skipping unresolvable triple",
				zap.String("subject", triple.Subject),
				zap.String("predicate", triple.Predicate),
				zap.String("object", triple.Object),
				zap.Error(err))
			continue
		}
		if subject.ID == object.ID {
			s.logger.Debug("Skipping self-referencing triple",
				zap.String("subject", subject.Slug),
				zap.String("predicate", triple.Predicate))
			continue
		}

		if err := s.applyOne(ctx, sourceURL, subject, object, triple); err != nil {
			s.logger.Warn("Failed to apply relationship triple",
				zap.String("subject", subject.Slug),
				zap.String("predicate", triple.Predicate),
				zap.String("object", object.Slug),
				zap.Error(err))
			continue
		}
		applied++
	}
	return applied
}

// resolvePair looks up subject and object concurrently by canonical slug.
// Triples naming entities this ingestion did not create still resolve when
// the entity exists from a prior article.
func (s *claimVersionerService) resolvePair(ctx context.Context, triple RelationshipTriple) (*models.Entity, *models.Entity, error) {
	type lookup struct {
		entity *models.Entity
		err    error
	}

	subjectCh := make(chan lookup, 1)
	objectCh := make(chan lookup, 1)

	go func() {
		e, err := s.entities.GetBySlug(ctx, EntitySlug(triple.Subject))
		subjectCh <- lookup{e, err}
	}()
	go func() {
		e, err := s.entities.GetBySlug(ctx, EntitySlug(triple.Object))
		objectCh <- lookup{e, err}
	}()

	subject := <-subjectCh
	object := <-objectCh

	if subject.err != nil {
		return nil, nil, resolveErr(triple.Subject, subject.err)
	}
	if object.err != nil {
		return nil, nil, resolveErr(triple.Object, object.err)
	}
	return subject.entity, object.entity, nil
}

func resolveErr(name string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.Newf(apperrors.KindInvalidInput, "no entity for %q", name)
	}
	return err
}

// applyOne runs the supersession protocol for a single triple inside one
// transaction: check for an exact active duplicate, deactivate competing
// actives for (subject, predicate), then insert the new relationship and its
// claim at the next revision.
func (s *claimVersionerService) applyOne(ctx context.Context, sourceURL string, subject, object *models.Entity, triple RelationshipTriple) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperrors.New(apperrors.KindPersistenceError, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	exists, err := s.relationships.ActiveExists(ctx, tx, subject.ID, object.ID, triple.Predicate)
	if err != nil {
		return err
	}
	if exists {
		// The exact assertion is already current; re-stating it is a no-op.
		return tx.Commit(ctx)
	}

	today := time.Now().Truncate(24 * time.Hour)

	active, err := s.relationships.FindActive(ctx, tx, subject.ID, triple.Predicate)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		ids := make([]uuid.UUID, len(active))
		for i, rel := range active {
			ids[i] = rel.ID
		}
		if err := s.relationships.Deactivate(ctx, tx, ids, today); err != nil {
			return err
		}
	}

	superseded, err := s.claims.SupersedeRelationship(ctx, tx, subject.ID, triple.Predicate)
	if err != nil {
		return err
	}

	rel := &models.EntityRelationship{
		SubjectID:  subject.ID,
		ObjectID:   object.ID,
		Predicate:  triple.Predicate,
		SourceURL:  sourceURL,
		Confidence: triple.Confidence,
		IsActive:   true,
		ValidFrom:  today,
	}
	if err := s.relationships.Insert(ctx, tx, rel); err != nil {
		return err
	}

	predicate := triple.Predicate
	objectID := object.ID
	claim := &models.Claim{
		ClaimType:          models.ClaimTypeRelationship,
		SubjectID:          subject.ID,
		ObjectID:           &objectID,
		Predicate:          &predicate,
		SourceURL:          sourceURL,
		Confidence:         triple.Confidence,
		Revision:           superseded + 1,
		IsCurrent:          true,
		VerificationStatus: models.VerificationAutoExtracted,
	}
	if err := s.claims.Insert(ctx, tx, claim); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.New(apperrors.KindPersistenceError, "failed to commit supersession", err)
	}
	return nil
}
