package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
)

// EntityDetail is the read-side view of an entity: the entity itself, its
// active relationships, and its timeline newest first.
type EntityDetail struct {
	Entity        *models.Entity               `json:"entity"`
	Relationships []*models.EntityRelationship `json:"relationships"`
	Timeline      []*models.TimelineEvent      `json:"timeline"`
}

// EntityService serves entity read requests.
type EntityService interface {
	GetDetail(ctx context.Context, slug string) (*EntityDetail, error)
}

type entityService struct {
	entities      repositories.EntityRepository
	relationships repositories.RelationshipRepository
	timeline      repositories.TimelineRepository
	resolver      EntityResolverService
	logger        *zap.Logger
}

// NewEntityService creates a new EntityService.
func NewEntityService(
	entities repositories.EntityRepository,
	relationships repositories.RelationshipRepository,
	timeline repositories.TimelineRepository,
	resolver EntityResolverService,
	logger *zap.Logger,
) EntityService {
	return &entityService{
		entities:      entities,
		relationships: relationships,
		timeline:      timeline,
		resolver:      resolver,
		logger:        logger.Named("entities"),
	}
}

var _ EntityService = (*entityService)(nil)

func (s *entityService) GetDetail(ctx context.Context, slug string) (*EntityDetail, error) {
	entity, err := s.entities.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// First read of an entity with no summary generates one lazily. A failed
	// backfill leaves the summary null and the read still succeeds.
	entity = s.resolver.BackfillSummary(ctx, entity)

	relationships, err := s.relationships.ListByEntity(ctx, entity.ID, true)
	if err != nil {
		return nil, err
	}

	timeline, err := s.timeline.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	return &EntityDetail{
		Entity:        entity,
		Relationships: relationships,
		Timeline:      timeline,
	}, nil
}
