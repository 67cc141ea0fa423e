package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity types. Slugs are globally unique across all types.
const (
	EntityTypeCompany     = "company"
	EntityTypeModel       = "model"
	EntityTypeCountry     = "country"
	EntityTypeLab         = "lab"
	EntityTypeRegulator   = "regulator"
	EntityTypePerson      = "person"
	EntityTypeInstitution = "institution"
	EntityTypeEvent       = "event"
	EntityTypeVenue       = "venue"
)

// EntityTypes lists the closed entity type vocabulary in prompt order.
var EntityTypes = []string{
	EntityTypeCompany,
	EntityTypeModel,
	EntityTypeCountry,
	EntityTypeLab,
	EntityTypeRegulator,
	EntityTypePerson,
	EntityTypeInstitution,
	EntityTypeEvent,
	EntityTypeVenue,
}

// IsValidEntityType reports whether t is in the closed entity type set.
func IsValidEntityType(t string) bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Entity is a canonical record for a named actor, deduplicated by slug.
// ParentID forms a forest ("model belongs to company"); once set it is never
// overwritten.
type Entity struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Type      string     `json:"type"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Summary   *string    `json:"summary,omitempty"` // Lazily backfilled by a dedicated LLM call
	CreatedAt time.Time  `json:"created_at"`
}
