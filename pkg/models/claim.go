package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim types.
const (
	ClaimTypeRelationship = "relationship"
	ClaimTypeTimeline     = "timeline"
)

// Verification statuses for claims.
const (
	VerificationAutoExtracted = "auto_extracted"
	VerificationHumanReviewed = "human_reviewed"
	VerificationVerified      = "verified"
	VerificationDisputed      = "disputed"
)

// TimelinePayload is the structured payload stored on timeline claims so a
// superseding ingestion can compare against the previously asserted event.
type TimelinePayload struct {
	EventType   string `json:"event_type"`
	EventDate   string `json:"event_date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Claim is a versioned assertion of a fact. Relationship claims pair 1:1 with
// EntityRelationship rows; timeline claims pair 1:1 with TimelineEvent rows.
// Exactly one claim per fact key has is_current=true; revisions count up from
// 1 on each supersession.
type Claim struct {
	ID                 uuid.UUID        `json:"id"`
	ClaimType          string           `json:"claim_type"`
	SubjectID          uuid.UUID        `json:"subject_id"`
	ObjectID           *uuid.UUID       `json:"object_id,omitempty"`
	Predicate          *string          `json:"predicate,omitempty"`
	Payload            *TimelinePayload `json:"payload,omitempty"`
	SourceURL          string           `json:"source_url"`
	Confidence         float64          `json:"confidence"`
	Revision           int              `json:"revision"`
	IsCurrent          bool             `json:"is_current"`
	VerificationStatus string           `json:"verification_status"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          *time.Time       `json:"updated_at,omitempty"`
}
