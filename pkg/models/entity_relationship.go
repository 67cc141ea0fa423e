package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Relationship predicates. A subject holds at most one active value per
// predicate at a time; a new fact for the same (subject, predicate) supersedes
// all prior active rows.
const (
	PredicateDevelopedBy   = "developed_by"
	PredicateOwnedBy       = "owned_by"
	PredicateAcquired      = "acquired"
	PredicateFundedBy      = "funded_by"
	PredicateInvestedIn    = "invested_in"
	PredicatePartneredWith = "partnered_with"
	PredicateCompetesWith  = "competes_with"
	PredicateRegulatedBy   = "regulated_by"
	PredicateFoundedBy     = "founded_by"
	PredicateLedBy         = "led_by"
	PredicateBasedIn       = "based_in"
	PredicateMemberOf      = "member_of"
)

// Predicates lists the closed 12-verb predicate vocabulary in prompt order.
var Predicates = []string{
	PredicateDevelopedBy,
	PredicateOwnedBy,
	PredicateAcquired,
	PredicateFundedBy,
	PredicateInvestedIn,
	PredicatePartneredWith,
	PredicateCompetesWith,
	PredicateRegulatedBy,
	PredicateFoundedBy,
	PredicateLedBy,
	PredicateBasedIn,
	PredicateMemberOf,
}

// predicateKeywords is evaluated in order; first match wins.
var predicateKeywords = []struct {
	keyword   string
	predicate string
}{
	{"develop", PredicateDevelopedBy},
	{"built by", PredicateDevelopedBy},
	{"own", PredicateOwnedBy},
	{"acquir", PredicateAcquired},
	{"bought", PredicateAcquired},
	{"fund", PredicateFundedBy},
	{"raised", PredicateFundedBy},
	{"invest", PredicateInvestedIn},
	{"partner", PredicatePartneredWith},
	{"collaborat", PredicatePartneredWith},
	{"compet", PredicateCompetesWith},
	{"rival", PredicateCompetesWith},
	{"regulat", PredicateRegulatedBy},
	{"found", PredicateFoundedBy},
	{"led by", PredicateLedBy},
	{"ceo", PredicateLedBy},
	{"headquarter", PredicateBasedIn},
	{"based", PredicateBasedIn},
	{"member", PredicateMemberOf},
}

// NormalizePredicate coerces an extractor-supplied predicate to the closed
// vocabulary. Returns the canonical predicate and false when no coercion was
// possible; unmatched predicates are rejected rather than defaulted because a
// wrong verb corrupts supersession history.
func NormalizePredicate(raw string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	for _, p := range Predicates {
		if cleaned == p {
			return p, true
		}
	}
	spaced := strings.ReplaceAll(cleaned, "_", " ")
	for _, kw := range predicateKeywords {
		if strings.Contains(spaced, kw.keyword) {
			return kw.predicate, true
		}
	}
	return "", false
}

// EntityRelationship is a temporally versioned fact between two entities.
// At most one row per (subject_id, predicate) has is_active=true; superseded
// rows keep their history with is_active=false and a closed valid_to.
type EntityRelationship struct {
	ID         uuid.UUID  `json:"id"`
	SubjectID  uuid.UUID  `json:"subject_id"`
	ObjectID   uuid.UUID  `json:"object_id"`
	Predicate  string     `json:"predicate"`
	SourceURL  string     `json:"source_url"`
	Confidence float64    `json:"confidence"`
	IsActive   bool       `json:"is_active"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidTo    *time.Time `json:"valid_to,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
