package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Timeline event types. The extractor may return anything; values outside the
// set are coerced through the keyword map and fall back to EventTypeOther.
const (
	EventTypeRelease     = "release"
	EventTypeFunding     = "funding"
	EventTypeAcquisition = "acquisition"
	EventTypePartnership = "partnership"
	EventTypeLeadership  = "leadership"
	EventTypeRegulation  = "regulation"
	EventTypeResearch    = "research"
	EventTypeSecurity    = "security"
	EventTypeLawsuit     = "lawsuit"
	EventTypeMilestone   = "milestone"
	EventTypeOther       = "other"
)

// EventTypes lists the closed event type vocabulary in prompt order,
// excluding the "other" fallback.
var EventTypes = []string{
	EventTypeRelease,
	EventTypeFunding,
	EventTypeAcquisition,
	EventTypePartnership,
	EventTypeLeadership,
	EventTypeRegulation,
	EventTypeResearch,
	EventTypeSecurity,
	EventTypeLawsuit,
	EventTypeMilestone,
}

// eventTypeKeywords is evaluated in order; first match wins.
var eventTypeKeywords = []struct {
	keyword   string
	eventType string
}{
	{"launch", EventTypeRelease},
	{"unveil", EventTypeRelease},
	{"announc", EventTypeRelease},
	{"ship", EventTypeRelease},
	{"raise", EventTypeFunding},
	{"invest", EventTypeFunding},
	{"round", EventTypeFunding},
	{"acquir", EventTypeAcquisition},
	{"merger", EventTypeAcquisition},
	{"buyout", EventTypeAcquisition},
	{"partner", EventTypePartnership},
	{"alliance", EventTypePartnership},
	{"ceo", EventTypeLeadership},
	{"hire", EventTypeLeadership},
	{"resign", EventTypeLeadership},
	{"appoint", EventTypeLeadership},
	{"regulat", EventTypeRegulation},
	{"ban", EventTypeRegulation},
	{"fine", EventTypeRegulation},
	{"paper", EventTypeResearch},
	{"study", EventTypeResearch},
	{"benchmark", EventTypeResearch},
	{"breach", EventTypeSecurity},
	{"hack", EventTypeSecurity},
	{"vulnerab", EventTypeSecurity},
	{"leak", EventTypeSecurity},
	{"sue", EventTypeLawsuit},
	{"lawsuit", EventTypeLawsuit},
	{"court", EventTypeLawsuit},
	{"settle", EventTypeLawsuit},
}

// NormalizeEventType coerces an extractor-supplied event type to the closed
// vocabulary: exact match, then keyword map, then EventTypeOther.
func NormalizeEventType(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	for _, et := range EventTypes {
		if cleaned == et {
			return et
		}
	}
	if cleaned == EventTypeOther {
		return EventTypeOther
	}
	for _, kw := range eventTypeKeywords {
		if strings.Contains(cleaned, kw.keyword) {
			return kw.eventType
		}
	}
	return EventTypeOther
}

// TimelineEvent is a dated, classified event tied to an entity. Rows are
// deduplicated on (entity_id, event_type, event_date, title) before insert.
type TimelineEvent struct {
	ID          uuid.UUID `json:"id"`
	EntityID    uuid.UUID `json:"entity_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventDate   time.Time `json:"event_date"`
	EventType   string    `json:"event_type"`
	SourceURL   string    `json:"source_url"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}
