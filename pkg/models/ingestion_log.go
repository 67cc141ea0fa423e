package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingestion log statuses. One row is written per terminal pipeline state;
// rows are append-only and never mutated.
const (
	IngestStatusSuccess           = "success"
	IngestStatusDuplicate         = "duplicate"
	IngestStatusFetchError        = "fetch_error"
	IngestStatusAIValidationError = "ai_validation_error"
	IngestStatusInsertError       = "insert_error"
	IngestStatusInternalError     = "internal_error"
)

// IngestionLog is the audit trail for every ingestion attempt.
type IngestionLog struct {
	ID               uuid.UUID `json:"id"`
	SourceURL        string    `json:"source_url"`
	Status           string    `json:"status"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
