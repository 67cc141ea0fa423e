package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// IngestionLogRepository provides append-only access to the ingestion audit
// trail. Rows are never updated or deleted.
type IngestionLogRepository interface {
	Create(ctx context.Context, log *models.IngestionLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.IngestionLog, error)
}

type ingestionLogRepository struct {
	db *database.DB
}

// NewIngestionLogRepository creates a new IngestionLogRepository.
func NewIngestionLogRepository(db *database.DB) IngestionLogRepository {
	return &ingestionLogRepository{db: db}
}

var _ IngestionLogRepository = (*ingestionLogRepository)(nil)

func (r *ingestionLogRepository) Create(ctx context.Context, log *models.IngestionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, `
		INSERT INTO ingestion_logs (id, source_url, status, processing_time_ms, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.SourceURL, log.Status, log.ProcessingTimeMs, log.ErrorMessage, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion log: %w", err)
	}
	return nil
}

func (r *ingestionLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.IngestionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, source_url, status, processing_time_ms, error_message, created_at
		FROM ingestion_logs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.IngestionLog
	for rows.Next() {
		var l models.IngestionLog
		err := rows.Scan(&l.ID, &l.SourceURL, &l.Status, &l.ProcessingTimeMs, &l.ErrorMessage, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingestion log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingestion logs: %w", err)
	}
	return logs, nil
}
