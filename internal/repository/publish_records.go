package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

func (r *Repository) InsertPublishRecord(ctx context.Context, record *domain.PublishRecord) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO publish_records (id, session_id, webhook_host, title, line_count, mode)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	params := []any{
		record.ID,
		record.SessionID,
		record.WebhookHost,
		record.Title,
		record.LineCount,
		record.Mode,
	}

	return r.dbpool.QueryRowContext(ctx, query, params...).Scan(&record.CreatedAt)
}

// GetRecentPublishRecords 按时间倒序返回最近的 limit 条发布记录
func (r *Repository) GetRecentPublishRecords(ctx context.Context, limit int) ([]*domain.PublishRecord, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, session_id, webhook_host, title, line_count, mode, created_at
		FROM publish_records
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.PublishRecord{}
	for rows.Next() {
		var record domain.PublishRecord

		dst := []any{
			&record.ID,
			&record.SessionID,
			&record.WebhookHost,
			&record.Title,
			&record.LineCount,
			&record.Mode,
			&record.CreatedAt,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
