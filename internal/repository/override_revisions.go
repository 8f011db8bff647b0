package repository

import (
	"context"
	"encoding/json"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

// InsertOverrideRevision 记录一次 override 修改之后远程服务返回的完整列表
func (r *Repository) InsertOverrideRevision(ctx context.Context, revision *domain.OverrideRevision) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	snapshot, err := json.Marshal(revision.Overrides)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO override_revisions (session_id, job_id, overrides)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, revision.SessionID, revision.JobID, snapshot).Scan(&revision.ID, &revision.CreatedAt)
}

func (r *Repository) GetOverrideRevisions(ctx context.Context, sessionID string) ([]*domain.OverrideRevision, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, session_id, job_id, overrides, created_at
		FROM override_revisions
		WHERE session_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revisions := []*domain.OverrideRevision{}
	for rows.Next() {
		var revision domain.OverrideRevision
		var snapshot []byte

		if err := rows.Scan(&revision.ID, &revision.SessionID, &revision.JobID, &snapshot, &revision.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(snapshot, &revision.Overrides); err != nil {
			return nil, err
		}

		revisions = append(revisions, &revision)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return revisions, nil
}
