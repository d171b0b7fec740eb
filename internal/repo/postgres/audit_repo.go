package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Save(ctx context.Context, entry model.Audit) error {
	if r.pool == nil {
		return nil
	}
	if entry.Action == "" {
		return fmt.Errorf("audit action is required")
	}

	payload := entry.Payload
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO audit_log (id, actor, action, target_tg_id, payload, created_at)
VALUES ($1, $2, $3, NULLIF($4, 0), $5, $6)
`, entry.ID, entry.Actor, string(entry.Action), entry.TargetTGID, payload, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]model.Audit, error) {
	if r.pool == nil {
		return []model.Audit{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, actor, action, COALESCE(target_tg_id, 0), payload, created_at
FROM audit_log
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.Audit, 0, limit)
	for rows.Next() {
		var entry model.Audit
		var action string
		if err := rows.Scan(&entry.ID, &entry.Actor, &action, &entry.TargetTGID, &entry.Payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Action = enums.AuditAction(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}
