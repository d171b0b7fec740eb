package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type ReportsRepo struct {
	pool *pgxpool.Pool
}

func NewReportsRepo(pool *pgxpool.Pool) *ReportsRepo {
	return &ReportsRepo{pool: pool}
}

func (r *ReportsRepo) Create(ctx context.Context, report model.Report) error {
	if r.pool == nil {
		return nil
	}
	if report.TargetTGID <= 0 {
		return fmt.Errorf("invalid report target")
	}
	if strings.TrimSpace(report.Kind) == "" {
		return fmt.Errorf("report kind is required")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO admin_reports (id, kind, target_tg_id, chat_id, message_id, details, opened_by, status, created_at)
VALUES ($1, $2, $3, NULLIF($4, 0), NULLIF($5, 0), $6, $7, 'open', $8)
`, report.ID, strings.ToLower(strings.TrimSpace(report.Kind)), report.TargetTGID, report.ChatID,
		report.MessageID, strings.TrimSpace(report.Details), report.OpenedBy, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("create admin report: %w", err)
	}
	return nil
}
