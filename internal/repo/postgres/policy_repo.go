package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

var ErrPolicyNotFound = errors.New("warning policy not found")

type PolicyRepo struct {
	pool *pgxpool.Pool
}

func NewPolicyRepo(pool *pgxpool.Pool) *PolicyRepo {
	return &PolicyRepo{pool: pool}
}

func (r *PolicyRepo) GetWarningPolicy(ctx context.Context, chatID int64) (model.WarningPolicy, error) {
	if r.pool == nil {
		return model.WarningPolicy{}, ErrPolicyNotFound
	}

	policy := model.WarningPolicy{ChatID: chatID}
	err := r.pool.QueryRow(ctx, `
SELECT warning_threshold, auto_ban_enabled, COALESCE(auto_ban_reason, '')
FROM chat_warning_policies
WHERE chat_id = $1
`, chatID).Scan(&policy.Threshold, &policy.AutoBanEnabled, &policy.ReasonTemplate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WarningPolicy{}, ErrPolicyNotFound
		}
		return model.WarningPolicy{}, fmt.Errorf("get warning policy: %w", err)
	}

	return policy, nil
}

func (r *PolicyRepo) UpsertWarningPolicy(ctx context.Context, policy model.WarningPolicy) error {
	if r.pool == nil {
		return nil
	}
	if policy.ChatID == 0 {
		return fmt.Errorf("invalid chat id")
	}
	if policy.Threshold <= 0 {
		return fmt.Errorf("warning threshold must be positive")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO chat_warning_policies (chat_id, warning_threshold, auto_ban_enabled, auto_ban_reason, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
ON CONFLICT (chat_id) DO UPDATE SET
	warning_threshold = EXCLUDED.warning_threshold,
	auto_ban_enabled = EXCLUDED.auto_ban_enabled,
	auto_ban_reason = EXCLUDED.auto_ban_reason,
	updated_at = EXCLUDED.updated_at
`, policy.ChatID, policy.Threshold, policy.AutoBanEnabled, policy.ReasonTemplate)
	if err != nil {
		return fmt.Errorf("upsert warning policy: %w", err)
	}
	return nil
}
