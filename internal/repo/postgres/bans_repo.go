package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type BansRepo struct {
	pool *pgxpool.Pool
}

func NewBansRepo(pool *pgxpool.Pool) *BansRepo {
	return &BansRepo{pool: pool}
}

func (r *BansRepo) SetBan(ctx context.Context, userID int64, banned bool, reason, updatedBy string, expiresAt *time.Time) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if strings.TrimSpace(updatedBy) == "" {
		return fmt.Errorf("updated_by is required")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO user_bans (user_tg_id, banned, reason, expires_at, updated_by, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NOW())
ON CONFLICT (user_tg_id) DO UPDATE SET
	banned = EXCLUDED.banned,
	reason = EXCLUDED.reason,
	expires_at = EXCLUDED.expires_at,
	updated_by = EXCLUDED.updated_by,
	updated_at = EXCLUDED.updated_at
`, userID, banned, strings.TrimSpace(reason), expiresAt, strings.TrimSpace(updatedBy))
	if err != nil {
		return fmt.Errorf("upsert user ban: %w", err)
	}
	return nil
}

func (r *BansRepo) GetBanState(ctx context.Context, userID int64) (model.BanState, error) {
	if r.pool == nil {
		return model.BanState{UserTGID: userID}, nil
	}
	if userID <= 0 {
		return model.BanState{}, fmt.Errorf("invalid user id")
	}

	state := model.BanState{UserTGID: userID}
	err := r.pool.QueryRow(ctx, `
SELECT banned, COALESCE(reason, ''), expires_at, updated_by, updated_at
FROM user_bans
WHERE user_tg_id = $1
`, userID).Scan(&state.Banned, &state.Reason, &state.ExpiresAt, &state.UpdatedBy, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BanState{UserTGID: userID}, nil
		}
		return model.BanState{}, fmt.Errorf("get user ban state: %w", err)
	}

	return state, nil
}
