package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrustRepo struct {
	pool *pgxpool.Pool
}

func NewTrustRepo(pool *pgxpool.Pool) *TrustRepo {
	return &TrustRepo{pool: pool}
}

func (r *TrustRepo) SetTrusted(ctx context.Context, userID int64, trusted bool, reason, updatedBy string) error {
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
INSERT INTO user_trust (user_tg_id, trusted, reason, updated_by, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, NOW())
ON CONFLICT (user_tg_id) DO UPDATE SET
	trusted = EXCLUDED.trusted,
	reason = EXCLUDED.reason,
	updated_by = EXCLUDED.updated_by,
	updated_at = EXCLUDED.updated_at
`, userID, trusted, strings.TrimSpace(reason), strings.TrimSpace(updatedBy))
	if err != nil {
		return fmt.Errorf("upsert user trust: %w", err)
	}
	return nil
}

func (r *TrustRepo) IsTrusted(ctx context.Context, userID int64) (bool, error) {
	if r.pool == nil {
		return false, nil
	}
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}

	var trusted bool
	err := r.pool.QueryRow(ctx, `
SELECT trusted FROM user_trust WHERE user_tg_id = $1
`, userID).Scan(&trusted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get user trust: %w", err)
	}
	return trusted, nil
}
