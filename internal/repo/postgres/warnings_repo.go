package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WarningsRepo struct {
	pool *pgxpool.Pool
}

func NewWarningsRepo(pool *pgxpool.Pool) *WarningsRepo {
	return &WarningsRepo{pool: pool}
}

// Insert records one warning and returns the active warning count for the
// user afterwards.
func (r *WarningsRepo) Insert(ctx context.Context, userID, chatID int64, issuedBy, reason string) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("warnings repo has no pool")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if strings.TrimSpace(issuedBy) == "" {
		return 0, fmt.Errorf("issued_by is required")
	}

	// A data-modifying CTE is invisible to the outer SELECT, so the inserted
	// row is counted explicitly.
	var count int
	err := r.pool.QueryRow(ctx, `
WITH inserted AS (
	INSERT INTO user_warnings (user_tg_id, chat_id, issued_by, reason, created_at)
	VALUES ($1, NULLIF($2, 0), $3, NULLIF($4, ''), NOW())
	RETURNING user_tg_id
)
SELECT (
	SELECT COUNT(*)::INT
	FROM user_warnings
	WHERE user_tg_id = $1 AND revoked_at IS NULL
) + (SELECT COUNT(*)::INT FROM inserted)
`, userID, chatID, strings.TrimSpace(issuedBy), strings.TrimSpace(reason)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("insert warning: %w", err)
	}

	return count, nil
}

func (r *WarningsRepo) ActiveCount(ctx context.Context, userID int64) (int, error) {
	if r.pool == nil {
		return 0, nil
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)::INT
FROM user_warnings
WHERE user_tg_id = $1 AND revoked_at IS NULL
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count warnings: %w", err)
	}
	return count, nil
}

// RevokeAll clears all active warnings, used when a ban supersedes them.
func (r *WarningsRepo) RevokeAll(ctx context.Context, userID int64) error {
	if r.pool == nil {
		return nil
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	_, err := r.pool.Exec(ctx, `
UPDATE user_warnings
SET revoked_at = NOW()
WHERE user_tg_id = $1 AND revoked_at IS NULL
`, userID)
	if err != nil {
		return fmt.Errorf("revoke warnings: %w", err)
	}
	return nil
}
