package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type ChatsRepo struct {
	pool *pgxpool.Pool
}

func NewChatsRepo(pool *pgxpool.Pool) *ChatsRepo {
	return &ChatsRepo{pool: pool}
}

// Register records a chat the bot is a member of. Re-registering an inactive
// chat reactivates it and refreshes the title.
func (r *ChatsRepo) Register(ctx context.Context, chatID int64, title string) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO managed_chats (chat_id, title, active, updated_at)
VALUES ($1, $2, TRUE, NOW())
ON CONFLICT (chat_id) DO UPDATE SET
	title = COALESCE(NULLIF(EXCLUDED.title, ''), managed_chats.title),
	active = TRUE,
	updated_at = EXCLUDED.updated_at
`, chatID, title)
	if err != nil {
		return fmt.Errorf("register managed chat: %w", err)
	}
	return nil
}

// Deactivate marks a chat the bot left or was removed from. The row stays
// for audit history.
func (r *ChatsRepo) Deactivate(ctx context.Context, chatID int64) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `
UPDATE managed_chats SET active = FALSE, updated_at = NOW() WHERE chat_id = $1
`, chatID)
	if err != nil {
		return fmt.Errorf("deactivate managed chat: %w", err)
	}
	return nil
}

func (r *ChatsRepo) ListActive(ctx context.Context) ([]model.ManagedChat, error) {
	if r.pool == nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT chat_id, COALESCE(title, ''), active
FROM managed_chats
WHERE active = TRUE
ORDER BY chat_id
`)
	if err != nil {
		return nil, fmt.Errorf("list managed chats: %w", err)
	}
	defer rows.Close()

	var chats []model.ManagedChat
	for rows.Next() {
		var chat model.ManagedChat
		if err := rows.Scan(&chat.ChatID, &chat.Title, &chat.Active); err != nil {
			return nil, fmt.Errorf("scan managed chat: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managed chats: %w", err)
	}
	return chats, nil
}
