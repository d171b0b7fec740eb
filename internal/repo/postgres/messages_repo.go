package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

var ErrMessageNotFound = errors.New("tracked message not found")

type MessagesRepo struct {
	pool *pgxpool.Pool
}

func NewMessagesRepo(pool *pgxpool.Pool) *MessagesRepo {
	return &MessagesRepo{pool: pool}
}

// Upsert backfills the local copy of a chat message. Existing text is kept
// when the incoming record carries none, so late ensure-exists calls do not
// erase captured content.
func (r *MessagesRepo) Upsert(ctx context.Context, msg model.TrackedMessage) error {
	if r.pool == nil {
		return nil
	}
	if msg.ChatID == 0 || msg.MessageID == 0 {
		return fmt.Errorf("invalid message identity")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO tracked_messages (chat_id, message_id, user_tg_id, text, has_media, posted_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (chat_id, message_id) DO UPDATE SET
	user_tg_id = EXCLUDED.user_tg_id,
	text = CASE WHEN EXCLUDED.text = '' THEN tracked_messages.text ELSE EXCLUDED.text END,
	has_media = EXCLUDED.has_media
`, msg.ChatID, msg.MessageID, msg.UserTGID, msg.Text, msg.HasMedia, msg.PostedAt)
	if err != nil {
		return fmt.Errorf("upsert tracked message: %w", err)
	}
	return nil
}

func (r *MessagesRepo) Get(ctx context.Context, chatID int64, messageID int) (model.TrackedMessage, error) {
	if r.pool == nil {
		return model.TrackedMessage{}, ErrMessageNotFound
	}

	var msg model.TrackedMessage
	err := r.pool.QueryRow(ctx, `
SELECT chat_id, message_id, user_tg_id, COALESCE(text, ''), has_media, posted_at, delete_at
FROM tracked_messages
WHERE chat_id = $1 AND message_id = $2
`, chatID, messageID).Scan(&msg.ChatID, &msg.MessageID, &msg.UserTGID, &msg.Text, &msg.HasMedia, &msg.PostedAt, &msg.DeleteAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TrackedMessage{}, ErrMessageNotFound
		}
		return model.TrackedMessage{}, fmt.Errorf("get tracked message: %w", err)
	}
	return msg, nil
}

func (r *MessagesRepo) MarkDeleted(ctx context.Context, chatID int64, messageID int) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `
UPDATE tracked_messages
SET deleted_at = NOW()
WHERE chat_id = $1 AND message_id = $2
`, chatID, messageID)
	if err != nil {
		return fmt.Errorf("mark message deleted: %w", err)
	}
	return nil
}

// ScheduleDelete marks a bot-sent message for removal by the cleanup job.
func (r *MessagesRepo) ScheduleDelete(ctx context.Context, chatID int64, messageID int, at time.Time) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `
UPDATE tracked_messages
SET delete_at = $3
WHERE chat_id = $1 AND message_id = $2
`, chatID, messageID, at)
	if err != nil {
		return fmt.Errorf("schedule message delete: %w", err)
	}
	return nil
}

func (r *MessagesRepo) ListDue(ctx context.Context, cutoff time.Time, limit int) ([]model.TrackedMessage, error) {
	if r.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT chat_id, message_id, user_tg_id, COALESCE(text, ''), has_media, posted_at, delete_at
FROM tracked_messages
WHERE delete_at IS NOT NULL AND delete_at <= $1 AND deleted_at IS NULL
ORDER BY delete_at
LIMIT $2
`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list due messages: %w", err)
	}
	defer rows.Close()

	due := make([]model.TrackedMessage, 0, limit)
	for rows.Next() {
		var msg model.TrackedMessage
		if err := rows.Scan(&msg.ChatID, &msg.MessageID, &msg.UserTGID, &msg.Text, &msg.HasMedia, &msg.PostedAt, &msg.DeleteAt); err != nil {
			return nil, fmt.Errorf("scan due message: %w", err)
		}
		due = append(due, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due messages: %w", err)
	}

	return due, nil
}
