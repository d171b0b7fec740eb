package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type Repo interface {
	Upsert(ctx context.Context, msg model.TrackedMessage) error
	Get(ctx context.Context, chatID int64, messageID int) (model.TrackedMessage, error)
	MarkDeleted(ctx context.Context, chatID int64, messageID int) error
	ScheduleDelete(ctx context.Context, chatID int64, messageID int, at time.Time) error
	ListDue(ctx context.Context, cutoff time.Time, limit int) ([]model.TrackedMessage, error)
}

type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

type Service struct {
	repo    Repo
	deleter Deleter
}

func NewService(repo Repo, deleter Deleter) *Service {
	return &Service{repo: repo, deleter: deleter}
}

// EnsureExists backfills the local record for a message seen only by
// reference, so later deletion and training capture have something to read.
func (s *Service) EnsureExists(ctx context.Context, msg model.TrackedMessage) error {
	if s.repo == nil {
		return nil
	}
	if msg.ChatID == 0 || msg.MessageID == 0 {
		return fmt.Errorf("invalid message identity")
	}
	if msg.PostedAt.IsZero() {
		msg.PostedAt = time.Now().UTC()
	}
	return s.repo.Upsert(ctx, msg)
}

// Delete removes the message on the platform and marks the local record.
// The platform call is the primary effect; the local mark is best-effort.
func (s *Service) Delete(ctx context.Context, chatID int64, messageID int) error {
	if s.deleter == nil {
		return fmt.Errorf("message deleter is not configured")
	}
	if chatID == 0 || messageID == 0 {
		return fmt.Errorf("invalid message identity")
	}

	if err := s.deleter.DeleteMessage(ctx, chatID, messageID); err != nil {
		return err
	}
	if s.repo != nil {
		_ = s.repo.MarkDeleted(ctx, chatID, messageID)
	}
	return nil
}

// ScheduleCleanup marks a bot-sent message for deletion after ttl; the
// cleanup job performs the actual removal.
func (s *Service) ScheduleCleanup(ctx context.Context, chatID int64, messageID int, ttl time.Duration) error {
	if s.repo == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.repo.ScheduleDelete(ctx, chatID, messageID, time.Now().UTC().Add(ttl))
}

// Fetch returns the enriched local record for notifications and training.
func (s *Service) Fetch(ctx context.Context, chatID int64, messageID int) (model.TrackedMessage, error) {
	if s.repo == nil {
		return model.TrackedMessage{}, fmt.Errorf("messages repo is not configured")
	}
	return s.repo.Get(ctx, chatID, messageID)
}

func (s *Service) DeleteDue(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	if s.repo == nil || s.deleter == nil {
		return 0, nil
	}

	due, err := s.repo.ListDue(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, msg := range due {
		if err := ctx.Err(); err != nil {
			return deleted, nil
		}
		if err := s.deleter.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
			continue
		}
		if err := s.repo.MarkDeleted(ctx, msg.ChatID, msg.MessageID); err != nil {
			continue
		}
		deleted++
	}
	return deleted, nil
}
