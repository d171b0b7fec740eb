package celebrate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

// Sender is the outbound slice of the telegram client the celebration
// service needs. Each send returns the posted message id.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	SendSticker(ctx context.Context, chatID int64, fileID string) (int, error)
	SendAnimation(ctx context.Context, chatID int64, fileID string) (int, error)
}

// Scheduler marks a sent message for later deletion by the cleanup job.
type Scheduler interface {
	ScheduleCleanup(ctx context.Context, chatID int64, messageID int, ttl time.Duration) error
}

// Service announces group-chat bans with a rotating sticker or animation.
// Two independent bags, one per content category, guarantee the whole pool
// is seen before anything repeats.
type Service struct {
	sender     Sender
	stickers   []string
	animations []string

	cleanup    Scheduler
	cleanupTTL time.Duration

	stickerBag   *Bag
	animationBag *Bag
}

func NewService(sender Sender, stickers, animations []string) *Service {
	return &Service{
		sender:       sender,
		stickers:     stickers,
		animations:   animations,
		stickerBag:   NewBag(),
		animationBag: NewBag(),
	}
}

// AttachCleanup makes every celebration message expire after ttl.
func (s *Service) AttachCleanup(scheduler Scheduler, ttl time.Duration) {
	s.cleanup = scheduler
	s.cleanupTTL = ttl
}

// AnnounceBan posts the celebration into the chat the ban originated from.
// The wording distinguishes automated bans from manual ones.
func (s *Service) AnnounceBan(ctx context.Context, chatID int64, target int64, actor model.Actor) error {
	if s.sender == nil {
		return fmt.Errorf("celebrate sender is not configured")
	}
	// Group and supergroup ids are negative; a celebration never goes to a DM.
	if chatID >= 0 {
		return fmt.Errorf("celebration requires a group origin chat")
	}

	text := fmt.Sprintf("Spammer %d banned by %s.", target, actor.Display())
	if actor.IsSystem() {
		text = fmt.Sprintf("Spammer %d banned automatically.", target)
	}
	sentID, err := s.sender.SendText(ctx, chatID, text)
	if err != nil {
		return err
	}
	s.scheduleExpiry(ctx, chatID, sentID)

	useSticker := len(s.stickers) > 0
	if useSticker && len(s.animations) > 0 {
		useSticker = rand.Intn(2) == 0
	}

	if useSticker {
		if idx, ok := s.stickerBag.Draw(indexes(len(s.stickers))); ok {
			sentID, err = s.sender.SendSticker(ctx, chatID, s.stickers[idx])
			if err != nil {
				return err
			}
			s.scheduleExpiry(ctx, chatID, sentID)
		}
		return nil
	}
	if idx, ok := s.animationBag.Draw(indexes(len(s.animations))); ok {
		sentID, err = s.sender.SendAnimation(ctx, chatID, s.animations[idx])
		if err != nil {
			return err
		}
		s.scheduleExpiry(ctx, chatID, sentID)
	}
	return nil
}

func (s *Service) scheduleExpiry(ctx context.Context, chatID int64, messageID int) {
	if s.cleanup == nil || messageID == 0 {
		return
	}
	_ = s.cleanup.ScheduleCleanup(ctx, chatID, messageID, s.cleanupTTL)
}

func indexes(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
