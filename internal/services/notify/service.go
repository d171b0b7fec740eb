package notify

import (
	"context"
	"fmt"
)

type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
}

// Service delivers admin- and user-facing notifications. All methods are
// best-effort from the orchestrator's point of view.
type Service struct {
	sender      Sender
	adminChatID int64
}

func NewService(sender Sender, adminChatID int64) *Service {
	return &Service{sender: sender, adminChatID: adminChatID}
}

func (s *Service) NotifyAdmins(ctx context.Context, text string) error {
	if s.sender == nil {
		return fmt.Errorf("notify sender is not configured")
	}
	if s.adminChatID == 0 {
		return fmt.Errorf("admin chat is not configured")
	}
	_, err := s.sender.SendText(ctx, s.adminChatID, text)
	return err
}

// NotifyUser sends a direct message. Telegram only allows this when the user
// has started the bot; the resulting error is the caller's to swallow.
func (s *Service) NotifyUser(ctx context.Context, userTGID int64, text string) error {
	if s.sender == nil {
		return fmt.Errorf("notify sender is not configured")
	}
	if userTGID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	_, err := s.sender.SendText(ctx, userTGID, text)
	return err
}
