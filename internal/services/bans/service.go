package bans

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

// ChatActions is the slice of the telegram client this service drives.
type ChatActions interface {
	BanMember(ctx context.Context, chatID, userID int64, until time.Time) error
	UnbanMember(ctx context.Context, chatID, userID int64) error
	KickMember(ctx context.Context, chatID, userID int64) error
	RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error
	RestoreMemberPermissions(ctx context.Context, chatID, userID int64) error
}

type StateRepo interface {
	SetBan(ctx context.Context, userID int64, banned bool, reason, updatedBy string, expiresAt *time.Time) error
	GetBanState(ctx context.Context, userID int64) (model.BanState, error)
}

// HealthSource yields the chats currently eligible for cross-chat actions.
// It is fail-closed: an empty result means no chat is touched.
type HealthSource interface {
	Healthy() []int64
}

// Service performs the platform-level ban family of actions plus the local
// state write. The local write is the committing step; per-chat platform
// failures are logged and reflected in the affected count, never rolled back.
type Service struct {
	chats  ChatActions
	repo   StateRepo
	health HealthSource
	logger *zap.Logger
}

func NewService(chats ChatActions, repo StateRepo, health HealthSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{chats: chats, repo: repo, health: health, logger: logger}
}

// Ban writes the ban state and removes the user from every healthy chat.
// A nil expiresAt means permanent. Returns the number of chats acted on.
func (s *Service) Ban(ctx context.Context, userID int64, reason, updatedBy string, expiresAt *time.Time) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if s.repo == nil || s.chats == nil || s.health == nil {
		return 0, fmt.Errorf("bans service dependencies are not configured")
	}

	if err := s.repo.SetBan(ctx, userID, true, reason, updatedBy, expiresAt); err != nil {
		return 0, err
	}

	until := time.Time{}
	if expiresAt != nil {
		until = *expiresAt
	}

	affected := 0
	for _, chatID := range s.health.Healthy() {
		if err := ctx.Err(); err != nil {
			return affected, nil
		}
		if err := s.chats.BanMember(ctx, chatID, userID, until); err != nil {
			s.logger.Warn("ban member failed in chat",
				zap.Int64("chat_id", chatID),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		affected++
	}

	return affected, nil
}

func (s *Service) Unban(ctx context.Context, userID int64, updatedBy string) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if s.repo == nil || s.chats == nil || s.health == nil {
		return 0, fmt.Errorf("bans service dependencies are not configured")
	}

	if err := s.repo.SetBan(ctx, userID, false, "", updatedBy, nil); err != nil {
		return 0, err
	}

	affected := 0
	for _, chatID := range s.health.Healthy() {
		if err := ctx.Err(); err != nil {
			return affected, nil
		}
		if err := s.chats.UnbanMember(ctx, chatID, userID); err != nil {
			s.logger.Warn("unban member failed in chat",
				zap.Int64("chat_id", chatID),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		affected++
	}

	return affected, nil
}

// SyncBanToChat re-applies an existing ban in one chat, used when a chat
// regains health or the bot joins a new chat after the ban was issued.
func (s *Service) SyncBanToChat(ctx context.Context, chatID, userID int64) error {
	if chatID == 0 || userID <= 0 {
		return fmt.Errorf("invalid sync target")
	}
	if s.repo == nil || s.chats == nil {
		return fmt.Errorf("bans service dependencies are not configured")
	}

	state, err := s.repo.GetBanState(ctx, userID)
	if err != nil {
		return err
	}
	if !state.Banned {
		return fmt.Errorf("user %d is not banned", userID)
	}

	until := time.Time{}
	if state.ExpiresAt != nil {
		until = *state.ExpiresAt
	}
	return s.chats.BanMember(ctx, chatID, userID, until)
}

// Kick removes the user from the origin chat only, or from every healthy
// chat when no origin is known. A kick leaves no lasting ban state.
func (s *Service) Kick(ctx context.Context, userID, chatID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if s.chats == nil || s.health == nil {
		return 0, fmt.Errorf("bans service dependencies are not configured")
	}

	targets := s.targets(chatID)
	affected := 0
	var lastErr error
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return affected, nil
		}
		if err := s.chats.KickMember(ctx, target, userID); err != nil {
			lastErr = err
			s.logger.Warn("kick member failed in chat",
				zap.Int64("chat_id", target),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		affected++
	}

	if affected == 0 && lastErr != nil {
		return 0, lastErr
	}
	return affected, nil
}

func (s *Service) Restrict(ctx context.Context, userID, chatID int64, duration time.Duration) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if s.chats == nil || s.health == nil {
		return 0, fmt.Errorf("bans service dependencies are not configured")
	}

	until := time.Time{}
	if duration > 0 {
		until = time.Now().Add(duration)
	}

	affected := 0
	var lastErr error
	for _, target := range s.targets(chatID) {
		if err := ctx.Err(); err != nil {
			return affected, nil
		}
		if err := s.chats.RestrictMember(ctx, target, userID, until); err != nil {
			lastErr = err
			s.logger.Warn("restrict member failed in chat",
				zap.Int64("chat_id", target),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		affected++
	}

	if affected == 0 && lastErr != nil {
		return 0, lastErr
	}
	return affected, nil
}

func (s *Service) RestorePermissions(ctx context.Context, userID, chatID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if s.chats == nil || s.health == nil {
		return 0, fmt.Errorf("bans service dependencies are not configured")
	}

	affected := 0
	var lastErr error
	for _, target := range s.targets(chatID) {
		if err := ctx.Err(); err != nil {
			return affected, nil
		}
		if err := s.chats.RestoreMemberPermissions(ctx, target, userID); err != nil {
			lastErr = err
			s.logger.Warn("restore permissions failed in chat",
				zap.Int64("chat_id", target),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		affected++
	}

	if affected == 0 && lastErr != nil {
		return 0, lastErr
	}
	return affected, nil
}

func (s *Service) targets(chatID int64) []int64 {
	if chatID != 0 {
		return []int64{chatID}
	}
	return s.health.Healthy()
}
