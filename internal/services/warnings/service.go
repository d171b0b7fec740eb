package warnings

import (
	"context"
	"fmt"
)

type Repo interface {
	Insert(ctx context.Context, userID, chatID int64, issuedBy, reason string) (int, error)
	ActiveCount(ctx context.Context, userID int64) (int, error)
	RevokeAll(ctx context.Context, userID int64) error
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Warn records the warning and returns the resulting active count, which the
// orchestrator compares against the chat's escalation threshold.
func (s *Service) Warn(ctx context.Context, userID, chatID int64, issuedBy, reason string) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("warnings repo is not configured")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	return s.repo.Insert(ctx, userID, chatID, issuedBy, reason)
}

func (s *Service) ActiveCount(ctx context.Context, userID int64) (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.ActiveCount(ctx, userID)
}

// Clear revokes all active warnings, used after a ban supersedes them.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.RevokeAll(ctx, userID)
}
