package trust

import (
	"context"
	"fmt"
)

type Repo interface {
	SetTrusted(ctx context.Context, userID int64, trusted bool, reason, updatedBy string) error
	IsTrusted(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Trust(ctx context.Context, userID int64, reason, updatedBy string) error {
	if s.repo == nil {
		return fmt.Errorf("trust repo is not configured")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	return s.repo.SetTrusted(ctx, userID, true, reason, updatedBy)
}

func (s *Service) Untrust(ctx context.Context, userID int64, reason, updatedBy string) error {
	if s.repo == nil {
		return fmt.Errorf("trust repo is not configured")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	return s.repo.SetTrusted(ctx, userID, false, reason, updatedBy)
}

func (s *Service) IsTrusted(ctx context.Context, userID int64) (bool, error) {
	if s.repo == nil {
		return false, nil
	}
	return s.repo.IsTrusted(ctx, userID)
}
