package policy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
	pgrepo "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/repo/postgres"
)

type Store interface {
	GetWarningPolicy(ctx context.Context, chatID int64) (model.WarningPolicy, error)
	UpsertWarningPolicy(ctx context.Context, policy model.WarningPolicy) error
}

type Cache interface {
	Get(ctx context.Context, chatID int64) (model.WarningPolicy, error)
	Set(ctx context.Context, policy model.WarningPolicy, ttl time.Duration) error
	Invalidate(ctx context.Context, chatID int64) error
}

// Defaults is the process-wide fallback policy applied when a chat has no
// explicit configuration.
type Defaults struct {
	Threshold      int
	AutoBanEnabled bool
	ReasonTemplate string
}

// Service resolves the effective warning-escalation policy for a chat:
// redis cache, then postgres, then configured defaults.
type Service struct {
	store    Store
	cache    Cache
	defaults Defaults
	cacheTTL time.Duration
}

func NewService(store Store, cache Cache, defaults Defaults, cacheTTL time.Duration) *Service {
	if defaults.Threshold <= 0 {
		defaults.Threshold = 3
	}
	if strings.TrimSpace(defaults.ReasonTemplate) == "" {
		defaults.ReasonTemplate = "Exceeded warning threshold ({count} warnings)"
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{store: store, cache: cache, defaults: defaults, cacheTTL: cacheTTL}
}

func (s *Service) Effective(ctx context.Context, chatID int64) (model.WarningPolicy, error) {
	if s.cache != nil {
		// A miss and a broken cache both degrade to a store read.
		if cached, err := s.cache.Get(ctx, chatID); err == nil {
			return cached, nil
		}
	}

	policy := s.defaultPolicy(chatID)
	if s.store != nil {
		stored, err := s.store.GetWarningPolicy(ctx, chatID)
		switch {
		case err == nil:
			policy = stored
			if policy.Threshold <= 0 {
				policy.Threshold = s.defaults.Threshold
			}
			if strings.TrimSpace(policy.ReasonTemplate) == "" {
				policy.ReasonTemplate = s.defaults.ReasonTemplate
			}
		case errors.Is(err, pgrepo.ErrPolicyNotFound):
			// fall through to the default
		default:
			return model.WarningPolicy{}, err
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, policy, s.cacheTTL)
	}
	return policy, nil
}

// Update persists a chat's policy and drops the cached copy so the next
// Effective call sees the new values immediately instead of after TTL.
func (s *Service) Update(ctx context.Context, policy model.WarningPolicy) error {
	if s.store == nil {
		return errors.New("policy store is not configured")
	}
	if policy.ChatID == 0 {
		return errors.New("chat id is required")
	}
	if policy.Threshold <= 0 {
		return errors.New("warning threshold must be positive")
	}

	if err := s.store.UpsertWarningPolicy(ctx, policy); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, policy.ChatID)
	}
	return nil
}

func (s *Service) defaultPolicy(chatID int64) model.WarningPolicy {
	return model.WarningPolicy{
		ChatID:         chatID,
		Threshold:      s.defaults.Threshold,
		AutoBanEnabled: s.defaults.AutoBanEnabled,
		ReasonTemplate: s.defaults.ReasonTemplate,
	}
}
