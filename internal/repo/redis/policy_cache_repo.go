package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

var ErrPolicyCacheMiss = errors.New("warning policy not cached")

const policyPrefix = "warning_policy:"

// PolicyCacheRepo caches per-chat warning policies so the warn path does not
// hit postgres on every message.
type PolicyCacheRepo struct {
	client *goredis.Client
}

func NewPolicyCacheRepo(client *goredis.Client) *PolicyCacheRepo {
	return &PolicyCacheRepo{client: client}
}

func (r *PolicyCacheRepo) Get(ctx context.Context, chatID int64) (model.WarningPolicy, error) {
	if r.client == nil {
		return model.WarningPolicy{}, ErrPolicyCacheMiss
	}

	raw, err := r.client.Get(ctx, policyKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.WarningPolicy{}, ErrPolicyCacheMiss
		}
		return model.WarningPolicy{}, fmt.Errorf("get cached policy: %w", err)
	}

	var policy model.WarningPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return model.WarningPolicy{}, fmt.Errorf("decode cached policy: %w", err)
	}
	return policy, nil
}

func (r *PolicyCacheRepo) Set(ctx context.Context, policy model.WarningPolicy, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}
	if err := r.client.Set(ctx, policyKey(policy.ChatID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache policy: %w", err)
	}
	return nil
}

func (r *PolicyCacheRepo) Invalidate(ctx context.Context, chatID int64) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, policyKey(chatID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached policy: %w", err)
	}
	return nil
}

func policyKey(chatID int64) string {
	return fmt.Sprintf("%s%d", policyPrefix, chatID)
}
