package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
	pgrepo "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/repo/postgres"
)

type storeStub struct {
	policies map[int64]model.WarningPolicy
	getErr   error
	upserts  int
}

func (s *storeStub) GetWarningPolicy(_ context.Context, chatID int64) (model.WarningPolicy, error) {
	if s.getErr != nil {
		return model.WarningPolicy{}, s.getErr
	}
	policy, ok := s.policies[chatID]
	if !ok {
		return model.WarningPolicy{}, pgrepo.ErrPolicyNotFound
	}
	return policy, nil
}

func (s *storeStub) UpsertWarningPolicy(_ context.Context, policy model.WarningPolicy) error {
	if s.policies == nil {
		s.policies = make(map[int64]model.WarningPolicy)
	}
	s.policies[policy.ChatID] = policy
	s.upserts++
	return nil
}

type cacheStub struct {
	entries      map[int64]model.WarningPolicy
	getErr       error
	sets         int
	invalidated  []int64
	lastCacheTTL time.Duration
}

func (s *cacheStub) Get(_ context.Context, chatID int64) (model.WarningPolicy, error) {
	if s.getErr != nil {
		return model.WarningPolicy{}, s.getErr
	}
	policy, ok := s.entries[chatID]
	if !ok {
		return model.WarningPolicy{}, errors.New("miss")
	}
	return policy, nil
}

func (s *cacheStub) Set(_ context.Context, policy model.WarningPolicy, ttl time.Duration) error {
	if s.entries == nil {
		s.entries = make(map[int64]model.WarningPolicy)
	}
	s.entries[policy.ChatID] = policy
	s.sets++
	s.lastCacheTTL = ttl
	return nil
}

func (s *cacheStub) Invalidate(_ context.Context, chatID int64) error {
	delete(s.entries, chatID)
	s.invalidated = append(s.invalidated, chatID)
	return nil
}

func defaults() Defaults {
	return Defaults{
		Threshold:      3,
		AutoBanEnabled: true,
		ReasonTemplate: "Exceeded warning threshold ({count} warnings)",
	}
}

func TestEffectivePrefersCachedPolicy(t *testing.T) {
	cached := model.WarningPolicy{ChatID: -1, Threshold: 7, AutoBanEnabled: false, ReasonTemplate: "custom"}
	store := &storeStub{policies: map[int64]model.WarningPolicy{-1: {ChatID: -1, Threshold: 2}}}
	cache := &cacheStub{entries: map[int64]model.WarningPolicy{-1: cached}}
	svc := NewService(store, cache, defaults(), time.Minute)

	got, err := svc.Effective(context.Background(), -1)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got != cached {
		t.Fatalf("policy = %+v, want the cached copy", got)
	}
}

func TestEffectiveFallsBackToStoreAndCaches(t *testing.T) {
	stored := model.WarningPolicy{ChatID: -1, Threshold: 5, AutoBanEnabled: true, ReasonTemplate: "stored"}
	store := &storeStub{policies: map[int64]model.WarningPolicy{-1: stored}}
	cache := &cacheStub{}
	svc := NewService(store, cache, defaults(), time.Minute)

	got, err := svc.Effective(context.Background(), -1)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got != stored {
		t.Fatalf("policy = %+v, want the stored copy", got)
	}
	if cache.sets != 1 || cache.lastCacheTTL != time.Minute {
		t.Fatalf("store result was not cached: sets=%d ttl=%v", cache.sets, cache.lastCacheTTL)
	}
}

func TestEffectiveBackfillsIncompleteStoredPolicy(t *testing.T) {
	store := &storeStub{policies: map[int64]model.WarningPolicy{-1: {ChatID: -1, AutoBanEnabled: true}}}
	svc := NewService(store, &cacheStub{}, defaults(), time.Minute)

	got, err := svc.Effective(context.Background(), -1)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got.Threshold != 3 {
		t.Fatalf("threshold = %d, want default 3", got.Threshold)
	}
	if got.ReasonTemplate != "Exceeded warning threshold ({count} warnings)" {
		t.Fatalf("reason template not backfilled: %q", got.ReasonTemplate)
	}
}

func TestEffectiveUsesDefaultWhenUnconfigured(t *testing.T) {
	svc := NewService(&storeStub{}, &cacheStub{}, defaults(), time.Minute)

	got, err := svc.Effective(context.Background(), -9)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got.ChatID != -9 || got.Threshold != 3 || !got.AutoBanEnabled {
		t.Fatalf("default policy = %+v", got)
	}
}

func TestEffectiveSurfacesStoreFailures(t *testing.T) {
	store := &storeStub{getErr: errors.New("db down")}
	svc := NewService(store, &cacheStub{}, defaults(), time.Minute)

	if _, err := svc.Effective(context.Background(), -1); err == nil {
		t.Fatalf("expected store failure to surface")
	}
}

func TestEffectiveToleratesBrokenCache(t *testing.T) {
	stored := model.WarningPolicy{ChatID: -1, Threshold: 4, ReasonTemplate: "stored"}
	store := &storeStub{policies: map[int64]model.WarningPolicy{-1: stored}}
	cache := &cacheStub{getErr: errors.New("redis down")}
	svc := NewService(store, cache, defaults(), time.Minute)

	got, err := svc.Effective(context.Background(), -1)
	if err != nil {
		t.Fatalf("effective: %v", err)
	}
	if got != stored {
		t.Fatalf("policy = %+v, want the stored copy", got)
	}
}

func TestUpdatePersistsAndInvalidates(t *testing.T) {
	store := &storeStub{}
	cache := &cacheStub{entries: map[int64]model.WarningPolicy{-1: {ChatID: -1, Threshold: 2}}}
	svc := NewService(store, cache, defaults(), time.Minute)

	policy := model.WarningPolicy{ChatID: -1, Threshold: 5, AutoBanEnabled: true, ReasonTemplate: "updated"}
	if err := svc.Update(context.Background(), policy); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.upserts != 1 {
		t.Fatalf("upserts = %d, want 1", store.upserts)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != -1 {
		t.Fatalf("cache invalidations = %v, want [-1]", cache.invalidated)
	}
}

func TestUpdateRejectsInvalidPolicy(t *testing.T) {
	svc := NewService(&storeStub{}, &cacheStub{}, defaults(), time.Minute)

	if err := svc.Update(context.Background(), model.WarningPolicy{Threshold: 3}); err == nil {
		t.Fatalf("expected rejection without a chat id")
	}
	if err := svc.Update(context.Background(), model.WarningPolicy{ChatID: -1}); err == nil {
		t.Fatalf("expected rejection of a non-positive threshold")
	}
}
