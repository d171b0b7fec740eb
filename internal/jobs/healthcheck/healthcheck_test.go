package healthcheck

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
	healthsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/health"
)

type listerStub struct {
	chats []model.ManagedChat
	err   error
}

func (s listerStub) ListActive(context.Context) ([]model.ManagedChat, error) {
	return s.chats, s.err
}

type proberStub struct {
	members map[int64]tgbotapi.ChatMember
	errs    map[int64]error
	titles  map[int64]string
}

func (s proberStub) GetSelfMember(_ context.Context, chatID int64) (tgbotapi.ChatMember, error) {
	if err, ok := s.errs[chatID]; ok {
		return tgbotapi.ChatMember{}, err
	}
	return s.members[chatID], nil
}

func (s proberStub) GetChatTitle(_ context.Context, chatID int64) (string, error) {
	return s.titles[chatID], nil
}

func admin(canDelete, canRestrict bool) tgbotapi.ChatMember {
	return tgbotapi.ChatMember{
		Status:             "administrator",
		CanDeleteMessages:  canDelete,
		CanRestrictMembers: canRestrict,
		CanInviteUsers:     true,
	}
}

func TestRunDerivesStatePerChat(t *testing.T) {
	lister := listerStub{chats: []model.ManagedChat{
		{ChatID: -1, Active: true},
		{ChatID: -2, Active: true},
		{ChatID: -3, Active: true},
		{ChatID: -4, Active: true},
		{ChatID: 42, Active: true},
	}}
	prober := proberStub{
		members: map[int64]tgbotapi.ChatMember{
			-1: admin(true, true),
			-2: admin(false, true),
			-3: {Status: "member"},
		},
		errs:   map[int64]error{-4: errors.New("chat not found")},
		titles: map[int64]string{-1: "Main Chat"},
	}
	cache := healthsvc.NewCache()

	job := New(lister, prober, cache, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	tests := []struct {
		chatID int64
		want   enums.ChatHealthState
	}{
		{-1, enums.ChatHealthHealthy},
		{-2, enums.ChatHealthWarning},
		{-3, enums.ChatHealthError},
		{-4, enums.ChatHealthError},
		{42, enums.ChatHealthNotApplicable},
	}
	for _, tc := range tests {
		status, ok := cache.Cached(tc.chatID)
		if !ok {
			t.Fatalf("chat %d missing from cache", tc.chatID)
		}
		if status.State != tc.want {
			t.Fatalf("chat %d state = %s, want %s", tc.chatID, status.State, tc.want)
		}
	}

	if healthy := cache.Healthy(); len(healthy) != 1 || healthy[0] != -1 {
		t.Fatalf("healthy = %v, want [-1]", healthy)
	}

	if status, _ := cache.Cached(-1); status.ChatTitle != "Main Chat" {
		t.Fatalf("title not refreshed: %q", status.ChatTitle)
	}
}

func TestRunDropsDeactivatedChatsFromCache(t *testing.T) {
	cache := healthsvc.NewCache()
	prober := proberStub{members: map[int64]tgbotapi.ChatMember{
		-1: admin(true, true),
		-2: admin(true, true),
	}}

	job := New(listerStub{chats: []model.ManagedChat{
		{ChatID: -1, Active: true},
		{ChatID: -2, Active: true},
	}}, prober, cache, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	job = New(listerStub{chats: []model.ManagedChat{
		{ChatID: -1, Active: true},
	}}, prober, cache, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if _, ok := cache.Cached(-2); ok {
		t.Fatalf("deactivated chat still cached")
	}
	if healthy := cache.Healthy(); len(healthy) != 1 || healthy[0] != -1 {
		t.Fatalf("healthy = %v, want [-1]", healthy)
	}
}

func TestRunSurfacesListerFailure(t *testing.T) {
	job := New(listerStub{err: errors.New("db down")}, proberStub{}, healthsvc.NewCache(), nil)
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected lister failure to surface")
	}
}

func TestCreatorHasAllCapabilities(t *testing.T) {
	cache := healthsvc.NewCache()
	prober := proberStub{members: map[int64]tgbotapi.ChatMember{
		-1: {Status: "creator"},
	}}

	job := New(listerStub{chats: []model.ManagedChat{{ChatID: -1, Active: true}}}, prober, cache, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	status, _ := cache.Cached(-1)
	if !status.Healthy() || !status.CanDelete || !status.CanRestrict || !status.CanPromote {
		t.Fatalf("creator status = %+v", status)
	}
}
