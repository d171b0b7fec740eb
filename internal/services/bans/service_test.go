package bans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type chatActionsStub struct {
	banned     []int64
	unbanned   []int64
	kicked     []int64
	restricted []int64
	restored   []int64
	failChats  map[int64]error
	lastUntil  time.Time
}

func (s *chatActionsStub) fail(chatID int64) error {
	if err, ok := s.failChats[chatID]; ok {
		return err
	}
	return nil
}

func (s *chatActionsStub) BanMember(_ context.Context, chatID, _ int64, until time.Time) error {
	if err := s.fail(chatID); err != nil {
		return err
	}
	s.banned = append(s.banned, chatID)
	s.lastUntil = until
	return nil
}

func (s *chatActionsStub) UnbanMember(_ context.Context, chatID, _ int64) error {
	if err := s.fail(chatID); err != nil {
		return err
	}
	s.unbanned = append(s.unbanned, chatID)
	return nil
}

func (s *chatActionsStub) KickMember(_ context.Context, chatID, _ int64) error {
	if err := s.fail(chatID); err != nil {
		return err
	}
	s.kicked = append(s.kicked, chatID)
	return nil
}

func (s *chatActionsStub) RestrictMember(_ context.Context, chatID, _ int64, _ time.Time) error {
	if err := s.fail(chatID); err != nil {
		return err
	}
	s.restricted = append(s.restricted, chatID)
	return nil
}

func (s *chatActionsStub) RestoreMemberPermissions(_ context.Context, chatID, _ int64) error {
	if err := s.fail(chatID); err != nil {
		return err
	}
	s.restored = append(s.restored, chatID)
	return nil
}

type stateRepoStub struct {
	state   model.BanState
	setErr  error
	banned  []bool
	reasons []string
}

func (s *stateRepoStub) SetBan(_ context.Context, userID int64, banned bool, reason, _ string, expiresAt *time.Time) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.banned = append(s.banned, banned)
	s.reasons = append(s.reasons, reason)
	s.state = model.BanState{UserTGID: userID, Banned: banned, Reason: reason, ExpiresAt: expiresAt}
	return nil
}

func (s *stateRepoStub) GetBanState(context.Context, int64) (model.BanState, error) {
	return s.state, nil
}

type healthStub struct {
	chats []int64
}

func (s healthStub) Healthy() []int64 { return s.chats }

func TestBanFansOutToHealthyChatsOnly(t *testing.T) {
	chats := &chatActionsStub{}
	repo := &stateRepoStub{}
	svc := NewService(chats, repo, healthStub{chats: []int64{-1, -2, -3}}, nil)

	affected, err := svc.Ban(context.Background(), 42, "spam", "operator x", nil)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if affected != 3 {
		t.Fatalf("affected = %d, want 3", affected)
	}
	if len(chats.banned) != 3 {
		t.Fatalf("banned in %v, want all three chats", chats.banned)
	}
	if len(repo.banned) != 1 || !repo.banned[0] {
		t.Fatalf("ban state not written")
	}
}

func TestBanWithNoHealthyChatsStillCommitsState(t *testing.T) {
	repo := &stateRepoStub{}
	svc := NewService(&chatActionsStub{}, repo, healthStub{}, nil)

	affected, err := svc.Ban(context.Background(), 42, "spam", "operator x", nil)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if affected != 0 {
		t.Fatalf("affected = %d, want 0", affected)
	}
	if !repo.state.Banned {
		t.Fatalf("local ban state missing")
	}
}

func TestBanStateWriteFailureAborts(t *testing.T) {
	chats := &chatActionsStub{}
	repo := &stateRepoStub{setErr: errors.New("db down")}
	svc := NewService(chats, repo, healthStub{chats: []int64{-1}}, nil)

	if _, err := svc.Ban(context.Background(), 42, "spam", "operator x", nil); err == nil {
		t.Fatalf("expected error when the state write fails")
	}
	if len(chats.banned) != 0 {
		t.Fatalf("platform ban issued despite failed state write")
	}
}

func TestBanCountsOnlySuccessfulChats(t *testing.T) {
	chats := &chatActionsStub{failChats: map[int64]error{-2: errors.New("forbidden")}}
	svc := NewService(chats, &stateRepoStub{}, healthStub{chats: []int64{-1, -2, -3}}, nil)

	affected, err := svc.Ban(context.Background(), 42, "spam", "operator x", nil)
	if err != nil {
		t.Fatalf("per-chat failure must not fail the ban: %v", err)
	}
	if affected != 2 {
		t.Fatalf("affected = %d, want 2", affected)
	}
}

func TestSyncBanRequiresExistingBan(t *testing.T) {
	chats := &chatActionsStub{}
	repo := &stateRepoStub{state: model.BanState{UserTGID: 42, Banned: false}}
	svc := NewService(chats, repo, healthStub{}, nil)

	if err := svc.SyncBanToChat(context.Background(), -1, 42); err == nil {
		t.Fatalf("sync of an unbanned user must fail")
	}

	expires := time.Now().UTC().Add(24 * time.Hour)
	repo.state = model.BanState{UserTGID: 42, Banned: true, ExpiresAt: &expires}
	if err := svc.SyncBanToChat(context.Background(), -1, 42); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(chats.banned) != 1 || chats.banned[0] != -1 {
		t.Fatalf("sync banned in %v, want [-1]", chats.banned)
	}
	if !chats.lastUntil.Equal(expires) {
		t.Fatalf("sync dropped the expiry: %v", chats.lastUntil)
	}
}

func TestKickTargetsOriginChatWhenKnown(t *testing.T) {
	chats := &chatActionsStub{}
	svc := NewService(chats, &stateRepoStub{}, healthStub{chats: []int64{-1, -2}}, nil)

	affected, err := svc.Kick(context.Background(), 42, -2)
	if err != nil {
		t.Fatalf("kick: %v", err)
	}
	if affected != 1 || len(chats.kicked) != 1 || chats.kicked[0] != -2 {
		t.Fatalf("kick hit %v, want only [-2]", chats.kicked)
	}
}

func TestKickFansOutWithoutOriginChat(t *testing.T) {
	chats := &chatActionsStub{}
	svc := NewService(chats, &stateRepoStub{}, healthStub{chats: []int64{-1, -2}}, nil)

	affected, err := svc.Kick(context.Background(), 42, 0)
	if err != nil {
		t.Fatalf("kick: %v", err)
	}
	if affected != 2 {
		t.Fatalf("affected = %d, want 2", affected)
	}
}

func TestKickReturnsErrorOnlyWhenNothingSucceeded(t *testing.T) {
	boom := errors.New("forbidden")
	chats := &chatActionsStub{failChats: map[int64]error{-1: boom, -2: boom}}
	svc := NewService(chats, &stateRepoStub{}, healthStub{chats: []int64{-1, -2}}, nil)

	if _, err := svc.Kick(context.Background(), 42, 0); !errors.Is(err, boom) {
		t.Fatalf("expected the platform error when every chat failed, got %v", err)
	}

	chats.failChats = map[int64]error{-1: boom}
	affected, err := svc.Kick(context.Background(), 42, 0)
	if err != nil {
		t.Fatalf("partial success must not error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}
}
