package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
	healthsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/health"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/dto"
)

func TestChatListReturnsSnapshot(t *testing.T) {
	cache := healthsvc.NewCache()
	cache.Set(model.ChatHealth{
		ChatID:      -1,
		ChatTitle:   "Main",
		State:       enums.ChatHealthHealthy,
		Reachable:   true,
		IsAdmin:     true,
		CanDelete:   true,
		CanRestrict: true,
		CheckedAt:   time.Now().UTC(),
	})
	cache.Set(model.ChatHealth{
		ChatID:    -2,
		State:     enums.ChatHealthError,
		Warnings:  []string{"bot is not an administrator"},
		CheckedAt: time.Now().UTC(),
	})

	handler := NewHealthHandler(cache, nil)
	rec := httptest.NewRecorder()
	handler.ChatList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/chats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.ChatHealthListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Chats) != 2 {
		t.Fatalf("chats = %d, want 2", len(resp.Chats))
	}
	if resp.Chats[0].ChatID != -2 || resp.Chats[1].ChatID != -1 {
		t.Fatalf("order wrong: %+v", resp.Chats)
	}
	if resp.Chats[1].State != string(enums.ChatHealthHealthy) {
		t.Fatalf("state = %s", resp.Chats[1].State)
	}
	if len(resp.Chats[0].Warnings) != 1 {
		t.Fatalf("warnings lost: %+v", resp.Chats[0])
	}
}

func TestChatListWithEmptyCache(t *testing.T) {
	handler := NewHealthHandler(healthsvc.NewCache(), nil)
	rec := httptest.NewRecorder()
	handler.ChatList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/chats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.ChatHealthListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Chats) != 0 {
		t.Fatalf("chats = %+v, want none", resp.Chats)
	}
}

func TestLiveness(t *testing.T) {
	handler := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	handler.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
