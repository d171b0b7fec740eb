package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
	healthsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/health"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/dto"
	httperrors "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/errors"
)

type HealthHandler struct {
	cache  *healthsvc.Cache
	logger *zap.Logger
}

func NewHealthHandler(cache *healthsvc.Cache, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{cache: cache, logger: logger}
}

// Liveness answers /healthz for load balancers; it does not consult the
// chat health cache.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) ChatList(w http.ResponseWriter, _ *http.Request) {
	if h.cache == nil {
		writeInternal(w, "HEALTH_CACHE_UNAVAILABLE", "chat health cache is unavailable")
		return
	}

	snapshot := h.cache.Snapshot()
	resp := dto.ChatHealthListResponse{Chats: make([]dto.ChatHealthResponse, 0, len(snapshot))}
	for _, status := range snapshot {
		resp.Chats = append(resp.Chats, toChatHealthResponse(status))
	}
	httperrors.Write(w, http.StatusOK, resp)
}

// Stream pushes every health transition as a server-sent event. The initial
// snapshot is replayed first so a client never has to merge two sources.
func (h *HealthHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeInternal(w, "HEALTH_CACHE_UNAVAILABLE", "chat health cache is unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeInternal(w, "STREAMING_UNSUPPORTED", "response writer does not support streaming")
		return
	}

	events := h.cache.Subscribe()
	defer h.cache.Unsubscribe(events)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for _, status := range h.cache.Snapshot() {
		resp := toChatHealthResponse(status)
		h.writeEvent(w, dto.ChatHealthEvent{ChatID: status.ChatID, Status: &resp})
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			payload := dto.ChatHealthEvent{ChatID: evt.ChatID, Removed: evt.Removed}
			if !evt.Removed {
				resp := toChatHealthResponse(evt.Status)
				payload.Status = &resp
			}
			h.writeEvent(w, payload)
			flusher.Flush()
		}
	}
}

func (h *HealthHandler) writeEvent(w http.ResponseWriter, payload dto.ChatHealthEvent) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("encode health event failed", zap.Error(err))
		return
	}
	fmt.Fprintf(w, "event: chat_health\ndata: %s\n\n", body)
}

func toChatHealthResponse(status model.ChatHealth) dto.ChatHealthResponse {
	return dto.ChatHealthResponse{
		ChatID:      status.ChatID,
		ChatTitle:   status.ChatTitle,
		State:       string(status.State),
		Reachable:   status.Reachable,
		IsAdmin:     status.IsAdmin,
		CanDelete:   status.CanDelete,
		CanRestrict: status.CanRestrict,
		CanPromote:  status.CanPromote,
		CanInvite:   status.CanInvite,
		Warnings:    status.Warnings,
		CheckedAt:   status.CheckedAt,
	}
}
