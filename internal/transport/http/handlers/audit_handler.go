package handlers

import (
	"net/http"
	"strconv"

	auditsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/audit"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/dto"
	httperrors "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/errors"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type AuditHandler struct {
	service *auditsvc.Service
}

func NewAuditHandler(service *auditsvc.Service) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUDIT_SERVICE_UNAVAILABLE", "audit service is unavailable")
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load audit log")
		return
	}

	resp := dto.AuditListResponse{Entries: make([]dto.AuditEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, dto.AuditEntryResponse{
			ID:         entry.ID,
			Actor:      entry.Actor,
			Action:     string(entry.Action),
			TargetTGID: entry.TargetTGID,
			Payload:    entry.Payload,
			CreatedAt:  entry.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, resp)
}
