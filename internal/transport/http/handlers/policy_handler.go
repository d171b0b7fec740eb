package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
	policysvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/policy"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/dto"
	httperrors "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/errors"
)

type PolicyHandler struct {
	service *policysvc.Service
}

func NewPolicyHandler(service *policysvc.Service) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// Get returns the effective policy for a chat, which may be the configured
// default when the chat has no row of its own.
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POLICY_SERVICE_UNAVAILABLE", "policy service is unavailable")
		return
	}

	chatID, ok := chatIDFromURL(w, r)
	if !ok {
		return
	}

	policy, err := h.service.Effective(r.Context(), chatID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to resolve warning policy")
		return
	}

	httperrors.Write(w, http.StatusOK, toPolicyResponse(policy))
}

func (h *PolicyHandler) Put(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POLICY_SERVICE_UNAVAILABLE", "policy service is unavailable")
		return
	}

	chatID, ok := chatIDFromURL(w, r)
	if !ok {
		return
	}

	var req dto.WarningPolicyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not a valid policy")
		return
	}
	if req.Threshold <= 0 {
		writeBadRequest(w, "INVALID_THRESHOLD", "threshold must be positive")
		return
	}

	policy := model.WarningPolicy{
		ChatID:         chatID,
		Threshold:      req.Threshold,
		AutoBanEnabled: req.AutoBanEnabled,
		ReasonTemplate: req.ReasonTemplate,
	}
	if err := h.service.Update(r.Context(), policy); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to store warning policy")
		return
	}

	httperrors.Write(w, http.StatusOK, toPolicyResponse(policy))
}

func chatIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil || chatID == 0 {
		writeBadRequest(w, "INVALID_CHAT_ID", "chat id must be a non-zero integer")
		return 0, false
	}
	return chatID, true
}

func toPolicyResponse(policy model.WarningPolicy) dto.WarningPolicyResponse {
	return dto.WarningPolicyResponse{
		ChatID:         policy.ChatID,
		Threshold:      policy.Threshold,
		AutoBanEnabled: policy.AutoBanEnabled,
		ReasonTemplate: policy.ReasonTemplate,
	}
}
