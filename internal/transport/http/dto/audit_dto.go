package dto

import (
	"encoding/json"
	"time"
)

type AuditEntryResponse struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	TargetTGID int64           `json:"target_tg_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AuditListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}
