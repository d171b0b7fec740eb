package dto

import "time"

type ChatHealthResponse struct {
	ChatID      int64     `json:"chat_id"`
	ChatTitle   string    `json:"chat_title,omitempty"`
	State       string    `json:"state"`
	Reachable   bool      `json:"reachable"`
	IsAdmin     bool      `json:"is_admin"`
	CanDelete   bool      `json:"can_delete"`
	CanRestrict bool      `json:"can_restrict"`
	CanPromote  bool      `json:"can_promote"`
	CanInvite   bool      `json:"can_invite"`
	Warnings    []string  `json:"warnings,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

type ChatHealthListResponse struct {
	Chats []ChatHealthResponse `json:"chats"`
}

// ChatHealthEvent is the SSE payload for one health transition. Removed
// events carry no status.
type ChatHealthEvent struct {
	ChatID  int64               `json:"chat_id"`
	Removed bool                `json:"removed,omitempty"`
	Status  *ChatHealthResponse `json:"status,omitempty"`
}
