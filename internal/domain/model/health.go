package model

import (
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
)

// ChatHealth is a cached snapshot of what the bot can currently do in one
// chat. It is produced by the health-check job and read by the handlers; the
// orchestrator never mutates it.
type ChatHealth struct {
	ChatID      int64
	ChatTitle   string
	Reachable   bool
	IsAdmin     bool
	CanDelete   bool
	CanRestrict bool
	CanPromote  bool
	CanInvite   bool
	State       enums.ChatHealthState
	Warnings    []string
	CheckedAt   time.Time
}

func (h ChatHealth) Healthy() bool {
	return h.State == enums.ChatHealthHealthy
}
