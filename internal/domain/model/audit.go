package model

import (
	"encoding/json"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
)

type Audit struct {
	ID         string
	Actor      string
	Action     enums.AuditAction
	TargetTGID int64
	Payload    json.RawMessage
	CreatedAt  time.Time
}
