package model

import "time"

// WarningPolicy is the effective warning-escalation configuration for one
// chat: after Threshold warnings an automatic ban is issued when enabled.
// ReasonTemplate may contain a {count} placeholder.
type WarningPolicy struct {
	ChatID         int64
	Threshold      int
	AutoBanEnabled bool
	ReasonTemplate string
}

// ManagedChat is a chat the bot has been added to. Inactive rows are kept
// for history but are never probed or fanned out to.
type ManagedChat struct {
	ChatID int64
	Title  string
	Active bool
}

type Warning struct {
	ID        int64
	UserTGID  int64
	ChatID    int64
	IssuedBy  string
	Reason    string
	CreatedAt time.Time
	RevokedAt *time.Time
}

type BanState struct {
	UserTGID  int64
	Banned    bool
	Reason    string
	ExpiresAt *time.Time
	UpdatedBy string
	UpdatedAt time.Time
}

type Report struct {
	ID         string
	Kind       string
	TargetTGID int64
	ChatID     int64
	MessageID  int
	Details    string
	OpenedBy   string
	CreatedAt  time.Time
}

// TrainingSample captures a confirmed-spam message for classifier training.
type TrainingSample struct {
	ID          string
	UserTGID    int64
	ChatID      int64
	MessageID   int
	Text        string
	EvidenceKey string
	CapturedAt  time.Time
}

// TrackedMessage is the locally persisted copy of a chat message used for
// deletion, notification enrichment, and training capture.
type TrackedMessage struct {
	ChatID    int64
	MessageID int
	UserTGID  int64
	Text      string
	HasMedia  bool
	PostedAt  time.Time
	DeleteAt  *time.Time
}
