package model

import "time"

// Intent is an immutable request describing one moderation action. Callers
// (bot command router, admin API, detection pipelines) construct an intent
// and hand it to the orchestrator exactly once.
type Intent struct {
	TargetTGID int64
	// ChatID is the originating chat, zero when the action is global.
	ChatID int64
	// MessageID is the triggering message, zero when the action has none.
	MessageID int
	Actor     Actor
	Reason    string

	// Duration applies to temporary bans and restrictions; zero means permanent.
	Duration time.Duration
	// RestoreTrust applies to unban: re-grant trust after a successful unban.
	RestoreTrust bool
	// ConfirmedSpam marks a ban as confirmed spam, enabling training capture.
	ConfirmedSpam bool
	// Violations carries the findings for critical-violation handling.
	Violations []string
}
