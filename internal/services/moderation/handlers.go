package moderation

import (
	"context"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

// The orchestrator consumes its collaborators through the narrow interfaces
// below; the default implementations live in the sibling service packages.

type BanHandler interface {
	Ban(ctx context.Context, userID int64, reason, updatedBy string, expiresAt *time.Time) (int, error)
	Unban(ctx context.Context, userID int64, updatedBy string) (int, error)
	SyncBanToChat(ctx context.Context, chatID, userID int64) error
	Kick(ctx context.Context, userID, chatID int64) (int, error)
	Restrict(ctx context.Context, userID, chatID int64, duration time.Duration) (int, error)
	RestorePermissions(ctx context.Context, userID, chatID int64) (int, error)
}

type WarnHandler interface {
	Warn(ctx context.Context, userID, chatID int64, issuedBy, reason string) (int, error)
	Clear(ctx context.Context, userID int64) error
}

type TrustHandler interface {
	Trust(ctx context.Context, userID int64, reason, updatedBy string) error
	Untrust(ctx context.Context, userID int64, reason, updatedBy string) error
	IsTrusted(ctx context.Context, userID int64) (bool, error)
}

type MessageHandler interface {
	EnsureExists(ctx context.Context, msg model.TrackedMessage) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	Fetch(ctx context.Context, chatID int64, messageID int) (model.TrackedMessage, error)
}

type AuditHandler interface {
	LogBan(ctx context.Context, actor model.Actor, targetTGID int64, reason string, chatsAffected int) error
	LogTempBan(ctx context.Context, actor model.Actor, targetTGID int64, reason string, duration time.Duration, chatsAffected int) error
	LogAutoBan(ctx context.Context, actor model.Actor, targetTGID int64, reason string, warningCount int) error
	LogUnban(ctx context.Context, actor model.Actor, targetTGID int64, trustRestored bool) error
	LogWarn(ctx context.Context, actor model.Actor, targetTGID, chatID int64, reason string, count int) error
	LogTrust(ctx context.Context, actor model.Actor, targetTGID int64, reason string) error
	LogUntrust(ctx context.Context, actor model.Actor, targetTGID int64, reason string) error
	LogRestrict(ctx context.Context, actor model.Actor, targetTGID int64, duration time.Duration, chatsAffected int) error
	LogKick(ctx context.Context, actor model.Actor, targetTGID, chatID int64, reason string) error
	LogRestorePermissions(ctx context.Context, actor model.Actor, targetTGID int64, chatsAffected int) error
	LogDeleteMessage(ctx context.Context, actor model.Actor, targetTGID, chatID int64, messageID int) error
	LogSyncBan(ctx context.Context, actor model.Actor, targetTGID, chatID int64) error
	LogMalwareViolation(ctx context.Context, actor model.Actor, targetTGID, chatID int64, messageID int) error
	LogCriticalViolation(ctx context.Context, actor model.Actor, targetTGID, chatID int64, messageID int, violations []string) error
}

type NotifyHandler interface {
	NotifyAdmins(ctx context.Context, text string) error
	NotifyUser(ctx context.Context, userTGID int64, text string) error
}

type TrainingHandler interface {
	CaptureSpam(ctx context.Context, msg model.TrackedMessage) error
}

type PolicyLookup interface {
	Effective(ctx context.Context, chatID int64) (model.WarningPolicy, error)
}

type ReportOpener interface {
	OpenMalware(ctx context.Context, targetTGID, chatID int64, messageID int, details string, openedBy model.Actor) (string, error)
}

type Celebrator interface {
	AnnounceBan(ctx context.Context, chatID, target int64, actor model.Actor) error
}
