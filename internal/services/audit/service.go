package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type Repo interface {
	Save(ctx context.Context, entry model.Audit) error
	ListRecent(ctx context.Context, limit int) ([]model.Audit, error)
}

// Service writes one audit entry per executed moderation action. Callers
// treat every method as best-effort; failures surface as errors but are
// swallowed by the orchestrator's side-effect wrapper.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) LogBan(ctx context.Context, actor model.Actor, targetTGID int64, reason string, chatsAffected int) error {
	return s.log(ctx, enums.AuditActionBanUser, actor, targetTGID, map[string]interface{}{
		"reason":         reason,
		"chats_affected": chatsAffected,
	})
}

func (s *Service) LogTempBan(ctx context.Context, actor model.Actor, targetTGID int64, reason string, duration time.Duration, chatsAffected int) error {
	return s.log(ctx, enums.AuditActionTempBanUser, actor, targetTGID, map[string]interface{}{
		"reason":         reason,
		"duration_sec":   int(duration.Seconds()),
		"chats_affected": chatsAffected,
	})
}

func (s *Service) LogAutoBan(ctx context.Context, actor model.Actor, targetTGID int64, reason string, warningCount int) error {
	return s.log(ctx, enums.AuditActionAutoBanUser, actor, targetTGID, map[string]interface{}{
		"reason":        reason,
		"warning_count": warningCount,
	})
}

func (s *Service) LogUnban(ctx context.Context, actor model.Actor, targetTGID int64, trustRestored bool) error {
	return s.log(ctx, enums.AuditActionUnbanUser, actor, targetTGID, map[string]interface{}{
		"trust_restored": trustRestored,
	})
}

func (s *Service) LogWarn(ctx context.Context, actor model.Actor, targetTGID, chatID int64, reason string, count int) error {
	return s.log(ctx, enums.AuditActionWarnUser, actor, targetTGID, map[string]interface{}{
		"chat_id":       chatID,
		"reason":        reason,
		"warning_count": count,
	})
}

func (s *Service) LogTrust(ctx context.Context, actor model.Actor, targetTGID int64, reason string) error {
	return s.log(ctx, enums.AuditActionTrustUser, actor, targetTGID, map[string]interface{}{
		"reason": reason,
	})
}

func (s *Service) LogUntrust(ctx context.Context, actor model.Actor, targetTGID int64, reason string) error {
	return s.log(ctx, enums.AuditActionUntrustUser, actor, targetTGID, map[string]interface{}{
		"reason": reason,
	})
}

func (s *Service) LogRestrict(ctx context.Context, actor model.Actor, targetTGID int64, duration time.Duration, chatsAffected int) error {
	return s.log(ctx, enums.AuditActionRestrictUser, actor, targetTGID, map[string]interface{}{
		"duration_sec":   int(duration.Seconds()),
		"chats_affected": chatsAffected,
	})
}

func (s *Service) LogKick(ctx context.Context, actor model.Actor, targetTGID, chatID int64, reason string) error {
	return s.log(ctx, enums.AuditActionKickUser, actor, targetTGID, map[string]interface{}{
		"chat_id": chatID,
		"reason":  reason,
	})
}

func (s *Service) LogRestorePermissions(ctx context.Context, actor model.Actor, targetTGID int64, chatsAffected int) error {
	return s.log(ctx, enums.AuditActionRestorePermissions, actor, targetTGID, map[string]interface{}{
		"chats_affected": chatsAffected,
	})
}

func (s *Service) LogDeleteMessage(ctx context.Context, actor model.Actor, targetTGID, chatID int64, messageID int) error {
	return s.log(ctx, enums.AuditActionDeleteMessage, actor, targetTGID, map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
	})
}

func (s *Service) LogSyncBan(ctx context.Context, actor model.Actor, targetTGID, chatID int64) error {
	return s.log(ctx, enums.AuditActionSyncBan, actor, targetTGID, map[string]interface{}{
		"chat_id": chatID,
	})
}

func (s *Service) LogMalwareViolation(ctx context.Context, actor model.Actor, targetTGID, chatID int64, messageID int) error {
	return s.log(ctx, enums.AuditActionMalwareViolation, actor, targetTGID, map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
	})
}

func (s *Service) LogCriticalViolation(ctx context.Context, actor model.Actor, targetTGID, chatID int64, messageID int, violations []string) error {
	return s.log(ctx, enums.AuditActionCriticalViolation, actor, targetTGID, map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"violations": violations,
	})
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]model.Audit, error) {
	if s.repo == nil {
		return []model.Audit{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *Service) log(ctx context.Context, action enums.AuditAction, actor model.Actor, targetTGID int64, data map[string]interface{}) error {
	if s.repo == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		payload = json.RawMessage(`{}`)
	}

	entry := model.Audit{
		ID:         uuid.NewString(),
		Actor:      actor.Detail(),
		Action:     action,
		TargetTGID: targetTGID,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.Save(ctx, entry)
}
