package moderation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

// Telegram service accounts that must never be moderated: the official
// notification account, the anonymous group admin bot, and the channel bot.
var defaultProtectedTGIDs = []int64{777000, 1087968824, 136817688}

// Service turns one already-decided moderation intent into a correctly
// sequenced set of handler calls. Every public method follows the same
// shape: protection gate, one primary effect, mandatory business rules,
// best-effort side effects, aggregated result.
//
// Two concurrent warn calls for the same user may interleave their
// count-then-maybe-ban sequences; callers needing strict per-user ordering
// serialize above this layer.
type Service struct {
	bans     BanHandler
	warnings WarnHandler
	trust    TrustHandler
	messages MessageHandler
	audit    AuditHandler
	notify   NotifyHandler
	training TrainingHandler
	policy   PolicyLookup
	reports  ReportOpener
	party    Celebrator

	protected map[int64]struct{}
	logger    *zap.Logger
}

type Dependencies struct {
	Bans     BanHandler
	Warnings WarnHandler
	Trust    TrustHandler
	Messages MessageHandler
	Audit    AuditHandler
	Notify   NotifyHandler
	Training TrainingHandler
	Policy   PolicyLookup
	Reports  ReportOpener
	Party    Celebrator

	ExtraProtectedTGIDs []int64
	Logger              *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	protected := make(map[int64]struct{}, len(defaultProtectedTGIDs)+len(deps.ExtraProtectedTGIDs))
	for _, id := range defaultProtectedTGIDs {
		protected[id] = struct{}{}
	}
	for _, id := range deps.ExtraProtectedTGIDs {
		protected[id] = struct{}{}
	}

	return &Service{
		bans:      deps.Bans,
		warnings:  deps.Warnings,
		trust:     deps.Trust,
		messages:  deps.Messages,
		audit:     deps.Audit,
		notify:    deps.Notify,
		training:  deps.Training,
		policy:    deps.Policy,
		reports:   deps.Reports,
		party:     deps.Party,
		protected: protected,
		logger:    logger,
	}
}

// BanUser permanently bans the target across all healthy chats, revokes
// trust, and runs the ban side effects.
func (s *Service) BanUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	affected, err := s.bans.Ban(ctx, intent.TargetTGID, intent.Reason, intent.Actor.Detail(), nil)
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = affected
	result.TrustRemoved = s.revokeTrustForBan(ctx, intent.TargetTGID, intent.Reason, intent.Actor)
	result.MessageDeleted = s.deleteTriggeringMessage(ctx, intent)

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogBan(ctx, intent.Actor, intent.TargetTGID, intent.Reason, affected)
	})
	s.sideEffect(ctx, "clear_warnings", intent, func(ctx context.Context) error {
		return s.warnings.Clear(ctx, intent.TargetTGID)
	})
	s.sideEffect(ctx, "notify", intent, func(ctx context.Context) error {
		return s.notify.NotifyAdmins(ctx, fmt.Sprintf("User %d banned by %s: %s", intent.TargetTGID, intent.Actor.Display(), intent.Reason))
	})
	s.captureTrainingSample(ctx, intent)
	s.celebrate(ctx, intent, intent.Actor)

	return result
}

// TempBanUser bans with an expiry. A zero duration degrades to a permanent
// ban on the platform side.
func (s *Service) TempBanUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	var expiresAt *time.Time
	if intent.Duration > 0 {
		t := time.Now().UTC().Add(intent.Duration)
		expiresAt = &t
	}

	affected, err := s.bans.Ban(ctx, intent.TargetTGID, intent.Reason, intent.Actor.Detail(), expiresAt)
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = affected
	result.TrustRemoved = s.revokeTrustForBan(ctx, intent.TargetTGID, intent.Reason, intent.Actor)
	result.MessageDeleted = s.deleteTriggeringMessage(ctx, intent)

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogTempBan(ctx, intent.Actor, intent.TargetTGID, intent.Reason, intent.Duration, affected)
	})
	s.sideEffect(ctx, "notify", intent, func(ctx context.Context) error {
		return s.notify.NotifyAdmins(ctx, fmt.Sprintf("User %d temporarily banned by %s for %s: %s",
			intent.TargetTGID, intent.Actor.Display(), intent.Duration, intent.Reason))
	})
	s.celebrate(ctx, intent, intent.Actor)

	return result
}

// WarnUser records a warning, then escalates to an inline automatic ban
// when the chat's threshold is reached. The inline ban goes through the
// private primitive, not BanUser, so business rules and side effects are
// applied exactly once.
func (s *Service) WarnUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	count, err := s.warnings.Warn(ctx, intent.TargetTGID, intent.ChatID, intent.Actor.Detail(), intent.Reason)
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.WarningCount = count

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogWarn(ctx, intent.Actor, intent.TargetTGID, intent.ChatID, intent.Reason, count)
	})

	policy, err := s.policy.Effective(ctx, intent.ChatID)
	if err != nil {
		// The warning is already written; a policy read failure only
		// suppresses escalation for this invocation.
		s.logger.Warn("warning policy lookup failed",
			zap.Int64("chat_id", intent.ChatID),
			zap.Int64("user_id", intent.TargetTGID),
			zap.Error(err))
		return result
	}

	if !policy.AutoBanEnabled || count < policy.Threshold {
		return result
	}

	autoActor := model.ActorFromSystem(model.SystemIDAutoBan)
	autoReason := strings.ReplaceAll(policy.ReasonTemplate, "{count}", strconv.Itoa(count))

	affected, err := s.bans.Ban(ctx, intent.TargetTGID, autoReason, autoActor.Detail(), nil)
	if err != nil {
		// The warning stands even when escalation fails.
		s.logger.Error("auto-ban failed after warning threshold",
			zap.Int64("user_id", intent.TargetTGID),
			zap.Int("warning_count", count),
			zap.Error(err))
		return result
	}

	result.AutoBanTriggered = true
	result.ChatsAffected = affected
	result.TrustRemoved = s.revokeTrustForBan(ctx, intent.TargetTGID, autoReason, autoActor)

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogAutoBan(ctx, autoActor, intent.TargetTGID, autoReason, count)
	})
	s.sideEffect(ctx, "notify", intent, func(ctx context.Context) error {
		return s.notify.NotifyAdmins(ctx, fmt.Sprintf("User %d auto-banned: %s", intent.TargetTGID, autoReason))
	})
	s.celebrate(ctx, intent, autoActor)

	return result
}

func (s *Service) TrustUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	if err := s.trust.Trust(ctx, intent.TargetTGID, intent.Reason, intent.Actor.Detail()); err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.TrustRestored = true

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogTrust(ctx, intent.Actor, intent.TargetTGID, intent.Reason)
	})

	return result
}

func (s *Service) UntrustUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	if err := s.trust.Untrust(ctx, intent.TargetTGID, intent.Reason, intent.Actor.Detail()); err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.TrustRemoved = true

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogUntrust(ctx, intent.Actor, intent.TargetTGID, intent.Reason)
	})

	return result
}

// UnbanUser lifts the ban and, when the intent asks for it, re-grants
// trust. A failed trust restore leaves the unban in place and is reported
// through the TrustRestored flag only.
func (s *Service) UnbanUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	affected, err := s.bans.Unban(ctx, intent.TargetTGID, intent.Actor.Detail())
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = affected

	if intent.RestoreTrust {
		if err := s.trust.Trust(ctx, intent.TargetTGID, "Trust restored after unban", intent.Actor.Detail()); err != nil {
			s.logger.Warn("trust restore failed after unban",
				zap.Int64("user_id", intent.TargetTGID),
				zap.Error(err))
		} else {
			result.TrustRestored = true
		}
	}

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogUnban(ctx, intent.Actor, intent.TargetTGID, result.TrustRestored)
	})

	return result
}

func (s *Service) RestrictUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	affected, err := s.bans.Restrict(ctx, intent.TargetTGID, intent.ChatID, intent.Duration)
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = affected

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogRestrict(ctx, intent.Actor, intent.TargetTGID, intent.Duration, affected)
	})

	return result
}

func (s *Service) KickUser(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	affected, err := s.bans.Kick(ctx, intent.TargetTGID, intent.ChatID)
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = affected

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogKick(ctx, intent.Actor, intent.TargetTGID, intent.ChatID, intent.Reason)
	})

	return result
}

func (s *Service) RestorePermissions(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}

	affected, err := s.bans.RestorePermissions(ctx, intent.TargetTGID, intent.ChatID)
	if err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = affected

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogRestorePermissions(ctx, intent.Actor, intent.TargetTGID, affected)
	})

	return result
}

func (s *Service) DeleteMessage(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}
	if intent.ChatID == 0 || intent.MessageID == 0 {
		return model.FailureResult("delete message requires a chat and message id")
	}

	if err := s.messages.Delete(ctx, intent.ChatID, intent.MessageID); err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.MessageDeleted = true

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogDeleteMessage(ctx, intent.Actor, intent.TargetTGID, intent.ChatID, intent.MessageID)
	})

	return result
}

// SyncBanToChat re-applies an existing ban in one chat, typically after the
// chat regains health.
func (s *Service) SyncBanToChat(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}
	if intent.ChatID == 0 {
		return model.FailureResult("ban sync requires a chat id")
	}

	if err := s.bans.SyncBanToChat(ctx, intent.ChatID, intent.TargetTGID); err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.ChatsAffected = 1

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogSyncBan(ctx, intent.Actor, intent.TargetTGID, intent.ChatID)
	})

	return result
}

// MalwareViolation deletes the offending message and opens an
// administrative report. It deliberately does not ban: malware findings go
// to a human because the sender is as likely a victim as an offender.
func (s *Service) MalwareViolation(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}
	if intent.ChatID == 0 || intent.MessageID == 0 {
		return model.FailureResult("malware handling requires a chat and message id")
	}

	if err := s.messages.Delete(ctx, intent.ChatID, intent.MessageID); err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.MessageDeleted = true

	s.sideEffect(ctx, "report", intent, func(ctx context.Context) error {
		_, err := s.reports.OpenMalware(ctx, intent.TargetTGID, intent.ChatID, intent.MessageID, intent.Reason, intent.Actor)
		return err
	})
	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogMalwareViolation(ctx, intent.Actor, intent.TargetTGID, intent.ChatID, intent.MessageID)
	})
	s.sideEffect(ctx, "notify", intent, func(ctx context.Context) error {
		return s.notify.NotifyAdmins(ctx, fmt.Sprintf("Malware detected from user %d in chat %d, message removed and report opened",
			intent.TargetTGID, intent.ChatID))
	})

	return result
}

// CriticalViolation deletes the offending message and, for trusted senders,
// explains the removal instead of punishing what was most likely a mistake.
func (s *Service) CriticalViolation(ctx context.Context, intent model.Intent) model.Result {
	if blocked, result := s.gate(intent); blocked {
		return result
	}
	if intent.ChatID == 0 || intent.MessageID == 0 {
		return model.FailureResult("violation handling requires a chat and message id")
	}

	if err := s.messages.Delete(ctx, intent.ChatID, intent.MessageID); err != nil {
		return model.FailureResult(err.Error())
	}

	result := model.SuccessResult()
	result.MessageDeleted = true

	s.sideEffect(ctx, "audit", intent, func(ctx context.Context) error {
		return s.audit.LogCriticalViolation(ctx, intent.Actor, intent.TargetTGID, intent.ChatID, intent.MessageID, intent.Violations)
	})
	s.sideEffect(ctx, "notify", intent, func(ctx context.Context) error {
		trusted, err := s.trust.IsTrusted(ctx, intent.TargetTGID)
		if err != nil || !trusted {
			return err
		}
		return s.notify.NotifyUser(ctx, intent.TargetTGID, fmt.Sprintf(
			"Your message was removed for policy violations: %s.", strings.Join(intent.Violations, ", ")))
	})

	return result
}

// gate validates the intent and blocks protected targets before any handler
// runs. A blocked result is not a handler failure and is never audited.
func (s *Service) gate(intent model.Intent) (bool, model.Result) {
	if intent.TargetTGID <= 0 {
		return true, model.FailureResult("target user is required")
	}
	if err := intent.Actor.Validate(); err != nil {
		return true, model.FailureResult(err.Error())
	}
	if _, protected := s.protected[intent.TargetTGID]; protected {
		return true, model.BlockedResult()
	}
	return false, model.Result{}
}

// revokeTrustForBan applies the ban-revokes-trust rule. The returned flag
// feeds the result; a failure here never reverses the ban.
func (s *Service) revokeTrustForBan(ctx context.Context, userID int64, banReason string, actor model.Actor) bool {
	reason := "Trust revoked due to ban: " + banReason
	if err := s.trust.Untrust(ctx, userID, reason, actor.Detail()); err != nil {
		s.logger.Warn("trust revocation failed after ban",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Service) deleteTriggeringMessage(ctx context.Context, intent model.Intent) bool {
	if intent.ChatID == 0 || intent.MessageID == 0 {
		return false
	}
	if err := s.messages.Delete(ctx, intent.ChatID, intent.MessageID); err != nil {
		s.logger.Warn("triggering message delete failed",
			zap.Int64("chat_id", intent.ChatID),
			zap.Int("message_id", intent.MessageID),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Service) captureTrainingSample(ctx context.Context, intent model.Intent) {
	if s.training == nil || !intent.ConfirmedSpam || intent.MessageID == 0 || intent.ChatID == 0 {
		return
	}
	s.sideEffect(ctx, "training", intent, func(ctx context.Context) error {
		msg, err := s.messages.Fetch(ctx, intent.ChatID, intent.MessageID)
		if err != nil {
			return err
		}
		if msg.UserTGID == 0 {
			msg.UserTGID = intent.TargetTGID
		}
		return s.training.CaptureSpam(ctx, msg)
	})
}

func (s *Service) celebrate(ctx context.Context, intent model.Intent, actor model.Actor) {
	// Celebrations are optional; a nil celebrator disables them entirely.
	// Positive chat ids are private conversations, never announced into.
	if s.party == nil || intent.ChatID >= 0 {
		return
	}
	s.sideEffect(ctx, "celebrate", intent, func(ctx context.Context) error {
		return s.party.AnnounceBan(ctx, intent.ChatID, intent.TargetTGID, actor)
	})
}

// sideEffect runs one best-effort follow-up: a failure or panic is logged
// with enough context to diagnose and never alters the already-determined
// outcome. Cancellation stops side effects that have not started yet.
func (s *Service) sideEffect(ctx context.Context, name string, intent model.Intent, fn func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("moderation side effect panicked",
				zap.String("side_effect", name),
				zap.Int64("user_id", intent.TargetTGID),
				zap.Int64("chat_id", intent.ChatID),
				zap.Any("panic", r))
		}
	}()
	if err := fn(ctx); err != nil {
		s.logger.Warn("moderation side effect failed",
			zap.String("side_effect", name),
			zap.Int64("user_id", intent.TargetTGID),
			zap.Int64("chat_id", intent.ChatID),
			zap.Error(err))
	}
}
