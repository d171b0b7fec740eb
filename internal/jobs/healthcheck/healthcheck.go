package healthcheck

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type chatLister interface {
	ListActive(ctx context.Context) ([]model.ManagedChat, error)
}

type memberProber interface {
	GetSelfMember(ctx context.Context, chatID int64) (tgbotapi.ChatMember, error)
	GetChatTitle(ctx context.Context, chatID int64) (string, error)
}

type statusSink interface {
	Set(status model.ChatHealth)
	Remove(chatID int64)
	Snapshot() []model.ChatHealth
}

// Job probes every managed chat and refreshes the in-memory health cache.
// Moderation fan-out reads that cache, so a chat with an expired or failed
// probe simply stops receiving actions until the next successful pass.
type Job struct {
	chats  chatLister
	probe  memberProber
	sink   statusSink
	now    func() time.Time
	logger *zap.Logger
}

func New(chats chatLister, probe memberProber, sink statusSink, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		chats:  chats,
		probe:  probe,
		sink:   sink,
		now:    time.Now,
		logger: logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.chats == nil || j.probe == nil || j.sink == nil {
		return nil
	}

	chats, err := j.chats.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list chats for health check: %w", err)
	}

	active := make(map[int64]struct{}, len(chats))
	for _, chat := range chats {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		active[chat.ChatID] = struct{}{}
		j.sink.Set(j.check(ctx, chat))
	}

	// Chats deactivated since the last pass drop out of the cache so they
	// stop appearing actionable.
	for _, cached := range j.sink.Snapshot() {
		if _, ok := active[cached.ChatID]; !ok {
			j.sink.Remove(cached.ChatID)
		}
	}

	return nil
}

func (j *Job) check(ctx context.Context, chat model.ManagedChat) model.ChatHealth {
	status := model.ChatHealth{
		ChatID:    chat.ChatID,
		ChatTitle: chat.Title,
		CheckedAt: j.now().UTC(),
	}

	// Positive chat ids are private conversations; admin rights do not
	// exist there.
	if chat.ChatID > 0 {
		status.Reachable = true
		status.State = enums.ChatHealthNotApplicable
		return status
	}

	member, err := j.probe.GetSelfMember(ctx, chat.ChatID)
	if err != nil {
		status.State = enums.ChatHealthError
		status.Warnings = append(status.Warnings, fmt.Sprintf("chat unreachable: %v", err))
		j.logger.Warn("health probe failed",
			zap.Int64("chat_id", chat.ChatID),
			zap.Error(err))
		return status
	}
	status.Reachable = true

	if title, err := j.probe.GetChatTitle(ctx, chat.ChatID); err == nil && title != "" {
		status.ChatTitle = title
	}

	switch {
	case member.IsCreator():
		status.IsAdmin = true
		status.CanDelete = true
		status.CanRestrict = true
		status.CanPromote = true
		status.CanInvite = true
	case member.IsAdministrator():
		status.IsAdmin = true
		status.CanDelete = member.CanDeleteMessages
		status.CanRestrict = member.CanRestrictMembers
		status.CanPromote = member.CanPromoteMembers
		status.CanInvite = member.CanInviteUsers
	}

	status.State = deriveState(&status)
	return status
}

// deriveState applies the actionability rules: moderation requires admin
// rights with delete and restrict permissions. Missing optional rights
// degrade to a warning instead of disabling the chat.
func deriveState(status *model.ChatHealth) enums.ChatHealthState {
	if !status.IsAdmin {
		status.Warnings = append(status.Warnings, "bot is not an administrator")
		return enums.ChatHealthError
	}
	if !status.CanDelete || !status.CanRestrict {
		if !status.CanDelete {
			status.Warnings = append(status.Warnings, "missing can_delete_messages")
		}
		if !status.CanRestrict {
			status.Warnings = append(status.Warnings, "missing can_restrict_members")
		}
		return enums.ChatHealthWarning
	}
	if !status.CanInvite {
		status.Warnings = append(status.Warnings, "missing can_invite_users")
	}
	return enums.ChatHealthHealthy
}
