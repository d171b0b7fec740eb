package botapp

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

func (a *App) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.MyChatMember != nil:
		a.handleMyChatMember(ctx, update.MyChatMember)
	case update.Message != nil && update.Message.IsCommand():
		a.handleCommand(ctx, update.Message)
	case update.Message != nil:
		a.trackMessage(ctx, update.Message)
	}
}

// handleMyChatMember keeps the managed-chat registry in step with the bot's
// own membership. Registration triggers an immediate health pass so a new
// chat does not wait a full interval to become actionable.
func (a *App) handleMyChatMember(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) {
	chatID := upd.Chat.ID
	status := upd.NewChatMember.Status

	switch status {
	case "member", "administrator", "creator", "restricted":
		if err := a.chatsRepo.Register(ctx, chatID, upd.Chat.Title); err != nil {
			a.logger.Error("register chat failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
		a.logger.Info("chat registered",
			zap.Int64("chat_id", chatID),
			zap.String("title", upd.Chat.Title),
			zap.String("status", status))
		if err := a.healthJob.Run(ctx); err != nil {
			a.logger.Warn("health check after registration failed", zap.Error(err))
		}
	case "left", "kicked":
		if err := a.chatsRepo.Deactivate(ctx, chatID); err != nil {
			a.logger.Error("deactivate chat failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
		a.healthCache.Remove(chatID)
		a.logger.Info("chat deactivated", zap.Int64("chat_id", chatID), zap.String("status", status))
	}
}

// trackMessage persists a local copy of group messages so later deletions,
// notifications, and training capture have something to work from.
func (a *App) trackMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.Chat.ID >= 0 || msg.From == nil {
		return
	}

	tracked := model.TrackedMessage{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		UserTGID:  msg.From.ID,
		Text:      messageText(msg),
		HasMedia:  messageHasMedia(msg),
		PostedAt:  time.Unix(int64(msg.Date), 0).UTC(),
	}
	if err := a.messages.EnsureExists(ctx, tracked); err != nil {
		a.logger.Warn("track message failed",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.MessageID),
			zap.Error(err))
	}
}

func messageText(msg *tgbotapi.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func messageHasMedia(msg *tgbotapi.Message) bool {
	return len(msg.Photo) > 0 ||
		msg.Video != nil ||
		msg.Document != nil ||
		msg.Animation != nil ||
		msg.Sticker != nil ||
		msg.Audio != nil ||
		msg.Voice != nil ||
		msg.VideoNote != nil
}
