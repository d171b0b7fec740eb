package botapp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

const (
	notOperatorReply   = "Only chat administrators can use moderation commands."
	missingTargetReply = "Reply to a message or pass a user id."
)

func (a *App) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	command := msg.Command()
	switch command {
	case "ban", "tempban", "unban", "warn", "trust", "untrust", "kick", "restrict", "unrestrict", "del", "spam":
	default:
		return
	}

	if !a.isOperator(ctx, msg.Chat.ID, msg.From.ID) {
		a.reply(ctx, msg.Chat.ID, notOperatorReply)
		return
	}

	intent, err := a.intentFromCommand(msg)
	if err != nil {
		a.reply(ctx, msg.Chat.ID, err.Error())
		return
	}

	var result model.Result
	switch command {
	case "ban":
		result = a.moderation.BanUser(ctx, intent)
	case "tempban":
		result = a.moderation.TempBanUser(ctx, intent)
	case "unban":
		result = a.moderation.UnbanUser(ctx, intent)
	case "warn":
		result = a.moderation.WarnUser(ctx, intent)
	case "trust":
		result = a.moderation.TrustUser(ctx, intent)
	case "untrust":
		result = a.moderation.UntrustUser(ctx, intent)
	case "kick":
		result = a.moderation.KickUser(ctx, intent)
	case "restrict":
		result = a.moderation.RestrictUser(ctx, intent)
	case "unrestrict":
		result = a.moderation.RestorePermissions(ctx, intent)
	case "del":
		result = a.moderation.DeleteMessage(ctx, intent)
	case "spam":
		intent.ConfirmedSpam = true
		result = a.moderation.BanUser(ctx, intent)
	}

	a.reply(ctx, msg.Chat.ID, summarize(command, intent, result))
	a.logger.Info("command handled",
		zap.String("command", command),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Int64("target", intent.TargetTGID),
		zap.Bool("success", result.Success))
}

// isOperator accepts the configured owner everywhere and chat admins inside
// their own chat.
func (a *App) isOperator(ctx context.Context, chatID, userID int64) bool {
	if a.cfg.Bot.OwnerTGID != 0 && userID == a.cfg.Bot.OwnerTGID {
		return true
	}
	if chatID >= 0 {
		return false
	}
	member, err := a.tg.GetMember(ctx, chatID, userID)
	if err != nil {
		a.logger.Warn("operator check failed",
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return false
	}
	return member.IsCreator() || member.IsAdministrator()
}

// intentFromCommand resolves target, reason and duration from the command
// message. Replying to the offender's message is the primary form; a
// numeric user id as the first argument is the fallback.
func (a *App) intentFromCommand(msg *tgbotapi.Message) (model.Intent, error) {
	intent := model.Intent{
		ChatID: msg.Chat.ID,
		Actor:  actorFromMessage(msg.From),
	}

	args := strings.Fields(msg.CommandArguments())

	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		intent.TargetTGID = reply.From.ID
		intent.MessageID = reply.MessageID
	} else if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return model.Intent{}, fmt.Errorf("%s", missingTargetReply)
		}
		intent.TargetTGID = id
		args = args[1:]
	} else {
		return model.Intent{}, fmt.Errorf("%s", missingTargetReply)
	}

	switch msg.Command() {
	case "tempban", "restrict":
		if len(args) == 0 {
			return model.Intent{}, fmt.Errorf("Pass a duration, e.g. 24h or 30m.")
		}
		duration, err := time.ParseDuration(args[0])
		if err != nil || duration <= 0 {
			return model.Intent{}, fmt.Errorf("Invalid duration %q, use forms like 24h or 30m.", args[0])
		}
		intent.Duration = duration
		args = args[1:]
	case "unban":
		if len(args) > 0 && strings.EqualFold(args[0], "trust") {
			intent.RestoreTrust = true
			args = args[1:]
		}
	}

	intent.Reason = strings.Join(args, " ")
	if intent.Reason == "" {
		intent.Reason = "No reason given"
	}
	return intent, nil
}

func actorFromMessage(from *tgbotapi.User) model.Actor {
	name := strings.TrimSpace(from.UserName)
	if name == "" {
		name = strings.TrimSpace(strings.Join([]string{from.FirstName, from.LastName}, " "))
	}
	return model.ActorFromUser(from.ID, name)
}

func summarize(command string, intent model.Intent, result model.Result) string {
	if !result.Success {
		return fmt.Sprintf("Action failed: %s", result.Error)
	}

	var b strings.Builder
	switch command {
	case "ban", "spam":
		fmt.Fprintf(&b, "User %d banned across %d chat(s).", intent.TargetTGID, result.ChatsAffected)
	case "tempban":
		fmt.Fprintf(&b, "User %d banned for %s across %d chat(s).", intent.TargetTGID, intent.Duration, result.ChatsAffected)
	case "unban":
		fmt.Fprintf(&b, "User %d unbanned across %d chat(s).", intent.TargetTGID, result.ChatsAffected)
		if result.TrustRestored {
			b.WriteString(" Trust restored.")
		}
	case "warn":
		fmt.Fprintf(&b, "User %d warned (%d active warning(s)).", intent.TargetTGID, result.WarningCount)
		if result.AutoBanTriggered {
			b.WriteString(" Warning threshold reached, user banned.")
		}
	case "trust":
		fmt.Fprintf(&b, "User %d is now trusted.", intent.TargetTGID)
	case "untrust":
		fmt.Fprintf(&b, "User %d is no longer trusted.", intent.TargetTGID)
	case "kick":
		fmt.Fprintf(&b, "User %d kicked from %d chat(s).", intent.TargetTGID, result.ChatsAffected)
	case "restrict":
		fmt.Fprintf(&b, "User %d restricted for %s in %d chat(s).", intent.TargetTGID, intent.Duration, result.ChatsAffected)
	case "unrestrict":
		fmt.Fprintf(&b, "Permissions restored for user %d in %d chat(s).", intent.TargetTGID, result.ChatsAffected)
	case "del":
		fmt.Fprintf(&b, "Message %d deleted.", intent.MessageID)
	default:
		b.WriteString("Done.")
	}
	if result.TrustRemoved && command != "untrust" {
		b.WriteString(" Trust revoked.")
	}
	return b.String()
}

func (a *App) reply(ctx context.Context, chatID int64, text string) {
	sentID, err := a.tg.SendText(ctx, chatID, text)
	if err != nil {
		a.logger.Warn("command reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	// Command replies in group chats are noise after a while; let the
	// cleanup job delete them.
	if sentID != 0 && chatID < 0 && a.messages != nil {
		if err := a.messages.ScheduleCleanup(ctx, chatID, sentID, botMessageTTL); err != nil {
			a.logger.Warn("schedule reply cleanup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}
