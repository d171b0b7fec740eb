package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type UpdateHandler func(context.Context, tgbotapi.Update)

// Client wraps the bot API with the operations the moderation services need.
// With an empty token it runs in dry mode: updates never arrive and every
// outbound call is a no-op, which keeps local development usable without a
// real bot.
type Client struct {
	api         *tgbotapi.BotAPI
	logger      *zap.Logger
	handler     UpdateHandler
	pollTimeout int
	dryRun      bool
}

func NewClient(token string, pollTimeout int, logger *zap.Logger, handler UpdateHandler) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(token) == "" {
		return &Client{
			logger:      logger,
			handler:     handler,
			pollTimeout: pollTimeout,
			dryRun:      true,
		}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Client{
		api:         api,
		logger:      logger,
		handler:     handler,
		pollTimeout: pollTimeout,
	}, nil
}

func (c *Client) Start(ctx context.Context) error {
	if c.handler == nil {
		return errors.New("telegram update handler is required")
	}
	if c.dryRun {
		c.logger.Warn("BOT_TOKEN is empty, running in dry mode")
		<-ctx.Done()
		return nil
	}

	timeout := c.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout
	updates := c.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			c.handler(ctx, update)
		}
	}
}

// BotID returns the authorized bot's own user id, zero in dry mode.
func (c *Client) BotID() int64 {
	if c.dryRun {
		return 0
	}
	return c.api.Self.ID
}

func (c *Client) BanMember(ctx context.Context, chatID, userID int64, until time.Time) error {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return err
	}

	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		RevokeMessages:   true,
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("ban member %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

func (c *Client) UnbanMember(ctx context.Context, chatID, userID int64) error {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return err
	}

	cfg := tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		OnlyIfBanned:     true,
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("unban member %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

// KickMember removes the user without a lasting ban: Telegram models a kick
// as ban followed by unban.
func (c *Client) KickMember(ctx context.Context, chatID, userID int64) error {
	if err := c.BanMember(ctx, chatID, userID, time.Time{}); err != nil {
		return err
	}
	return c.UnbanMember(ctx, chatID, userID)
}

func (c *Client) RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return err
	}

	muted := false
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       muted,
			CanSendMediaMessages:  muted,
			CanSendPolls:          muted,
			CanSendOtherMessages:  muted,
			CanAddWebPagePreviews: muted,
		},
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("restrict member %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

func (c *Client) RestoreMemberPermissions(ctx context.Context, chatID, userID int64) error {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return err
	}

	allowed := true
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       allowed,
			CanSendMediaMessages:  allowed,
			CanSendPolls:          allowed,
			CanSendOtherMessages:  allowed,
			CanAddWebPagePreviews: allowed,
			CanInviteUsers:        allowed,
		},
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("restore permissions for member %d in chat %d: %w", userID, chatID, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return err
	}

	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// SendText posts a message and returns the sent message id, so callers can
// schedule the reply for cleanup.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return 0, err
	}

	sent, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

func (c *Client) SendSticker(ctx context.Context, chatID int64, fileID string) (int, error) {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return 0, err
	}

	sent, err := c.api.Send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(fileID)))
	if err != nil {
		return 0, fmt.Errorf("send sticker to chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

func (c *Client) SendAnimation(ctx context.Context, chatID int64, fileID string) (int, error) {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return 0, err
	}

	sent, err := c.api.Send(tgbotapi.NewAnimation(chatID, tgbotapi.FileID(fileID)))
	if err != nil {
		return 0, fmt.Errorf("send animation to chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// GetSelfMember fetches the bot's own membership record in the chat, which
// carries the permission flags the health check inspects.
func (c *Client) GetSelfMember(ctx context.Context, chatID int64) (tgbotapi.ChatMember, error) {
	if err := c.ready(ctx); err != nil {
		return tgbotapi.ChatMember{}, err
	}
	if c.dryRun {
		return tgbotapi.ChatMember{}, errors.New("telegram client is in dry mode")
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: c.api.Self.ID},
	})
	if err != nil {
		return tgbotapi.ChatMember{}, fmt.Errorf("get self member for chat %d: %w", chatID, err)
	}
	return member, nil
}

func (c *Client) GetMember(ctx context.Context, chatID, userID int64) (tgbotapi.ChatMember, error) {
	if err := c.ready(ctx); err != nil {
		return tgbotapi.ChatMember{}, err
	}
	if c.dryRun {
		return tgbotapi.ChatMember{}, errors.New("telegram client is in dry mode")
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return tgbotapi.ChatMember{}, fmt.Errorf("get member %d for chat %d: %w", userID, chatID, err)
	}
	return member, nil
}

func (c *Client) GetChatTitle(ctx context.Context, chatID int64) (string, error) {
	if err := c.ready(ctx); err != nil || c.dryRun {
		return "", err
	}

	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	if err != nil {
		return "", fmt.Errorf("get chat %d: %w", chatID, err)
	}
	return chat.Title, nil
}

func (c *Client) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}
