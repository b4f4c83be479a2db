// Package telegram wires a Telegram bot to ProcessTurnUseCase: one
// session per (bot_id, chat_id), fetched from the use case's session
// store and advanced turn by turn.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Config configures one Telegram adapter instance.
type Config struct {
	BotID          string // which configured bot this chat talks to
	BotToken       string
	AllowedUserIDs []int64
	Debug          bool
	DMPolicy       string // open / allowlist / disabled
	GroupPolicy    string // open / allowlist / disabled
	GroupAllowFrom []string
}

// Adapter is a Telegram long-polling transport for one bot.
type Adapter struct {
	bot           *tgbotapi.BotAPI
	config        *Config
	logger        *zap.Logger
	handler       MessageHandler
	inboundBuffer *InboundBuffer
	cancel        context.CancelFunc
}

// MessageHandler turns one inbound Telegram message into a reply.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *IncomingMessage) (*OutgoingMessage, error)
}

// IncomingMessage is a Telegram update normalized for MessageHandler.
type IncomingMessage struct {
	MessageID int
	ChatID    int64
	UserID    int64
	Username  string
	Text      string
	Timestamp time.Time
}

// OutgoingMessage is what MessageHandler sends back.
type OutgoingMessage struct {
	ChatID    int64
	Text      string
	ParseMode string // "Markdown", "HTML", ""
	ReplyToID int
}

// NewAdapter authorizes bot and prepares the inbound buffer. Call
// SetMessageHandler before Start.
func NewAdapter(config *Config, logger *zap.Logger) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	bot.Debug = config.Debug

	logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	adapter := &Adapter{bot: bot, config: config, logger: logger}
	adapter.inboundBuffer = NewInboundBuffer(func(ctx context.Context, msg *IncomingMessage) {
		adapter.processBufferedMessage(ctx, msg)
	}, logger)

	return adapter, nil
}

// SetMessageHandler sets the handler every buffered message is dispatched to.
func (a *Adapter) SetMessageHandler(handler MessageHandler) {
	a.handler = handler
}

// Start begins long-polling in a background goroutine.
func (a *Adapter) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	innerCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	updates := a.bot.GetUpdatesChan(u)
	a.logger.Info("starting telegram polling")

	go func() {
		for {
			select {
			case <-innerCtx.Done():
				a.bot.StopReceivingUpdates()
				a.logger.Info("telegram adapter stopped")
				return
			case update := <-updates:
				go a.handleUpdate(innerCtx, update)
			}
		}
	}()

	return nil
}

// Stop ends the polling loop.
func (a *Adapter) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *Adapter) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	if msg.From == nil {
		return
	}

	isGroup := msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()
	if !a.isAllowedChat(msg.Chat.ID, msg.From.ID, isGroup) {
		a.logger.Warn("unauthorized access",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int64("user_id", msg.From.ID),
			zap.Bool("is_group", isGroup),
		)
		return
	}

	incoming := &IncomingMessage{
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Username:  msg.From.UserName,
		Text:      msg.Text,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}

	a.inboundBuffer.Submit(ctx, incoming)
}

func (a *Adapter) processBufferedMessage(ctx context.Context, msg *IncomingMessage) {
	if a.handler == nil {
		a.logger.Warn("no message handler set")
		return
	}

	response, err := a.handler.HandleMessage(ctx, msg)
	if err != nil {
		a.logger.Error("handle message failed", zap.Error(err))
		a.sendError(msg.ChatID, err)
		return
	}

	if response != nil {
		if err := a.SendMessage(response); err != nil {
			a.logger.Error("send message failed", zap.Error(err))
		}
	}
}

// SendMessage sends out, chunking text over Telegram's 4096-char limit.
func (a *Adapter) SendMessage(out *OutgoingMessage) error {
	chunks := ChunkMessage(out.Text)
	if len(chunks) == 0 {
		chunks = []string{""}
	}

	for _, chunk := range chunks {
		msg := tgbotapi.NewMessage(out.ChatID, chunk)
		if out.ParseMode != "" {
			msg.ParseMode = out.ParseMode
		}
		if out.ReplyToID > 0 {
			msg.ReplyToMessageID = out.ReplyToID
		}

		if _, err := a.bot.Send(msg); err != nil {
			if msg.ParseMode != "" && strings.Contains(err.Error(), "can't parse entities") {
				a.logger.Warn("markdown parse failed, retrying as plain text",
					zap.Int64("chat_id", out.ChatID), zap.Error(err))
				msg.ParseMode = ""
				if _, err := a.bot.Send(msg); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}

	return nil
}

func (a *Adapter) sendError(chatID int64, err error) {
	text := fmt.Sprintf("sorry, something went wrong: %s", truncate(err.Error(), 200))
	a.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (a *Adapter) isAllowedUser(userID int64) bool {
	switch a.config.DMPolicy {
	case "disabled":
		return false
	case "allowlist":
		return a.isInUserAllowlist(userID)
	default:
		if len(a.config.AllowedUserIDs) > 0 {
			return a.isInUserAllowlist(userID)
		}
		return true
	}
}

func (a *Adapter) isAllowedGroup(chatID int64) bool {
	switch a.config.GroupPolicy {
	case "disabled":
		return false
	case "allowlist":
		return a.isInGroupAllowlist(chatID)
	default:
		return true
	}
}

func (a *Adapter) isAllowedChat(chatID int64, userID int64, isGroup bool) bool {
	if isGroup {
		return a.isAllowedGroup(chatID)
	}
	return a.isAllowedUser(userID)
}

func (a *Adapter) isInUserAllowlist(userID int64) bool {
	if len(a.config.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range a.config.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (a *Adapter) isInGroupAllowlist(chatID int64) bool {
	if len(a.config.GroupAllowFrom) == 0 {
		return true
	}
	chatIDStr := fmt.Sprintf("%d", chatID)
	for _, id := range a.config.GroupAllowFrom {
		if id == chatIDStr {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
