package telegram

import (
	"context"
	"fmt"

	"github.com/chatopera/clause/internal/application/usecase"
)

// TurnHandler drives one bot through ProcessTurnUseCase, one session
// per Telegram chat.
type TurnHandler struct {
	uc    *usecase.ProcessTurnUseCase
	botID string
}

// NewTurnHandler builds a MessageHandler bound to botID.
func NewTurnHandler(uc *usecase.ProcessTurnUseCase, botID string) *TurnHandler {
	return &TurnHandler{uc: uc, botID: botID}
}

// HandleMessage implements MessageHandler.
func (h *TurnHandler) HandleMessage(ctx context.Context, msg *IncomingMessage) (*OutgoingMessage, error) {
	sessionID := fmt.Sprintf("tg:%d", msg.ChatID)

	result, err := h.uc.Execute(ctx, usecase.TurnRequest{
		BotID:     h.botID,
		SessionID: sessionID,
		Query:     msg.Text,
	})
	if err != nil {
		return nil, err
	}

	if result.Reply == nil {
		return nil, nil
	}

	return &OutgoingMessage{
		ChatID:    msg.ChatID,
		Text:      MarkdownToTelegramHTML(result.Reply.Text),
		ParseMode: "HTML",
	}, nil
}
