package websocket

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chatopera/clause/internal/application/usecase"
)

// NewChatHub wires hub's message handler to uc: every chat frame a
// client sends runs one ProcessTurnUseCase turn against (client.BotID,
// client.SessionID), and the reply streams back on the same connection.
func NewChatHub(uc *usecase.ProcessTurnUseCase, logger *zap.Logger) *Hub {
	hub := NewHub(logger)
	hub.SetMessageHandler(func(client *Client, msg *WSMessage) {
		if msg.Type != MessageTypeChat {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := uc.Execute(ctx, usecase.TurnRequest{
			BotID:     client.BotID,
			SessionID: client.SessionID,
			Query:     msg.Content,
		})
		if err != nil {
			client.SendMessage(&WSMessage{Type: MessageTypeError, Content: err.Error(), SessionID: client.SessionID})
			return
		}

		reply := WSMessage{
			Type:      MessageTypeReply,
			SessionID: client.SessionID,
			Resolved:  result.Resolved,
		}
		if result.Reply != nil {
			reply.Content = result.Reply.Text
			reply.IsProactive = result.Reply.IsProactive
		}
		if result.Session != nil {
			reply.IntentName = result.Session.IntentName
		}
		client.SendMessage(&reply)
	})
	return hub
}
