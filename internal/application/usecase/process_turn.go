// Package usecase holds the orchestration shared by every transport: load
// the session, run the dialog core through a bot's facade, persist the
// session. It replaces the teacher's LLM-oriented ProcessMessageUseCase
// with the same load-run-persist shape against this domain's core.
package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chatopera/clause/internal/application/botsvc"
	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/dialog"
	"github.com/chatopera/clause/internal/domain/session"
)

// SessionStore loads and persists a session across turns. Both
// domain/session.Store (in-memory) and infrastructure/sessionstore.Store
// (GORM-backed) satisfy it.
type SessionStore interface {
	Load(ctx context.Context, botID, sessionID string) (*session.Session, error)
	Save(ctx context.Context, botID, sessionID string, sess *session.Session) error
}

// TurnRequest is one inbound message on any transport.
type TurnRequest struct {
	BotID     string
	SessionID string
	Query     string
	Builtins  []bot.SysdictEntity
}

// TurnResult is what a transport renders back to the user.
type TurnResult struct {
	Session  *session.Session
	Reply    *dialog.Reply
	Resolved bool
}

// ProcessTurnUseCase is the single orchestration path shared by the HTTP,
// Telegram, WebSocket and REPL transports.
type ProcessTurnUseCase struct {
	registry *botsvc.Registry
	sessions SessionStore
	logger   *zap.Logger
}

// NewProcessTurnUseCase wires registry and sessions into a use case.
func NewProcessTurnUseCase(registry *botsvc.Registry, sessions SessionStore, logger *zap.Logger) *ProcessTurnUseCase {
	return &ProcessTurnUseCase{registry: registry, sessions: sessions, logger: logger}
}

// Execute loads req's session, runs one chat turn, and persists the
// resulting session state before returning.
func (uc *ProcessTurnUseCase) Execute(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	b, err := uc.registry.MustGet(req.BotID)
	if err != nil {
		return nil, err
	}

	sess, err := uc.sessions.Load(ctx, req.BotID, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("usecase: load session: %w", err)
	}

	result, err := b.Chat(ctx, req.Query, req.Builtins, sess)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Save(ctx, req.BotID, req.SessionID, sess); err != nil {
		uc.logger.Error("persist session failed",
			zap.String("bot_id", req.BotID),
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
	}

	return &TurnResult{Session: sess, Reply: result.Reply, Resolved: result.Resolved}, nil
}

// Classify runs classification only, without binding or advancing any
// session — used by transports that want a standalone intent probe.
func (uc *ProcessTurnUseCase) Classify(ctx context.Context, botID, query string) (string, bool, error) {
	b, err := uc.registry.MustGet(botID)
	if err != nil {
		return "", false, err
	}

	tokens, err := b.Tokenize(ctx, query)
	if err != nil {
		return "", false, err
	}

	return b.Classify(ctx, tokens)
}
