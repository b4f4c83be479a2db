// Package handlers implements the HTTP transport's gin handlers for the
// bot facade (spec.md §6).
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chatopera/clause/internal/application/botsvc"
	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/session"
)

// BotHandler serves /v1/bots/:bot_id/{classify,chat}.
type BotHandler struct {
	registry *botsvc.Registry
	sessions *session.Store
	logger   *zap.Logger
}

// NewBotHandler creates a BotHandler against registry, persisting
// in-flight sessions in an in-memory session.Store keyed by (bot_id, session_id).
func NewBotHandler(registry *botsvc.Registry, sessions *session.Store, logger *zap.Logger) *BotHandler {
	return &BotHandler{registry: registry, sessions: sessions, logger: logger}
}

type classifyRequest struct {
	Query string `json:"query" binding:"required"`
}

type classifyResponse struct {
	IntentName string `json:"intent_name,omitempty"`
	Matched    bool   `json:"matched"`
}

// Classify implements POST /v1/bots/:bot_id/classify.
func (h *BotHandler) Classify(c *gin.Context) {
	botID := c.Param("bot_id")
	b, err := h.registry.MustGet(botID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := b.Tokenize(c.Request.Context(), req.Query)
	if err != nil {
		h.logger.Error("tokenize failed", zap.String("bot_id", botID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	intentName, matched, err := b.Classify(c.Request.Context(), tokens)
	if err != nil {
		h.logger.Error("classify failed", zap.String("bot_id", botID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, classifyResponse{IntentName: intentName, Matched: matched})
}

type chatRequest struct {
	SessionID string              `json:"session_id" binding:"required"`
	Query     string              `json:"query" binding:"required"`
	Builtins  []sysdictEntityJSON `json:"builtins"`
}

type sysdictEntityJSON struct {
	DictName string `json:"dict_name"`
	Val      string `json:"val"`
}

type chatResponse struct {
	Reply       string `json:"reply,omitempty"`
	IsProactive bool   `json:"is_proactive"`
	Resolved    bool   `json:"resolved"`
	IntentName  string `json:"intent_name,omitempty"`
}

// Chat implements POST /v1/bots/:bot_id/chat.
func (h *BotHandler) Chat(c *gin.Context) {
	botID := c.Param("bot_id")
	b, err := h.registry.MustGet(botID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	builtins := make([]bot.SysdictEntity, len(req.Builtins))
	for i, be := range req.Builtins {
		builtins[i] = bot.SysdictEntity{DictName: be.DictName, Val: be.Val}
	}

	sess := h.sessions.GetOrCreate(botID, req.SessionID)

	result, err := b.Chat(c.Request.Context(), req.Query, builtins, sess)
	if err != nil {
		if errors.Is(err, bot.ErrNoMatchedIntent) {
			c.JSON(http.StatusOK, chatResponse{})
			return
		}
		h.logger.Error("chat failed", zap.String("bot_id", botID), zap.String("session_id", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := chatResponse{
		Resolved:   result.Resolved,
		IntentName: sess.IntentName,
	}
	if result.Reply != nil {
		resp.Reply = result.Reply.Text
		resp.IsProactive = result.Reply.IsProactive
	}

	c.JSON(http.StatusOK, resp)
}

// SysdictPending implements GET /v1/bots/:bot_id/sessions/:session_id/sysdicts,
// listing the still-unresolved system-dictionary entities a caller must
// round-trip through the external resolution service before the next Chat
// call (spec.md §6, §10). query is the most recent user utterance for
// that session, passed as a query parameter since the raw text is what
// the external resolver needs alongside the pending dict_names.
func (h *BotHandler) SysdictPending(c *gin.Context) {
	botID := c.Param("bot_id")
	sessionID := c.Param("session_id")
	query := c.Query("query")

	b, err := h.registry.MustGet(botID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	sess := h.sessions.GetOrCreate(botID, sessionID)
	pending := b.PatchSysdictsRequestEntities(query, sess)

	c.JSON(http.StatusOK, gin.H{"entities": pending, "timestamp": time.Now().Unix()})
}
