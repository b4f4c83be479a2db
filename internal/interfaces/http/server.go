// Package http wires the gin-based transport for the bot facade
// (spec.md §6: "/v1/bots/:bot_id/classify", "/v1/bots/:bot_id/chat").
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chatopera/clause/internal/application/botsvc"
	"github.com/chatopera/clause/internal/domain/session"
	"github.com/chatopera/clause/internal/interfaces/http/handlers"
	"github.com/chatopera/clause/internal/interfaces/websocket"
)

// Config is the HTTP server's listen configuration.
type Config struct {
	Host string
	Port int
	Mode string // local, production ("production" selects gin release mode)
}

// Server hosts the bot facade's HTTP transport.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer builds the gin router and HTTP server for registry. wsHandler
// is optional; when non-nil it is mounted at /ws for the streaming chat
// channel.
func NewServer(cfg Config, registry *botsvc.Registry, sessions *session.Store, wsHandler *websocket.Handler, logger *zap.Logger) *Server {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logger))

	botHandler := handlers.NewBotHandler(registry, sessions, logger)
	debugHandler := handlers.NewDebugHandler(logger)

	setupRoutes(router, botHandler, debugHandler)

	if wsHandler != nil {
		router.GET("/ws", func(c *gin.Context) {
			wsHandler.ServeWS(c.Writer, c.Request)
		})
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return &Server{
		server: &http.Server{Addr: addr, Handler: router},
		logger: logger,
	}
}

// Start runs the server in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

func setupRoutes(router *gin.Engine, botHandler *handlers.BotHandler, debugHandler *handlers.DebugHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	v1 := router.Group("/v1")
	{
		bots := v1.Group("/bots/:bot_id")
		bots.POST("/classify", botHandler.Classify)
		bots.POST("/chat", botHandler.Chat)
		bots.GET("/sessions/:session_id/sysdicts", botHandler.SysdictPending)
	}

	handlers.RegisterDebugRoutes(router.Group("/v1"), debugHandler)
}

func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
