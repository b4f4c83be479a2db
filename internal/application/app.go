// Package application wires the domain and infrastructure layers into a
// runnable process: one bundle.Manager per configured bot, the bot
// facade registry, the shared session store, and the transports
// (HTTP always, Telegram/WebSocket when configured).
package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatopera/clause/internal/application/botsvc"
	"github.com/chatopera/clause/internal/application/usecase"
	"github.com/chatopera/clause/internal/domain/session"
	"github.com/chatopera/clause/internal/infrastructure/bundle"
	"github.com/chatopera/clause/internal/infrastructure/config"
	"github.com/chatopera/clause/internal/infrastructure/persistence"
	httptransport "github.com/chatopera/clause/internal/interfaces/http"
	"github.com/chatopera/clause/internal/interfaces/telegram"
	"github.com/chatopera/clause/internal/interfaces/websocket"
)

// App owns every long-lived collaborator for one gateway process.
type App struct {
	cfg *config.Config
	log *zap.Logger

	db       *gorm.DB
	managers []*bundle.Manager
	registry *botsvc.Registry
	sessions *session.Store
	useCase  *usecase.ProcessTurnUseCase

	httpServer *httptransport.Server
	wsHub      *websocket.Hub
	tgAdapter  *telegram.Adapter
}

// NewApp loads every configured bot's bundle and wires the transports,
// but does not start listening — call Start for that.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := persistence.NewDBConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("application: database: %w", err)
	}

	registry := botsvc.NewRegistry()
	sessions := session.NewStore()

	var managers []*bundle.Manager
	ctx := context.Background()
	for _, bc := range cfg.Bots {
		mgr, err := bundle.NewManager(ctx, bc.ID, bc.BuildVersion, bc.Dir, db, log)
		if err != nil {
			return nil, fmt.Errorf("application: load bot %q: %w", bc.ID, err)
		}
		managers = append(managers, mgr)
		registry.Register(bc.ID, botsvc.New(mgr))
	}

	useCase := usecase.NewProcessTurnUseCase(registry, sessions, log)

	wsHub := websocket.NewChatHub(useCase, log)
	wsHandler := websocket.NewHandler(wsHub, log)

	httpServer := httptransport.NewServer(httptransport.Config{
		Host: cfg.Gateway.Host,
		Port: cfg.Gateway.Port,
		Mode: cfg.Gateway.Mode,
	}, registry, sessions, wsHandler, log)

	var tgAdapter *telegram.Adapter
	if cfg.Telegram.BotToken != "" {
		tgAdapter, err = telegram.NewAdapter(&telegram.Config{
			BotID:          cfg.Telegram.BotID,
			BotToken:       cfg.Telegram.BotToken,
			AllowedUserIDs: cfg.Telegram.AllowIDs,
			DMPolicy:       cfg.Telegram.DMPolicy,
			GroupPolicy:    cfg.Telegram.GroupPolicy,
			GroupAllowFrom: cfg.Telegram.GroupAllowFrom,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("application: telegram: %w", err)
		}
		tgAdapter.SetMessageHandler(telegram.NewTurnHandler(useCase, cfg.Telegram.BotID))
	}

	return &App{
		cfg:        cfg,
		log:        log,
		db:         db,
		managers:   managers,
		registry:   registry,
		sessions:   sessions,
		useCase:    useCase,
		httpServer: httpServer,
		wsHub:      wsHub,
		tgAdapter:  tgAdapter,
	}, nil
}

// Start brings up the HTTP transport (which also serves the WebSocket
// chat channel at /ws) and, when configured, the Telegram transport.
func (a *App) Start(ctx context.Context) error {
	go a.wsHub.Run(ctx)

	if err := a.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("application: start http: %w", err)
	}

	if a.tgAdapter != nil {
		if err := a.tgAdapter.Start(ctx); err != nil {
			return fmt.Errorf("application: start telegram: %w", err)
		}
	}

	a.log.Info("application started", zap.Int("bots", len(a.managers)))
	return nil
}

// Stop tears down the HTTP transport and every loaded bundle, in reverse
// order of acquisition.
func (a *App) Stop(ctx context.Context) error {
	if a.tgAdapter != nil {
		a.tgAdapter.Stop()
	}

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("stop http failed", zap.Error(err))
	}

	for i := len(a.managers) - 1; i >= 0; i-- {
		if err := a.managers[i].Close(); err != nil {
			a.log.Error("close bundle manager failed", zap.Error(err))
		}
	}

	return nil
}

// ProcessTurnUseCase returns the orchestration path transports drive
// (REPL, Telegram, WebSocket).
func (a *App) ProcessTurnUseCase() *usecase.ProcessTurnUseCase {
	return a.useCase
}

// Registry returns the bot facade registry.
func (a *App) Registry() *botsvc.Registry {
	return a.registry
}

// Logger returns the process-wide logger.
func (a *App) Logger() *zap.Logger {
	return a.log
}
