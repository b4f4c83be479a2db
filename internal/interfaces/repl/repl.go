// Package repl implements a local terminal loop for exercising one
// loaded bot bundle turn by turn, without standing up any transport
// (run as "gateway repl <bot_id>").
package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chatopera/clause/internal/application/usecase"
)

// Config names the bot and session this REPL drives.
type Config struct {
	BotID     string
	SessionID string
}

// REPL is an interactive command loop over a ProcessTurnUseCase.
type REPL struct {
	uc  *usecase.ProcessTurnUseCase
	cfg Config
}

// New creates a REPL against uc for cfg.BotID. SessionID defaults to
// "repl" when unset, so a single terminal session persists slot state
// across turns the way any other transport's session would.
func New(uc *usecase.ProcessTurnUseCase, cfg Config) *REPL {
	if cfg.SessionID == "" {
		cfg.SessionID = "repl"
	}
	return &REPL{uc: uc, cfg: cfg}
}

// Run reads lines from stdin until EOF or /exit, feeding each one
// through the use case and printing the resulting reply.
func (r *REPL) Run(ctx context.Context) error {
	r.printBanner()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("%s> ", r.cfg.BotID)

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" || input == "/quit" {
			break
		}

		if err := r.processTurn(ctx, input); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	fmt.Println("\ngoodbye")
	return nil
}

func (r *REPL) processTurn(ctx context.Context, query string) error {
	result, err := r.uc.Execute(ctx, usecase.TurnRequest{
		BotID:     r.cfg.BotID,
		SessionID: r.cfg.SessionID,
		Query:     query,
	})
	if err != nil {
		return err
	}

	if result.Reply == nil {
		fmt.Println("bot> (no matched intent)")
		return nil
	}

	fmt.Printf("bot> %s\n", result.Reply.Text)
	if result.Resolved {
		fmt.Printf("     [intent=%s resolved]\n", result.Session.IntentName)
	} else if result.Reply.IsProactive {
		fmt.Printf("     [intent=%s awaiting slot]\n", result.Session.IntentName)
	}

	return nil
}

func (r *REPL) printBanner() {
	fmt.Printf("clause repl — bot %q, session %q. /exit to quit.\n\n", r.cfg.BotID, r.cfg.SessionID)
}
