package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// AppName is the canonical application name.
const AppName = "clause"

// WorkspaceDirName is the directory name used for workspace-level config.
// Place .clause/ in a project root for project-specific overrides.
const WorkspaceDirName = "." + AppName

// HomeDir returns the user's configuration home: ~/.clause
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+AppName)
}

// Bootstrap ensures the ~/.clause directory exists with default content.
// Called once at startup. Safe to call multiple times — only creates
// missing items, never overwrites a user's edits.
func Bootstrap(logger *zap.Logger) error {
	root := HomeDir()

	dirs := []string{
		root,
		filepath.Join(root, "bots"),
		filepath.Join(root, "logs"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(root, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
			logger.Warn("failed to write default config", zap.String("path", configPath), zap.Error(err))
		} else {
			logger.Info("bootstrap complete", zap.String("home", root))
			return nil
		}
	}

	logger.Debug("home directory OK", zap.String("home", root))
	return nil
}

const defaultConfig = `# clause configuration — auto-generated on first launch, edit freely.

# ─── Gateway Server ──────────────────────────────────────────
# HTTP API server settings: classify, chat, sysdicts endpoints.
gateway:
  host: 0.0.0.0
  port: 18789
  mode: local                  # local | production

# ─── Sysdict Resolution Service ──────────────────────────────
# External service that resolves system-dictionary entities
# (dates, numbers, locations) the CRF/trie core can't validate alone.
sysdict:
  base_url: "http://localhost:18790"
  timeout: 5

# ─── Telegram Bot ─────────────────────────────────────────────
# Leave bot_token empty to disable the Telegram transport. bot_id must
# match one of the bots listed below.
telegram:
  bot_id: ""
  bot_token: ""
  allow_ids: []
  mode: polling                # not read: the adapter always long-polls
  dm_policy: allowlist         # allowlist | open
  group_policy: allowlist      # allowlist | open

# ─── Database ─────────────────────────────────────────────────
# Backs the dictionary-word KV store and, optionally, persisted sessions.
database:
  type: sqlite                 # sqlite | postgres
  dsn: clause.db

# ─── Logging ──────────────────────────────────────────────────
log:
  level: info                  # debug | info | warn | error
  format: json                 # json | console

# ─── Bots ─────────────────────────────────────────────────────
# One entry per bot this process serves. dir holds its compiled
# bundle: corpus.bin, ner.model, dictwords.trie.bin, profile.pbs.
bots: []
# Example:
# bots:
#   - id: booking
#     build_version: "2026-07-01"
#     dir: "/var/lib/clause/bots/booking"
`
