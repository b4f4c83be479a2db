package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the application's fully-resolved configuration.
type Config struct {
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Sysdict  SysdictConfig  `mapstructure:"sysdict"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Bots     []BotConfig    `mapstructure:"bots"`
}

// GatewayConfig is the HTTP transport's listen configuration.
type GatewayConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // local, production
}

// SysdictConfig points at the external system-dictionary resolution
// service.
type SysdictConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// TelegramConfig configures the Telegram transport. BotID names which
// configured bot (see BotConfig) this Telegram bot talks to.
type TelegramConfig struct {
	BotID          string   `mapstructure:"bot_id"`
	BotToken       string   `mapstructure:"bot_token"`
	AllowIDs       []int64  `mapstructure:"allow_ids"`
	Mode           string   `mapstructure:"mode"` // not read: the adapter always long-polls
	DMPolicy       string   `mapstructure:"dm_policy"`
	GroupPolicy    string   `mapstructure:"group_policy"`
	GroupAllowFrom []string `mapstructure:"group_allow_from"`
}

// DatabaseConfig configures the shared GORM connection (dictkv,
// sessionstore).
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres
	DSN  string `mapstructure:"dsn"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BotConfig names one bot this process serves and where its compiled
// bundle lives on disk.
type BotConfig struct {
	ID           string `mapstructure:"id"`
	BuildVersion string `mapstructure:"build_version"`
	Dir          string `mapstructure:"dir"` // directory holding corpus.bin, ner.model, dictwords.trie.bin, profile.pbs
}

// Load loads configuration from, in increasing priority: built-in
// defaults, the global ~/.clause/config.yaml, a project-local
// ./config.yaml (or ./config/config.yaml), then CLAUSE_*-style
// environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	globalDir := filepath.Join(os.Getenv("HOME"), "."+AppName)
	v.AddConfigPath(globalDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read global config: %w", err)
		}
	}

	for _, localDir := range []string{"./config", "."} {
		localPath := filepath.Join(localDir, "config.yaml")
		if _, err := os.Stat(localPath); err == nil {
			v2 := viper.New()
			v2.SetConfigFile(localPath)
			if err := v2.ReadInConfig(); err == nil {
				_ = v.MergeConfigMap(v2.AllSettings())
			}
			break
		}
	}

	v.SetEnvPrefix("CLAUSE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 18789)
	v.SetDefault("gateway.mode", "local")

	v.SetDefault("sysdict.base_url", "http://localhost:18790")
	v.SetDefault("sysdict.timeout", 5)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "clause.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadBotsFile reads a standalone bots.json listing BotConfig entries, for
// deployments that prefer not to embed bot wiring in config.yaml.
func LoadBotsFile(path string) ([]BotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bots file %s: %w", path, err)
	}
	var bots []BotConfig
	if err := json.Unmarshal(data, &bots); err != nil {
		return nil, fmt.Errorf("parse bots file %s: %w", path, err)
	}
	return bots, nil
}
