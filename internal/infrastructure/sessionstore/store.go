// Package sessionstore is the optional persisted backing for
// conversation sessions (spec.md §3: session state "may be held in
// memory by the caller, or persisted" — this is the persisted option),
// built on the same GORM wiring dictkv uses.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatopera/clause/internal/domain/session"
)

// NewSessionID mints a session ID for transports that have no natural
// externally-supplied one (a Telegram chat ID or a caller-assigned
// websocket session_id query param both work as-is and should be used
// instead when present).
func NewSessionID() string {
	return uuid.NewString()
}

// Row is the single table this store owns: one row per conversation,
// keyed by bot ID plus an externally assigned session ID (Telegram's
// "tg:<chat_id>", a websocket session_id query parameter or a minted UUID,
// the REPL's fixed "repl").
type Row struct {
	SessionID string `gorm:"primaryKey;column:session_id"`
	BotID     string `gorm:"primaryKey;column:bot_id"`
	StateJSON string `gorm:"column:state_json"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Row) TableName() string { return "sessions" }

// Store persists session.Session values keyed by (bot_id, session_id).
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the session store's table.
func Open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("sessionstore: automigrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns a new session if none is stored yet for sessionID.
func (s *Store) Load(ctx context.Context, botID, sessionID string) (*session.Session, error) {
	var row Row
	err := s.db.WithContext(ctx).
		Where("bot_id = ? AND session_id = ?", botID, sessionID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return session.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessionstore: load %s/%s: %w", botID, sessionID, err)
	}

	sess := session.New()
	if err := json.Unmarshal([]byte(row.StateJSON), sess); err != nil {
		return nil, fmt.Errorf("sessionstore: unmarshal %s/%s: %w", botID, sessionID, err)
	}
	return sess, nil
}

// Save upserts the session's current state.
func (s *Store) Save(ctx context.Context, botID, sessionID string, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("sessionstore: marshal %s/%s: %w", botID, sessionID, err)
	}

	row := Row{
		SessionID: sessionID,
		BotID:     botID,
		StateJSON: string(data),
		UpdatedAt: time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).
		Where(Row{SessionID: sessionID, BotID: botID}).
		Assign(Row{StateJSON: row.StateJSON, UpdatedAt: row.UpdatedAt}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("sessionstore: save %s/%s: %w", botID, sessionID, err)
	}
	return nil
}

// Delete removes a session's persisted state, e.g. when a conversation
// resolves and the caller doesn't need history kept around.
func (s *Store) Delete(ctx context.Context, botID, sessionID string) error {
	err := s.db.WithContext(ctx).
		Where("bot_id = ? AND session_id = ?", botID, sessionID).
		Delete(&Row{}).Error
	if err != nil {
		return fmt.Errorf("sessionstore: delete %s/%s: %w", botID, sessionID, err)
	}
	return nil
}
