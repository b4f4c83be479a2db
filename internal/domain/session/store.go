package session

import (
	"context"
	"sync"
)

// Store is a concurrency-safe in-memory keeper of live sessions, keyed by
// (bot_id, session_id). It is the default the HTTP/WebSocket/Telegram
// transports use; a caller wanting persistence across restarts plugs in
// infrastructure/sessionstore alongside or instead of it.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the existing session for (botID, sessionID), or a
// freshly created, unbound one.
func (s *Store) GetOrCreate(botID, sessionID string) *Session {
	key := botID + "\x01" + sessionID
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		sess = New()
		s.sessions[key] = sess
	}
	return sess
}

// Delete drops a session, e.g. once resolved and the caller has consumed
// the result.
func (s *Store) Delete(botID, sessionID string) {
	key := botID + "\x01" + sessionID
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Load satisfies usecase.SessionStore: it never fails, since the backing
// map always produces a session via GetOrCreate.
func (s *Store) Load(ctx context.Context, botID, sessionID string) (*Session, error) {
	return s.GetOrCreate(botID, sessionID), nil
}

// Save satisfies usecase.SessionStore. Sessions are pointers already
// living in the map, so Save only needs to handle the case where the
// caller constructed a detached Session and wants it tracked.
func (s *Store) Save(ctx context.Context, botID, sessionID string, sess *Session) error {
	key := botID + "\x01" + sessionID
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = sess
	return nil
}
