package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/melodex/melodex/internal/pipeline"
)

// Session holds one caller's query history. History is prepend-only:
// the newest record is always History()[0]. Nothing is persisted; a
// process restart discards every session.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	history []*pipeline.QueryRecord
}

// Prepend records a completed run at the head of the history.
func (s *Session) Prepend(record *pipeline.QueryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]*pipeline.QueryRecord{record}, s.history...)
}

// History returns a snapshot of the session's records, newest first.
func (s *Session) History() []*pipeline.QueryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*pipeline.QueryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Reset discards the whole history. The session itself survives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// Len returns the number of records in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Manager owns every live session, keyed by generated id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create allocates a new empty session.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Debug().Str("session_id", s.ID).Msg("session created")
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, or a fresh one when id is
// empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	}
	return m.Create()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
