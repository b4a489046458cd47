// Package session holds per-conversation memory. Each session owns an
// isolated append-only transcript guarded by its own mutex, so concurrent
// queries on different conversations never share state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// Session is one conversation's memory.
type Session struct {
	id        string
	createdAt time.Time

	mu    sync.Mutex
	turns []models.ConversationTurn
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// History returns a copy of the transcript so far.
func (s *Session) History() []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// AppendExchange records one resolved question and answer pair.
func (s *Session) AppendExchange(query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns,
		models.ConversationTurn{Role: models.RoleUser, Content: query},
		models.ConversationTurn{Role: models.RoleAssistant, Content: answer},
	)
}

// Len returns the number of recorded turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Manager creates and resolves sessions by identifier.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating a fresh one when id is empty or
// unknown. Unknown non-empty ids are honored as the new session's id so a
// client can resume after a server restart without losing its handle.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	s := &Session{id: id, createdAt: time.Now()}
	m.sessions[id] = s
	return s
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
