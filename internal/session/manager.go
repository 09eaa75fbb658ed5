package session

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

// Session IDs are short human-shareable tokens: idLength uppercase letters,
// regenerated on collision against the live registry.
const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 5
)

// Manager is the shared registry of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewManager creates an empty session registry.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Create registers a new session owned by the given client, generating a
// fresh ID until one is unused.
func (m *Manager) Create(ownerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := randomID()
	for _, taken := m.sessions[id]; taken; _, taken = m.sessions[id] {
		id = randomID()
	}

	s := NewSession(id, ownerID)
	m.sessions[id] = s

	m.logger.Info("session created",
		zap.String("session_id", id),
		zap.String("owner", ownerID),
		zap.Int("session_count", len(m.sessions)),
	)
	return s
}

// Get returns a session by ID.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Remove deletes a session (and with it any game state it holds).
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return
	}
	delete(m.sessions, sessionID)

	m.logger.Info("session removed",
		zap.String("session_id", sessionID),
		zap.Int("session_count", len(m.sessions)),
	)
}

// FindByMember returns the session in which the given client holds a seat.
// Used on reconnect, when the client's own back-reference has been lost
// with its previous connection.
func (m *Manager) FindByMember(clientID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.HasMember(clientID) {
			return s, true
		}
	}
	return nil, false
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func randomID() string {
	id := make([]byte, idLength)
	for i := range id {
		id[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(id)
}
