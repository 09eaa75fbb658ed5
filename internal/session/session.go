// Package session groups clients into lobbies and owns each lobby's game
// state once a game starts.
package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/bangfree/bang-server-go/internal/game"
)

// ErrGameInProgress is returned when a game is already attached to the
// session.
var ErrGameInProgress = errors.New("a game is already in progress")

// Session is one lobby: its members (active or soft-disconnected), its
// owner, and the game state once a game has started.
type Session struct {
	ID string

	mu      sync.RWMutex
	owner   string
	members map[string]bool // client id -> active
	game    *game.State
}

// NewSession creates a session with the given client as sole active member
// and owner.
func NewSession(id, ownerID string) *Session {
	return &Session{
		ID:      id,
		owner:   ownerID,
		members: map[string]bool{ownerID: true},
	}
}

// Owner returns the current session owner.
func (s *Session) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// SetOwner reassigns session ownership.
func (s *Session) SetOwner(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = clientID
}

// AddMember seats a client in the session as active. Seating is refused once
// a game is attached, since the dealt order is fixed; the membership check
// and the seat share the session lock, so a join can never slip in between a
// deal's member snapshot and the game attach.
func (s *Session) AddMember(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game != nil {
		return false
	}
	s.members[clientID] = true
	return true
}

// RemoveMember unseats a client entirely (hard leave).
func (s *Session) RemoveMember(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, clientID)
}

// HasMember reports whether a client holds a seat, active or not.
func (s *Session) HasMember(clientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[clientID]
	return ok
}

// SetMemberActive flips a seated member between active and
// soft-disconnected. Unknown members are ignored.
func (s *Session) SetMemberActive(clientID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[clientID]; ok {
		s.members[clientID] = active
	}
}

// MemberIDs returns every seated client, in stable order.
func (s *Session) MemberIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memberIDsLocked()
}

func (s *Session) memberIDsLocked() []string {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveMemberIDs returns the seated clients whose status is active.
func (s *Session) ActiveMemberIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.members))
	for id, active := range s.members {
		if active {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// MemberCount returns the number of seats, active or not.
func (s *Session) MemberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Game returns the session's game state, or nil before StartGame.
func (s *Session) Game() *game.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

// DealGame snapshots the membership, deals a game for exactly those members,
// and attaches it — all under one hold of the session lock. The members the
// game was dealt for are returned alongside the state; a deal error leaves
// the session game-less.
func (s *Session) DealGame(deal func(members []string) (*game.State, error)) (*game.State, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != nil {
		return nil, nil, ErrGameInProgress
	}
	members := s.memberIDsLocked()
	state, err := deal(members)
	if err != nil {
		return nil, members, err
	}
	s.game = state
	return state, members, nil
}
