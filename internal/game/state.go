// Package game implements the live state and card rules of a single running
// game: turn order, per-player data, the draw and discard piles, and the
// event-response stack that tracks in-flight card interactions.
package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// Player count limits for a single game.
const (
	MinPlayers = 4
	MaxPlayers = 7
)

// playerState is one seated player's mutable data.
type playerState struct {
	maxHealth int
	health    int
	hand      []protocol.Card
	field     []protocol.Card
	character protocol.Character
	role      protocol.Role
	alive     bool
}

// State is the full state of one running game. It belongs to exactly one
// session and is created once at game start. All exported methods are safe
// for concurrent use; unexported helpers assume the caller holds mu.
type State struct {
	mu          sync.RWMutex
	round       int
	turnIndex   int
	playerOrder []string
	players     map[string]*playerState
	deck        []protocol.Card
	discard     []protocol.Card
	stack       *EventStack
	logger      *zap.Logger
}

// NewState deals a fresh game for the given clients: hidden roles, shuffled
// seating order, and a starting hand sized to each player's health. Round 0
// is the grace period during which damaging cards are rejected.
func NewState(clientIDs []string, logger *zap.Logger) (*State, error) {
	count := len(clientIDs)
	if count < MinPlayers || count > MaxPlayers {
		return nil, fmt.Errorf("cannot play with less than %d players or more than %d", MinPlayers, MaxPlayers)
	}

	roles := rolesForPlayerCount(count)
	rand.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })
	// The sheriff is always seated first and opens the game.
	roles = append([]protocol.Role{protocol.RoleSheriff}, roles...)

	order := append([]string(nil), clientIDs...)
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	state := &State{
		round:       0,
		turnIndex:   0,
		playerOrder: order,
		players:     make(map[string]*playerState, count),
		deck:        GenerateDeck(),
		stack:       NewEventStack(),
		logger:      logger,
	}

	for i, id := range order {
		character := protocol.CharacterBillyTheKid
		hp := int(CharacterByID(character).HP)
		state.players[id] = &playerState{
			maxHealth: hp,
			health:    hp,
			character: character,
			role:      roles[i],
			alive:     true,
		}
	}

	// Opening hands: one card per point of health.
	for _, id := range order {
		player := state.players[id]
		player.hand = append(player.hand, state.draw(player.health)...)
	}

	return state, nil
}

// rolesForPlayerCount returns the non-sheriff role pool for a player count.
// 4: 1 Renegade, 2 Outlaws. 5: +Deputy. 6: +Outlaw. 7: +Deputy.
func rolesForPlayerCount(count int) []protocol.Role {
	roles := []protocol.Role{protocol.RoleRenegade, protocol.RoleOutlaw, protocol.RoleOutlaw}
	if count >= 5 {
		roles = append(roles, protocol.RoleDeputy)
	}
	if count >= 6 {
		roles = append(roles, protocol.RoleOutlaw)
	}
	if count >= 7 {
		roles = append(roles, protocol.RoleDeputy)
	}
	return roles
}

// GameData returns the public game summary shared with the whole session.
func (s *State) GameData() *protocol.GameData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &protocol.GameData{
		Round:       s.round,
		TurnIndex:   s.turnIndex,
		PlayerOrder: append([]string(nil), s.playerOrder...),
		Discard:     append([]protocol.Card(nil), s.discard...),
	}
}

// PlayerView returns a copy of one player's private data.
func (s *State) PlayerView(clientID string) (*protocol.PlayerData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[clientID]
	if !ok {
		return nil, false
	}
	return &protocol.PlayerData{
		MaxHealth: player.maxHealth,
		Health:    player.health,
		Hand:      append([]protocol.Card(nil), player.hand...),
		Field:     append([]protocol.Card(nil), player.field...),
		Character: player.character,
		Role:      player.role,
		Alive:     player.alive,
	}, true
}

// PlayerOrder returns a copy of the seating order fixed at game start.
func (s *State) PlayerOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.playerOrder...)
}

// ActivePlayer returns the client whose turn it currently is.
func (s *State) ActivePlayer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerOrder[s.turnIndex]
}

// IsPlayerTurn reports whether the given client holds the current turn.
func (s *State) IsPlayerTurn(clientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerOrder[s.turnIndex] == clientID
}

// AdvanceTurn moves the turn to the next living seat and returns the new
// active player. The round counter increments each time the order wraps,
// which is what eventually ends the opening grace period.
func (s *State) AdvanceTurn() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < len(s.playerOrder); i++ {
		s.turnIndex = (s.turnIndex + 1) % len(s.playerOrder)
		if s.turnIndex == 0 {
			s.round++
		}
		if player, ok := s.players[s.playerOrder[s.turnIndex]]; ok && player.alive {
			break
		}
	}
	return s.playerOrder[s.turnIndex]
}

// ResponsePending reports whether a card interaction is awaiting responses.
func (s *State) ResponsePending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.stack.IsEmpty()
}

// ExpectedRespondents returns the players allowed to answer the top of the
// event-response stack, or nil when nothing is pending.
func (s *State) ExpectedRespondents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, ok := s.stack.Peek()
	if !ok {
		return nil
	}
	return frame.Respondents()
}

// isGracePeriod reports whether damaging cards are still forbidden.
// Caller must hold mu.
func (s *State) isGracePeriod() bool {
	return s.round == 0
}

// isPlayerTurnLocked is IsPlayerTurn for callers already holding mu.
func (s *State) isPlayerTurnLocked(clientID string) bool {
	return s.playerOrder[s.turnIndex] == clientID
}

// playerOwnsCards reports whether every named card sits in the player's hand
// or field. Caller must hold mu.
func (s *State) playerOwnsCards(clientID string, cards []protocol.Card) bool {
	player, ok := s.players[clientID]
	if !ok {
		return false
	}
	for _, card := range cards {
		if !containsCard(player.hand, card) && !containsCard(player.field, card) {
			return false
		}
	}
	return true
}

// distance computes the hop count between two alive players, skipping dead
// seats entirely: it is the minimum of the clockwise and counter-clockwise
// walks over the currently-alive subsequence of the seating order.
// Caller must hold mu.
func (s *State) distance(fromID, toID string) (int, error) {
	alive := make([]string, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		if player, ok := s.players[id]; ok && player.alive {
			alive = append(alive, id)
		}
	}

	fromPos, toPos := -1, -1
	for i, id := range alive {
		switch id {
		case fromID:
			fromPos = i
		case toID:
			toPos = i
		}
	}
	if fromPos == -1 || toPos == -1 {
		return 0, fmt.Errorf("player not alive in this game")
	}

	n := len(alive)
	clockwise := ((toPos - fromPos) % n + n) % n
	counter := ((fromPos - toPos) % n + n) % n
	if counter < clockwise {
		return counter, nil
	}
	return clockwise, nil
}

// weaponRange is how far the player can target an unmodified attack.
// Caller must hold mu.
func (s *State) weaponRange(clientID string) int {
	return 1
}

// removeCards takes the given cards out of a player's hand and field by
// value. Caller must hold mu.
func (s *State) removeCards(clientID string, cards []protocol.Card) {
	player, ok := s.players[clientID]
	if !ok {
		s.logger.Error("cannot remove cards for unknown player", zap.String("client_id", clientID))
		return
	}
	player.hand = withoutCards(player.hand, cards)
	player.field = withoutCards(player.field, cards)
}

// addToHand appends cards to a player's hand. Caller must hold mu.
func (s *State) addToHand(clientID string, cards []protocol.Card) {
	player, ok := s.players[clientID]
	if !ok {
		s.logger.Error("cannot add cards for unknown player", zap.String("client_id", clientID))
		return
	}
	player.hand = append(player.hand, cards...)
}

// discardCards places spent cards on the discard pile. Caller must hold mu.
func (s *State) discardCards(cards []protocol.Card) {
	s.discard = append(s.discard, cards...)
}

// draw pops up to n cards from the top of the deck. Caller must hold mu.
func (s *State) draw(n int) []protocol.Card {
	if n > len(s.deck) {
		n = len(s.deck)
	}
	top := len(s.deck) - n
	drawn := append([]protocol.Card(nil), s.deck[top:]...)
	s.deck = s.deck[:top]
	return drawn
}

// applyDamage subtracts health from a player, flooring at zero, and marks
// them dead if they reach it. Returns the new health. Caller must hold mu.
func (s *State) applyDamage(clientID string, amount int) int {
	player, ok := s.players[clientID]
	if !ok {
		s.logger.Error("cannot damage unknown player", zap.String("client_id", clientID))
		return 0
	}
	player.health -= amount
	if player.health <= 0 {
		player.health = 0
		player.alive = false
	}
	return player.health
}

// heal restores health to a player, capped at their maximum.
// Caller must hold mu.
func (s *State) heal(clientID string, amount int) int {
	player, ok := s.players[clientID]
	if !ok {
		s.logger.Error("cannot heal unknown player", zap.String("client_id", clientID))
		return 0
	}
	player.health += amount
	if player.health > player.maxHealth {
		player.health = player.maxHealth
	}
	return player.health
}

// aliveCount returns how many players are still standing. Caller must hold mu.
func (s *State) aliveCount() int {
	count := 0
	for _, player := range s.players {
		if player.alive {
			count++
		}
	}
	return count
}

func containsCard(cards []protocol.Card, card protocol.Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

func withoutCards(cards []protocol.Card, remove []protocol.Card) []protocol.Card {
	kept := cards[:0]
	for _, c := range cards {
		if !containsCard(remove, c) {
			kept = append(kept, c)
		}
	}
	return kept
}
