package game

import (
	"testing"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap/zaptest"
)

// newTestState builds a game past the grace period with five health per
// player, empty hands, and a shuffled deck. Tests mutate it directly.
func newTestState(t *testing.T, ids ...string) *State {
	t.Helper()

	st := &State{
		round:       1,
		turnIndex:   0,
		playerOrder: append([]string(nil), ids...),
		players:     make(map[string]*playerState, len(ids)),
		deck:        GenerateDeck(),
		stack:       NewEventStack(),
		logger:      zaptest.NewLogger(t),
	}
	for _, id := range ids {
		st.players[id] = &playerState{
			maxHealth: 5,
			health:    5,
			character: protocol.CharacterBillyTheKid,
			role:      protocol.RoleOutlaw,
			alive:     true,
		}
	}
	st.players[ids[0]].role = protocol.RoleSheriff
	return st
}

func testCard(name protocol.CardName) protocol.Card {
	return protocol.Card{Name: name, Suit: protocol.SuitClubs, Rank: protocol.Rank1}
}

// giveCards puts cards into a player's hand.
func giveCards(st *State, id string, cards ...protocol.Card) {
	st.players[id].hand = append(st.players[id].hand, cards...)
}
