package game

import (
	"testing"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiatePlayOutOfTurn(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	beer := testCard(protocol.CardBeer)
	giveCards(st, "b", beer)

	_, err := st.InitiatePlay("b", []protocol.Card{beer}, nil)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestInitiatePlayWithoutCards(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")

	_, err := st.InitiatePlay("a", nil, nil)
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestInitiatePlayUnownedCards(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")

	_, err := st.InitiatePlay("a", []protocol.Card{testCard(protocol.CardBang)}, []string{"b"})
	assert.ErrorIs(t, err, ErrLacksCards)
}

func TestHandleActionRoutesToResponseWhilePending(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	bang := testCard(protocol.CardBang)
	missed := testCard(protocol.CardMissed)
	giveCards(st, "a", bang)
	giveCards(st, "b", missed)

	_, err := st.HandleAction("a", []protocol.Card{bang}, []string{"b"})
	require.NoError(t, err)
	require.True(t, st.ResponsePending())

	// The same entry point now resolves the pending interaction.
	outbox, err := st.HandleAction("b", []protocol.Card{missed}, nil)
	require.NoError(t, err)
	require.NotNil(t, outbox)
	assert.False(t, st.ResponsePending())
}

func TestHandleActionIgnoresUnexpectedResponder(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	bang := testCard(protocol.CardBang)
	giveCards(st, "a", bang)

	_, err := st.HandleAction("a", []protocol.Card{bang}, []string{"b"})
	require.NoError(t, err)

	outbox, err := st.HandleAction("d", nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, outbox)
	assert.True(t, st.ResponsePending())
}

func TestCardByNameCoversTheRulebook(t *testing.T) {
	for _, name := range []protocol.CardName{
		protocol.CardBang,
		protocol.CardMissed,
		protocol.CardIndians,
		protocol.CardDuel,
		protocol.CardGeneralStore,
		protocol.CardBeer,
	} {
		_, ok := CardByName(name)
		assert.True(t, ok, "missing rulebook entry for %s", name)
	}

	_, ok := CardByName(protocol.CardName(200))
	assert.False(t, ok)
}

func TestGenerateDeckComposition(t *testing.T) {
	deck := GenerateDeck()
	assert.Len(t, deck, len(deckTemplate)*deckRepetitions)

	counts := map[protocol.CardName]int{}
	for _, card := range deck {
		counts[card.Name]++
	}
	assert.Equal(t, 2*deckRepetitions, counts[protocol.CardBang])
	assert.Equal(t, 2*deckRepetitions, counts[protocol.CardMissed])
	assert.Equal(t, deckRepetitions, counts[protocol.CardBeer])
}
