package game

import (
	"testing"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeerHealsOnePoint(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	st.players["a"].health = 3
	beer := testCard(protocol.CardBeer)
	giveCards(st, "a", beer)

	outbox, err := st.InitiatePlay("a", []protocol.Card{beer}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, st.players["a"].health)
	assert.Equal(t, protocol.ServerEventAction, outbox["a"].EventCode)
	assert.Equal(t, 1, outbox["a"].Data.HealthChange)
	assert.Contains(t, st.discard, beer)
	assert.False(t, st.ResponsePending())
}

func TestBeerRejectedAtFullHealth(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	beer := testCard(protocol.CardBeer)
	giveCards(st, "a", beer)

	_, err := st.InitiatePlay("a", []protocol.Card{beer}, nil)
	require.Error(t, err)
	assert.Equal(t, "Cannot play a Beer at full health.", err.Error())
	assert.Contains(t, st.players["a"].hand, beer)
}

func TestBeerAllowedDuringGracePeriod(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	st.round = 0
	st.players["a"].health = 4
	beer := testCard(protocol.CardBeer)
	giveCards(st, "a", beer)

	_, err := st.InitiatePlay("a", []protocol.Card{beer}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 5, st.players["a"].health)
}
