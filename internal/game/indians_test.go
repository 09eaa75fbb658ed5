package game

import (
	"testing"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndiansSettleEveryOtherPlayer(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	indians := testCard(protocol.CardIndians)
	bang := testCard(protocol.CardBang)
	giveCards(st, "a", indians)
	giveCards(st, "b", bang)

	_, err := st.InitiatePlay("a", []protocol.Card{indians}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c", "d"}, st.ExpectedRespondents())

	// "b" discards a Bang and keeps their health.
	outbox, ok := st.Respond("b", []protocol.Card{bang}, nil)
	require.True(t, ok)
	assert.Equal(t, protocol.ServerEventAction, outbox["b"].EventCode)
	assert.Equal(t, 5, st.players["b"].health)
	assert.Empty(t, st.players["b"].hand)
	assert.ElementsMatch(t, []string{"c", "d"}, st.ExpectedRespondents())

	// "c" has no Bang and takes the hit.
	outbox, ok = st.Respond("c", nil, nil)
	require.True(t, ok)
	assert.Equal(t, protocol.ServerEventDamage, outbox["c"].EventCode)
	assert.Equal(t, 4, st.players["c"].health)
	assert.Equal(t, []string{"d"}, st.ExpectedRespondents())

	// The last respondent closes the interaction.
	_, ok = st.Respond("d", nil, nil)
	require.True(t, ok)
	assert.Equal(t, 4, st.players["d"].health)
	assert.False(t, st.ResponsePending())
}

func TestIndiansRespondentsAnswerInAnyOrder(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	indians := testCard(protocol.CardIndians)
	giveCards(st, "a", indians)

	_, err := st.InitiatePlay("a", []protocol.Card{indians}, nil)
	require.NoError(t, err)

	_, ok := st.Respond("d", nil, nil)
	require.True(t, ok)
	_, ok = st.Respond("b", nil, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, st.ExpectedRespondents())
}

func TestIndiansRejectNonBangAnswer(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	indians := testCard(protocol.CardIndians)
	missed := testCard(protocol.CardMissed)
	giveCards(st, "a", indians)
	giveCards(st, "b", missed)

	_, err := st.InitiatePlay("a", []protocol.Card{indians}, nil)
	require.NoError(t, err)

	outbox, ok := st.Respond("b", []protocol.Card{missed}, nil)
	require.True(t, ok)
	assert.Equal(t, protocol.ServerEventLogicError, outbox["b"].EventCode)
	assert.Equal(t, 5, st.players["b"].health)
	assert.Contains(t, st.players["b"].hand, missed)
	assert.Contains(t, st.ExpectedRespondents(), "b")
}

func TestIndiansBangAnswerRequiresHoldingIt(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	indians := testCard(protocol.CardIndians)
	giveCards(st, "a", indians)

	_, err := st.InitiatePlay("a", []protocol.Card{indians}, nil)
	require.NoError(t, err)

	// "b" claims a Bang they were never dealt.
	bang := testCard(protocol.CardBang)
	outbox, ok := st.Respond("b", []protocol.Card{bang}, nil)
	require.True(t, ok)
	assert.Equal(t, protocol.ServerEventLogicError, outbox["b"].EventCode)

	assert.Equal(t, 5, st.players["b"].health)
	assert.NotContains(t, st.discard, bang)
	assert.Contains(t, st.ExpectedRespondents(), "b")
}

func TestIndiansOnlyNameLivingRespondents(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	st.players["c"].alive = false
	indians := testCard(protocol.CardIndians)
	giveCards(st, "a", indians)

	_, err := st.InitiatePlay("a", []protocol.Card{indians}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "d"}, st.ExpectedRespondents())
}

func TestIndiansRejectedDuringGracePeriod(t *testing.T) {
	st := newTestState(t, "a", "b", "c", "d")
	st.round = 0
	indians := testCard(protocol.CardIndians)
	giveCards(st, "a", indians)

	_, err := st.InitiatePlay("a", []protocol.Card{indians}, nil)
	require.Error(t, err)
	assert.Equal(t, gracePeriodMsg, err.Error())
}
