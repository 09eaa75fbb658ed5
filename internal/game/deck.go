package game

import (
	"math/rand"

	"github.com/bangfree/bang-server-go/internal/protocol"
)

// deckTemplate is one repetition of the draw deck. The full deck is several
// copies of this set, shuffled.
var deckTemplate = []protocol.Card{
	{Name: protocol.CardBang, Suit: protocol.SuitClubs, Rank: protocol.Rank1},
	{Name: protocol.CardBang, Suit: protocol.SuitDiamonds, Rank: protocol.Rank2},
	{Name: protocol.CardMissed, Suit: protocol.SuitHearts, Rank: protocol.Rank1},
	{Name: protocol.CardMissed, Suit: protocol.SuitSpades, Rank: protocol.Rank2},
	{Name: protocol.CardIndians, Suit: protocol.SuitDiamonds, Rank: protocol.Rank1},
	{Name: protocol.CardDuel, Suit: protocol.SuitDiamonds, Rank: protocol.Rank3},
	{Name: protocol.CardGeneralStore, Suit: protocol.SuitDiamonds, Rank: protocol.Rank4},
	{Name: protocol.CardBeer, Suit: protocol.SuitHearts, Rank: protocol.Rank6},
}

const deckRepetitions = 10

// GenerateDeck creates a freshly shuffled draw deck. The top of the deck is
// the end of the slice; drawing pops from the back.
func GenerateDeck() []protocol.Card {
	deck := make([]protocol.Card, 0, len(deckTemplate)*deckRepetitions)
	for i := 0; i < deckRepetitions; i++ {
		deck = append(deck, deckTemplate...)
	}
	ShuffleDeck(deck)
	return deck
}

// ShuffleDeck shuffles a pile of cards in place.
func ShuffleDeck(deck []protocol.Card) {
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}
