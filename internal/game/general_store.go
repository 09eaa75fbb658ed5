package game

import (
	"fmt"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// generalStoreCard deals a shared face-up pool that every other player picks
// from in seating order, starting with the player after the initiator.
type generalStoreCard struct{}

func (generalStoreCard) Color() CardColor           { return ColorBrown }
func (generalStoreCard) RespondsTo() []EventTrigger { return nil }
func (generalStoreCard) Triggers() []EventTrigger   { return []EventTrigger{TriggerDraw} }

func (generalStoreCard) Requirements(s *State, userID string, cards []protocol.Card, targets []string) error {
	return nil
}

func (generalStoreCard) Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	s.removeCards(userID, cards)
	s.discardCards(cards)

	// Chooser rotation: every other alive player, starting just past the
	// initiator, one face-up option per chooser.
	queue := make([]string, 0, len(s.playerOrder)-1)
	start := 0
	for i, id := range s.playerOrder {
		if id == userID {
			start = i
			break
		}
	}
	for offset := 1; offset < len(s.playerOrder); offset++ {
		id := s.playerOrder[(start+offset)%len(s.playerOrder)]
		if player, ok := s.players[id]; ok && player.alive {
			queue = append(queue, id)
		}
	}

	options := s.draw(len(queue))
	s.stack.Push(NewGeneralStoreFrame(userID, options, queue))

	outbox := Outbox{}
	if len(queue) == 0 {
		// Nobody left to pick; nothing to wait for.
		s.stack.Pop()
		return outbox
	}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s choosing a Card from the General Store.", queue[0])).
			ClientID(queue[0]).
			CardOptions(options).
			Build())
	return outbox
}

func (generalStoreCard) Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	frame, ok := s.stack.Peek()
	store, isStore := frame.(*GeneralStoreFrame)
	if !ok || !isStore {
		s.logger.Error("no General Store frame on the stack for response",
			zap.String("client_id", userID))
		return Outbox{}
	}

	if len(cards) != 1 || !containsCard(store.Options, cards[0]) {
		return Outbox{userID: logicError("Must pick exactly one of the offered cards.")}
	}

	s.addToHand(userID, cards[:1])
	more := store.TakeOption(cards[0])

	outbox := Outbox{}
	if !more {
		// Anything nobody picked stays face-up on the discard pile.
		s.discardCards(store.Options)
		s.stack.Pop()
		outbox.AddAll(s.playerOrder,
			protocol.NewEvent(protocol.ServerEventAction).
				Message(fmt.Sprintf("%s took the last Card; the General Store is closed.", userID)).
				ClientID(userID).
				Build())
		return outbox
	}

	next := store.Queue[0]
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s choosing a Card from the General Store.", next)).
			ClientID(next).
			CardOptions(store.Options).
			Build())
	return outbox
}
