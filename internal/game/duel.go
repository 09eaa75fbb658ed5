package game

import (
	"errors"
	"fmt"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// duelCard locks two players into alternating Bang discards; the first one
// unable to answer takes one damage.
type duelCard struct{}

func (duelCard) Color() CardColor           { return ColorBrown }
func (duelCard) RespondsTo() []EventTrigger { return nil }
func (duelCard) Triggers() []EventTrigger   { return []EventTrigger{TriggerDamage} }

func (duelCard) Requirements(s *State, userID string, cards []protocol.Card, targets []string) error {
	if s.isGracePeriod() {
		return errors.New(gracePeriodMsg)
	}
	if len(targets) != 1 {
		return errors.New("Incorrect number of Targets for a Duel.")
	}
	if targets[0] == userID {
		return errors.New("Cannot Duel yourself.")
	}
	return nil
}

func (duelCard) Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	target := targets[0]

	s.removeCards(userID, cards)
	s.discardCards(cards)
	s.stack.Push(NewDuelFrame(userID, target))

	outbox := Outbox{}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s challenged %s to a Duel!", userID, target)).
			ClientID(userID).
			Build())
	outbox[target] = protocol.NewEvent(protocol.ServerEventTargetted).
		Message(fmt.Sprintf("Challenged to a Duel by player %s", userID)).
		ClientID(userID).
		Build()
	return outbox
}

func (duelCard) Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	frame, ok := s.stack.Peek()
	duel, isDuel := frame.(*DuelFrame)
	if !ok || !isDuel {
		s.logger.Error("no Duel frame on the stack for response",
			zap.String("client_id", userID))
		return Outbox{}
	}

	// No answer: the current duelist loses the exchange.
	if len(cards) == 0 {
		s.stack.Pop()
		s.applyDamage(userID, 1)

		outbox := Outbox{}
		outbox.AddAll(s.playerOrder,
			protocol.NewEvent(protocol.ServerEventDamage).
				Message(fmt.Sprintf("%s loses the Duel and takes 1 damage!", userID)).
				ClientID(userID).
				HealthChange(-1).
				Build())
		return outbox
	}

	// Anything but a single Bang is rejected without touching the duel.
	if len(cards) != 1 || cards[0].Name != protocol.CardBang {
		return Outbox{userID: logicError("Can only answer a Duel with a single Bang.")}
	}
	if !s.playerOwnsCards(userID, cards) {
		return Outbox{userID: logicError(ErrLacksCards.Error())}
	}

	s.removeCards(userID, cards)
	s.discardCards(cards)
	next := duel.Alternate()

	outbox := Outbox{}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s answered the Duel; %s must respond", userID, next)).
			ClientID(next).
			Build())
	return outbox
}
