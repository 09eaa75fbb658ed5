package game

import (
	"errors"
	"fmt"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// indiansCard attacks every other player at once: each must discard a Bang
// or take one damage.
type indiansCard struct{}

func (indiansCard) Color() CardColor           { return ColorBrown }
func (indiansCard) RespondsTo() []EventTrigger { return nil }
func (indiansCard) Triggers() []EventTrigger   { return []EventTrigger{TriggerDamage} }

func (indiansCard) Requirements(s *State, userID string, cards []protocol.Card, targets []string) error {
	if s.isGracePeriod() {
		return errors.New(gracePeriodMsg)
	}
	return nil
}

func (indiansCard) Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	s.removeCards(userID, cards)
	s.discardCards(cards)

	respondents := make([]string, 0, len(s.playerOrder)-1)
	for _, id := range s.playerOrder {
		if id == userID {
			continue
		}
		if player, ok := s.players[id]; ok && player.alive {
			respondents = append(respondents, id)
		}
	}
	if len(respondents) != 0 {
		s.stack.Push(NewIndiansFrame(userID, respondents))
	}

	outbox := Outbox{}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s played Indians!", userID)).
			ClientID(userID).
			Build())
	return outbox
}

func (indiansCard) Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	frame, ok := s.stack.Peek()
	indians, isIndians := frame.(*IndiansFrame)
	if !ok || !isIndians {
		s.logger.Error("no Indians frame on the stack for response",
			zap.String("client_id", userID))
		return Outbox{}
	}

	// Answering with a Bang settles the respondent unharmed.
	if len(cards) != 0 {
		if cards[0].Name != protocol.CardBang {
			return Outbox{userID: logicError("Cannot play a non-Bang card for Indians.")}
		}
		if !s.playerOwnsCards(userID, cards) {
			return Outbox{userID: logicError(ErrLacksCards.Error())}
		}
		s.removeCards(userID, cards)
		s.discardCards(cards)
		if !indians.Settle(userID) {
			s.stack.Pop()
		}

		outbox := Outbox{}
		outbox.AddAll(s.playerOrder,
			protocol.NewEvent(protocol.ServerEventAction).
				Message(fmt.Sprintf("%s fought off the Indians!", userID)).
				ClientID(userID).
				Build())
		return outbox
	}

	// No answer: the respondent is settled and takes one damage.
	if !indians.Settle(userID) {
		s.stack.Pop()
	}
	s.applyDamage(userID, 1)

	outbox := Outbox{}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventDamage).
			Message(fmt.Sprintf("%s takes 1 damage!", userID)).
			ClientID(userID).
			HealthChange(-1).
			Build())
	return outbox
}
