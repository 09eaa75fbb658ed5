package game

import (
	"errors"
	"fmt"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// bangCard is the basic attack: one target within weapon range must answer
// with a Missed or take one damage.
type bangCard struct{}

func (bangCard) Color() CardColor           { return ColorBrown }
func (bangCard) RespondsTo() []EventTrigger { return nil }
func (bangCard) Triggers() []EventTrigger   { return []EventTrigger{TriggerBang, TriggerDamage} }

func (bangCard) Requirements(s *State, userID string, cards []protocol.Card, targets []string) error {
	if s.isGracePeriod() {
		return errors.New(gracePeriodMsg)
	}
	if len(targets) != 1 {
		return errors.New("Wrong number of Targets for a Bang.")
	}
	distance, err := s.distance(userID, targets[0])
	if err != nil {
		return errors.New("Failed to calculate distance between players.")
	}
	if distance > s.weaponRange(userID) {
		return errors.New("Target out of range.")
	}
	return nil
}

func (bangCard) Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	target := targets[0]

	s.removeCards(userID, cards)
	s.discardCards(cards)
	s.stack.Push(NewBangFrame(userID, target))

	outbox := Outbox{}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s was targetted by a Bang from player %s", target, userID)).
			ClientID(userID).
			Build())
	outbox[target] = protocol.NewEvent(protocol.ServerEventTargetted).
		Message(fmt.Sprintf("Targetted by a Bang from player %s", userID)).
		ClientID(userID).
		Build()
	return outbox
}

func (b bangCard) Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	// A card was offered in evasion; it must be a valid answer to a Bang.
	if len(cards) != 0 {
		played, ok := CardByName(cards[0].Name)
		if !ok {
			s.logger.Error("no rulebook entry for response card",
				zap.String("card", cards[0].Name.String()))
			return Outbox{}
		}
		if !respondsTo(played, TriggerBang) {
			return Outbox{userID: logicError("Cannot answer a Bang with that card.")}
		}
		if !s.playerOwnsCards(userID, cards) {
			return Outbox{userID: logicError(ErrLacksCards.Error())}
		}
		if err := played.Requirements(s, userID, nil, nil); err != nil {
			return Outbox{userID: logicError(err.Error())}
		}

		s.removeCards(userID, cards)
		s.discardCards(cards)
		s.stack.Pop()

		outbox := Outbox{}
		outbox.AddAll(s.playerOrder,
			protocol.NewEvent(protocol.ServerEventAction).
				Message(fmt.Sprintf("%s avoided the Bang!", userID)).
				ClientID(userID).
				Build())
		return outbox
	}

	// Nothing to play: the Bang connects.
	s.stack.Pop()
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
