package game

import (
	"errors"

	"github.com/bangfree/bang-server-go/internal/protocol"
)

// missedCard never resolves on its own; it exists only as an answer to a
// Bang-triggered interaction, validated against the top of the stack.
type missedCard struct{}

func (missedCard) Color() CardColor           { return ColorBrown }
func (missedCard) RespondsTo() []EventTrigger { return []EventTrigger{TriggerBang} }
func (missedCard) Triggers() []EventTrigger   { return nil }

func (m missedCard) Requirements(s *State, userID string, cards []protocol.Card, targets []string) error {
	frame, ok := s.stack.Peek()
	if !ok {
		return errors.New("No State found for responding with a Missed.")
	}
	pending, ok := CardByName(frame.CardName())
	if !ok || !respondsToAny(m, pending) {
		return errors.New("Nothing to play a Missed for.")
	}
	respondents := frame.Respondents()
	if len(respondents) != 1 || respondents[0] != userID {
		return errors.New("Player is not in the list of expected responses.")
	}
	return nil
}

func (missedCard) Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	return Outbox{}
}

func (missedCard) Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	return Outbox{}
}
