package game

import (
	"errors"
	"fmt"

	"github.com/bangfree/bang-server-go/internal/protocol"
)

// beerCard heals its player by one, capped at their maximum health. It
// resolves immediately and never opens a stack frame.
type beerCard struct{}

func (beerCard) Color() CardColor           { return ColorBrown }
func (beerCard) RespondsTo() []EventTrigger { return []EventTrigger{TriggerDamage} }
func (beerCard) Triggers() []EventTrigger   { return []EventTrigger{TriggerHeal} }

func (beerCard) Requirements(s *State, userID string, cards []protocol.Card, targets []string) error {
	player, ok := s.players[userID]
	if !ok {
		return nil
	}
	if player.health >= player.maxHealth {
		return errors.New("Cannot play a Beer at full health.")
	}
	return nil
}

func (beerCard) Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	s.removeCards(userID, cards)
	s.discardCards(cards)
	s.heal(userID, 1)

	outbox := Outbox{}
	outbox.AddAll(s.playerOrder,
		protocol.NewEvent(protocol.ServerEventAction).
			Message(fmt.Sprintf("%s used a Beer to heal", userID)).
			ClientID(userID).
			HealthChange(1).
			Build())
	return outbox
}

func (beerCard) Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox {
	return Outbox{}
}
