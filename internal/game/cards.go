package game

import (
	"errors"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// CardColor classifies a card for display purposes.
type CardColor uint8

const (
	ColorBrown CardColor = iota + 1
	ColorBlue
	ColorGreen
)

// EventTrigger is a category of game event that cards emit or react to.
type EventTrigger uint8

const (
	TriggerDamage EventTrigger = iota + 1
	TriggerDraw
	TriggerBang
	TriggerHeal
	TriggerTarget
	TriggerEndOfTurnDiscard
	TriggerEffectDiscard
)

// Outbox maps recipient client IDs to the event each should receive. Card
// handlers fill one and the dispatcher delivers it verbatim.
type Outbox map[string]protocol.ServerEvent

// AddAll assigns the event to every given recipient, overwriting any event
// previously staged for them.
func (o Outbox) AddAll(recipients []string, event protocol.ServerEvent) {
	for _, id := range recipients {
		o[id] = event
	}
}

// CardHandler is one card's entry in the rulebook: a precondition check, the
// effect of playing it fresh, and the resolution of responses to it.
type CardHandler interface {
	// Color is the card's display classification.
	Color() CardColor
	// RespondsTo lists the triggers this card may be played in answer to.
	RespondsTo() []EventTrigger
	// Triggers lists the triggers this card emits when played.
	Triggers() []EventTrigger
	// Requirements validates a play before any state is mutated. The
	// returned error message is relayed to the player verbatim.
	Requirements(s *State, userID string, cards []protocol.Card, targets []string) error
	// Initiate applies the card's effect, pushing a stack frame if other
	// players must respond. Caller holds the state lock.
	Initiate(s *State, userID string, cards []protocol.Card, targets []string) Outbox
	// Update resolves one response to this card's open stack frame.
	// Caller holds the state lock.
	Update(s *State, userID string, cards []protocol.Card, targets []string) Outbox
}

var cardTable = map[protocol.CardName]CardHandler{
	protocol.CardBang:         bangCard{},
	protocol.CardMissed:       missedCard{},
	protocol.CardIndians:      indiansCard{},
	protocol.CardDuel:         duelCard{},
	protocol.CardGeneralStore: generalStoreCard{},
	protocol.CardBeer:         beerCard{},
}

// CardByName looks up the rulebook entry for a card.
func CardByName(name protocol.CardName) (CardHandler, bool) {
	handler, ok := cardTable[name]
	return handler, ok
}

const gracePeriodMsg = "Cannot damage other players during the first round."

// ErrNotYourTurn is returned when a player initiates out of turn.
var ErrNotYourTurn = errors.New("Cannot initiate play when it is not your turn.")

// ErrLacksCards is returned when a player plays cards they do not hold.
var ErrLacksCards = errors.New("Lack the cards to play.")

// ErrNoCards is returned when an initiation names no cards at all.
var ErrNoCards = errors.New("No cards were played.")

// HandleAction routes one player action: to the response path while an
// interaction is pending on the stack, to the initiation path otherwise.
// Both branches run under a single hold of the state lock, so the
// top-of-stack check and the resolution are atomic with respect to
// concurrent actions. A nil outbox with a nil error means the action was
// silently ignored (an unexpected responder).
func (s *State) HandleAction(userID string, cards []protocol.Card, targets []string) (Outbox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stack.IsEmpty() {
		outbox, _ := s.respondLocked(userID, cards, targets)
		return outbox, nil
	}
	return s.initiateLocked(userID, cards, targets)
}

// InitiatePlay runs the full initiation pipeline for the active player:
// turn check, ownership check, rulebook requirements, then the card effect.
// A returned error is user-correctable and must reach only the requester;
// the state is untouched on every error path.
func (s *State) InitiatePlay(userID string, cards []protocol.Card, targets []string) (Outbox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initiateLocked(userID, cards, targets)
}

func (s *State) initiateLocked(userID string, cards []protocol.Card, targets []string) (Outbox, error) {
	if !s.isPlayerTurnLocked(userID) {
		return nil, ErrNotYourTurn
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	if !s.playerOwnsCards(userID, cards) {
		return nil, ErrLacksCards
	}

	handler, ok := CardByName(cards[0].Name)
	if !ok {
		s.logger.Error("no rulebook entry for played card",
			zap.String("client_id", userID),
			zap.String("card", cards[0].Name.String()),
		)
		return Outbox{}, nil
	}

	if err := handler.Requirements(s, userID, cards, targets); err != nil {
		return nil, err
	}
	return handler.Initiate(s, userID, cards, targets), nil
}

// Respond routes one response to the top of the event-response stack. The
// second return is false when nothing is pending or the responder is not in
// the expected-respondent set, in which case the response is ignored.
func (s *State) Respond(userID string, cards []protocol.Card, targets []string) (Outbox, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.respondLocked(userID, cards, targets)
}

func (s *State) respondLocked(userID string, cards []protocol.Card, targets []string) (Outbox, bool) {
	frame, ok := s.stack.Peek()
	if !ok {
		return nil, false
	}
	if !containsString(frame.Respondents(), userID) {
		return nil, false
	}

	handler, ok := CardByName(frame.CardName())
	if !ok {
		s.logger.Error("no rulebook entry for pending card",
			zap.String("card", frame.CardName().String()),
		)
		return nil, false
	}
	return handler.Update(s, userID, cards, targets), true
}

// respondsTo reports whether the played card answers one specific trigger.
func respondsTo(played CardHandler, trigger EventTrigger) bool {
	for _, response := range played.RespondsTo() {
		if response == trigger {
			return true
		}
	}
	return false
}

// respondsToAny reports whether the played card may answer any of the
// triggers the pending card emits.
func respondsToAny(played CardHandler, pending CardHandler) bool {
	for _, response := range played.RespondsTo() {
		for _, trigger := range pending.Triggers() {
			if response == trigger {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func logicError(message string) protocol.ServerEvent {
	return protocol.NewEvent(protocol.ServerEventLogicError).Message(message).Build()
}
