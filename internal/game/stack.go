package game

import (
	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/google/uuid"
)

// Frame is a single open interaction on the event-response stack. Each card
// that needs other players to react pushes one frame; only the top frame may
// be resolved, so nested interactions finish before outer ones continue.
type Frame interface {
	// ID uniquely identifies the frame for logging.
	ID() string
	// CardName is the card whose rules govern responses to this frame.
	CardName() protocol.CardName
	// Initiator is the player who opened the interaction.
	Initiator() string
	// Respondents is the set of players a response is currently expected from.
	Respondents() []string
}

type frameBase struct {
	id        string
	card      protocol.CardName
	initiator string
}

func newFrameBase(card protocol.CardName, initiator string) frameBase {
	return frameBase{id: uuid.NewString(), card: card, initiator: initiator}
}

func (f *frameBase) ID() string                  { return f.id }
func (f *frameBase) CardName() protocol.CardName { return f.card }
func (f *frameBase) Initiator() string           { return f.initiator }

// BangFrame awaits a single target's Missed (or forfeit).
type BangFrame struct {
	frameBase
	Target string
}

// NewBangFrame opens a Bang interaction against target.
func NewBangFrame(initiator, target string) *BangFrame {
	return &BangFrame{frameBase: newFrameBase(protocol.CardBang, initiator), Target: target}
}

func (f *BangFrame) Respondents() []string { return []string{f.Target} }

// IndiansFrame awaits a Bang (or forfeit) from every other player.
type IndiansFrame struct {
	frameBase
	// Pending are the players who have not answered yet.
	Pending []string
}

// NewIndiansFrame opens an Indians interaction against all of respondents.
func NewIndiansFrame(initiator string, respondents []string) *IndiansFrame {
	return &IndiansFrame{
		frameBase: newFrameBase(protocol.CardIndians, initiator),
		Pending:   append([]string(nil), respondents...),
	}
}

func (f *IndiansFrame) Respondents() []string { return append([]string(nil), f.Pending...) }

// Settle removes a player from the pending set and reports whether anyone
// is still expected to answer.
func (f *IndiansFrame) Settle(clientID string) bool {
	kept := f.Pending[:0]
	for _, id := range f.Pending {
		if id != clientID {
			kept = append(kept, id)
		}
	}
	f.Pending = kept
	return len(f.Pending) > 0
}

// DuelFrame alternates Bang responses between two players until one of them
// cannot answer.
type DuelFrame struct {
	frameBase
	// Combatants holds the challenged player first, then the initiator; the
	// challenged player answers first.
	Combatants [2]string
	cursor     int
}

// NewDuelFrame opens a Duel between the initiator and target.
func NewDuelFrame(initiator, target string) *DuelFrame {
	return &DuelFrame{
		frameBase:  newFrameBase(protocol.CardDuel, initiator),
		Combatants: [2]string{target, initiator},
	}
}

func (f *DuelFrame) Respondents() []string { return []string{f.Combatants[f.cursor]} }

// CurrentDuelist returns the player expected to answer next.
func (f *DuelFrame) CurrentDuelist() string { return f.Combatants[f.cursor] }

// Alternate passes the duel to the other combatant and returns them.
func (f *DuelFrame) Alternate() string {
	f.cursor = 1 - f.cursor
	return f.Combatants[f.cursor]
}

// GeneralStoreFrame walks a queue of choosers through a shared pool of
// face-up cards, one pick each.
type GeneralStoreFrame struct {
	frameBase
	// Options is the remaining face-up pool.
	Options []protocol.Card
	// Queue holds the players still owed a pick, in choosing order.
	Queue []string
}

// NewGeneralStoreFrame opens a General Store pick with the given pool and
// chooser rotation.
func NewGeneralStoreFrame(initiator string, options []protocol.Card, queue []string) *GeneralStoreFrame {
	return &GeneralStoreFrame{
		frameBase: newFrameBase(protocol.CardGeneralStore, initiator),
		Options:   append([]protocol.Card(nil), options...),
		Queue:     append([]string(nil), queue...),
	}
}

// Respondents is the single player at the head of the chooser queue.
func (f *GeneralStoreFrame) Respondents() []string {
	if len(f.Queue) == 0 {
		return nil
	}
	return []string{f.Queue[0]}
}

// TakeOption removes the chosen card from the pool and advances the queue,
// reporting whether a chooser is still owed a pick.
func (f *GeneralStoreFrame) TakeOption(card protocol.Card) bool {
	kept := f.Options[:0]
	removed := false
	for _, option := range f.Options {
		if !removed && option == card {
			removed = true
			continue
		}
		kept = append(kept, option)
	}
	f.Options = kept
	if len(f.Queue) > 0 {
		f.Queue = f.Queue[1:]
	}
	return len(f.Queue) > 0
}

// EventStack is the LIFO record of open card interactions. It is not
// internally synchronized: it lives inside a State and shares its lock.
type EventStack struct {
	frames []Frame
}

// NewEventStack creates an empty stack.
func NewEventStack() *EventStack {
	return &EventStack{frames: make([]Frame, 0, 4)}
}

// Push adds a frame on top of the stack.
func (es *EventStack) Push(frame Frame) {
	es.frames = append(es.frames, frame)
}

// Pop removes and returns the top frame.
func (es *EventStack) Pop() (Frame, bool) {
	if len(es.frames) == 0 {
		return nil, false
	}
	idx := len(es.frames) - 1
	frame := es.frames[idx]
	es.frames = es.frames[:idx]
	return frame, true
}

// Peek returns the top frame without removing it.
func (es *EventStack) Peek() (Frame, bool) {
	if len(es.frames) == 0 {
		return nil, false
	}
	return es.frames[len(es.frames)-1], true
}

// IsEmpty reports whether any interaction is still open.
func (es *EventStack) IsEmpty() bool {
	return len(es.frames) == 0
}

// Len returns the number of open interactions.
func (es *EventStack) Len() int {
	return len(es.frames)
}
