package protocol

// EventBuilder assembles a ServerEvent field by field. Card handlers build
// the same announcement for many recipients, so Build returns a fresh copy
// each time and the builder can be reused.
type EventBuilder struct {
	event ServerEvent
}

// NewEvent starts a builder for the given event code.
func NewEvent(code ServerEventCode) *EventBuilder {
	return &EventBuilder{event: ServerEvent{EventCode: code}}
}

// Message sets the human-readable message.
func (b *EventBuilder) Message(msg string) *EventBuilder {
	b.event.Message = msg
	return b
}

// ClientID sets data.client_id.
func (b *EventBuilder) ClientID(id string) *EventBuilder {
	b.data().ClientID = id
	return b
}

// SessionID sets data.session_id.
func (b *EventBuilder) SessionID(id string) *EventBuilder {
	b.data().SessionID = id
	return b
}

// SessionClientIDs sets data.session_client_ids to a copy of ids.
func (b *EventBuilder) SessionClientIDs(ids []string) *EventBuilder {
	b.data().SessionClientIDs = append([]string(nil), ids...)
	return b
}

// HealthChange sets data.health_change.
func (b *EventBuilder) HealthChange(delta int) *EventBuilder {
	b.data().HealthChange = delta
	return b
}

// GameData sets data.game_data.
func (b *EventBuilder) GameData(gd *GameData) *EventBuilder {
	b.data().GameData = gd
	return b
}

// PlayerData sets data.player_data.
func (b *EventBuilder) PlayerData(pd *PlayerData) *EventBuilder {
	b.data().PlayerData = pd
	return b
}

// CardOptions sets data.card_options to a copy of cards.
func (b *EventBuilder) CardOptions(cards []Card) *EventBuilder {
	b.data().CardOptions = append([]Card(nil), cards...)
	return b
}

// Build returns the assembled event. The payload struct is copied so later
// builder mutations do not alias previously built events.
func (b *EventBuilder) Build() ServerEvent {
	event := b.event
	if b.event.Data != nil {
		data := *b.event.Data
		event.Data = &data
	}
	return event
}

func (b *EventBuilder) data() *ServerEventData {
	if b.event.Data == nil {
		b.event.Data = &ServerEventData{}
	}
	return b.event.Data
}
