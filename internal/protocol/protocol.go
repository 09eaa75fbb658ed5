// Package protocol defines the wire types shared between the server and its
// clients. Every enum is transported as a small numeric code, so the JSON
// payloads stay compact and the frontend can mirror the tables verbatim.
package protocol

import "fmt"

// ClientEventCode tags an inbound client intent.
type ClientEventCode uint8

const (
	ClientEventJoinSession ClientEventCode = iota + 1
	ClientEventCreateSession
	ClientEventLeaveSession
	ClientEventDataRequest
	ClientEventStartGame
	ClientEventEndTurn
	ClientEventPlayerAction
)

var clientEventNames = map[ClientEventCode]string{
	ClientEventJoinSession:   "JOIN_SESSION",
	ClientEventCreateSession: "CREATE_SESSION",
	ClientEventLeaveSession:  "LEAVE_SESSION",
	ClientEventDataRequest:   "DATA_REQUEST",
	ClientEventStartGame:     "START_GAME",
	ClientEventEndTurn:       "END_TURN",
	ClientEventPlayerAction:  "PLAYER_ACTION",
}

func (c ClientEventCode) String() string {
	if name, ok := clientEventNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CLIENT_EVENT_%d", uint8(c))
}

// ActionType distinguishes a card play from a character ability use.
type ActionType uint8

const (
	ActionTypeCard ActionType = iota + 1
	ActionTypeCharacterAbility
)

// ActionIntent hints whether a submitted card is a fresh play or a response.
type ActionIntent uint8

const (
	ActionIntentAsIs ActionIntent = iota + 1
	ActionIntentForResponse
)

// ClientEvent is a decoded client intent.
type ClientEvent struct {
	EventCode  ClientEventCode `json:"event_code"`
	ActionType ActionType      `json:"action_type,omitempty"`
	Cards      []Card          `json:"cards,omitempty"`
	Character  Character       `json:"character,omitempty"`
	TargetIDs  []string        `json:"target_ids,omitempty"`
	Intent     ActionIntent    `json:"intent,omitempty"`
	SessionID  string          `json:"session_id,omitempty"`
}

// ServerEventCode tags an outbound server event.
type ServerEventCode uint8

const (
	ServerEventClientJoined ServerEventCode = iota + 1
	ServerEventClientLeft
	ServerEventGameStarted
	ServerEventDataResponse
	ServerEventTurnStart
	ServerEventLogicError
	ServerEventAction
	ServerEventDraw
	ServerEventDamage
	ServerEventTargetted
)

var serverEventNames = map[ServerEventCode]string{
	ServerEventClientJoined: "CLIENT_JOINED",
	ServerEventClientLeft:   "CLIENT_LEFT",
	ServerEventGameStarted:  "GAME_STARTED",
	ServerEventDataResponse: "DATA_RESPONSE",
	ServerEventTurnStart:    "TURN_START",
	ServerEventLogicError:   "LOGIC_ERROR",
	ServerEventAction:       "ACTION",
	ServerEventDraw:         "DRAW",
	ServerEventDamage:       "DAMAGE",
	ServerEventTargetted:    "TARGETTED",
}

func (s ServerEventCode) String() string {
	if name, ok := serverEventNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SERVER_EVENT_%d", uint8(s))
}

// ServerEvent is a single outbound message to one client.
type ServerEvent struct {
	EventCode ServerEventCode  `json:"event_code"`
	Message   string           `json:"message,omitempty"`
	Data      *ServerEventData `json:"data,omitempty"`
}

// ServerEventData carries the optional payload fields of a ServerEvent.
// Which fields are populated depends on the event code.
type ServerEventData struct {
	HealthChange     int        `json:"health_change,omitempty"`
	SessionID        string     `json:"session_id,omitempty"`
	ClientID         string     `json:"client_id,omitempty"`
	SessionClientIDs []string   `json:"session_client_ids,omitempty"`
	GameData         *GameData  `json:"game_data,omitempty"`
	PlayerData       *PlayerData `json:"player_data,omitempty"`
	CardOptions      []Card     `json:"card_options,omitempty"`
}

// GameData is the public summary of a running game, safe to send to anyone
// in the session.
type GameData struct {
	Round       int      `json:"round"`
	TurnIndex   int      `json:"turn_index"`
	PlayerOrder []string `json:"player_order"`
	Discard     []Card   `json:"discard"`
}

// PlayerData is one player's private state. It is only ever sent to the
// player it belongs to.
type PlayerData struct {
	MaxHealth int       `json:"max_health"`
	Health    int       `json:"health"`
	Hand      []Card    `json:"hand"`
	Field     []Card    `json:"field"`
	Character Character `json:"character"`
	Role      Role      `json:"role"`
	Alive     bool      `json:"alive"`
}

// Card identifies a playing card by name, suit and rank. Cards are values:
// two cards with the same triple are the same card.
type Card struct {
	Name CardName `json:"name"`
	Suit CardSuit `json:"suit"`
	Rank CardRank `json:"rank"`
}

// CardName enumerates every card in the game's vocabulary. Only a subset
// currently has rules attached; the rest are reserved for the frontend.
type CardName uint8

const (
	// Brown cards
	CardBang CardName = iota + 1
	CardHatchet
	CardIndians
	CardMissed
	CardDuel
	CardGeneralStore
	CardBeer
	// Blue cards
	CardBarrel
	CardDynamite
	// Green cards
	CardPonyExpress
)

var cardNames = map[CardName]string{
	CardBang:         "Bang",
	CardHatchet:      "Hatchet",
	CardIndians:      "Indians",
	CardMissed:       "Missed",
	CardDuel:         "Duel",
	CardGeneralStore: "General Store",
	CardBeer:         "Beer",
	CardBarrel:       "Barrel",
	CardDynamite:     "Dynamite",
	CardPonyExpress:  "Pony Express",
}

func (c CardName) String() string {
	if name, ok := cardNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CARD_%d", uint8(c))
}

// CardSuit enumerates the four suits.
type CardSuit uint8

const (
	SuitClubs CardSuit = iota + 1
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// CardRank enumerates card ranks from 1 through ace.
type CardRank uint8

const (
	Rank1 CardRank = iota + 1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJack
	RankQueen
	RankKing
	RankAce
)

// Role is a player's hidden allegiance for one game.
type Role uint8

const (
	RoleSheriff Role = iota + 1
	RoleRenegade
	RoleOutlaw
	RoleDeputy
)

var roleNames = map[Role]string{
	RoleSheriff:  "Sheriff",
	RoleRenegade: "Renegade",
	RoleOutlaw:   "Outlaw",
	RoleDeputy:   "Deputy",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ROLE_%d", uint8(r))
}

// Character identifies a playable character.
type Character uint8

const (
	CharacterBillyTheKid Character = iota + 1
)
