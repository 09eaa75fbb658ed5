// Package engine is the control core of the server: it decodes client
// intents, validates them against the shared registries, drives the card
// rules engine, and fans the results out to affected clients. Nothing above
// it ever sees an error — every failure ends in a log line or an outbound
// event.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bangfree/bang-server-go/internal/client"
	"github.com/bangfree/bang-server-go/internal/game"
	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/bangfree/bang-server-go/internal/session"
	"go.uber.org/zap"
)

// Dispatcher routes every inbound client event. It is safe for concurrent
// use: per-connection read loops call it from their own goroutines.
type Dispatcher struct {
	clients  *client.Registry
	sessions *session.Manager
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the shared registries.
func NewDispatcher(clients *client.Registry, sessions *session.Manager, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		clients:  clients,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleClientEvent decodes and dispatches one raw client message. Malformed
// payloads are logged and dropped without a reply.
func (d *Dispatcher) HandleClientEvent(clientID string, raw []byte) {
	var event protocol.ClientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		d.logger.Warn("failed to decode client event",
			zap.String("client_id", clientID),
			zap.ByteString("payload", raw),
			zap.Error(err),
		)
		return
	}

	switch event.EventCode {
	case protocol.ClientEventDataRequest:
		d.handleDataRequest(clientID)
	case protocol.ClientEventCreateSession:
		d.handleCreateSession(clientID)
	case protocol.ClientEventJoinSession:
		d.handleJoinSession(clientID, event.SessionID)
	case protocol.ClientEventLeaveSession:
		d.removeClientFromCurrentSession(clientID)
	case protocol.ClientEventStartGame:
		d.handleStartGame(clientID)
	case protocol.ClientEventEndTurn:
		d.handleEndTurn(clientID)
	case protocol.ClientEventPlayerAction:
		d.handlePlayerAction(clientID, &event)
	default:
		d.logger.Warn("unknown client event code",
			zap.String("client_id", clientID),
			zap.Uint8("event_code", uint8(event.EventCode)),
		)
	}
}

// handleDataRequest answers with a snapshot of the requester's session and,
// if a game is running, their own private player data. Clients outside any
// session get nothing.
func (d *Dispatcher) handleDataRequest(clientID string) {
	sess, ok := d.clientSession(clientID)
	if !ok {
		return
	}

	builder := protocol.NewEvent(protocol.ServerEventDataResponse).
		SessionID(sess.ID).
		SessionClientIDs(sess.MemberIDs())

	if st := sess.Game(); st != nil {
		builder.GameData(st.GameData())
		if view, ok := st.PlayerView(clientID); ok {
			builder.PlayerData(view)
		}
	}
	d.clients.Send(clientID, builder.Build())
}

// handleCreateSession opens a fresh session owned by the requester. A
// requester already seated elsewhere leaves that session first, so the
// membership back-reference stays consistent.
func (d *Dispatcher) handleCreateSession(clientID string) {
	d.removeClientFromCurrentSession(clientID)

	sess := d.sessions.Create(clientID)
	if c, ok := d.clients.Get(clientID); ok {
		c.SetSessionID(sess.ID)
	}

	d.clients.Send(clientID,
		protocol.NewEvent(protocol.ServerEventClientJoined).
			ClientID(clientID).
			SessionID(sess.ID).
			SessionClientIDs(sess.MemberIDs()).
			Build())
}

// handleJoinSession seats the requester in an existing session. Sessions
// with a game in progress reject new joiners, since the seating order is
// fixed at game start.
func (d *Dispatcher) handleJoinSession(clientID, sessionID string) {
	if sessionID == "" {
		d.logger.Warn("join request without a session id", zap.String("client_id", clientID))
		return
	}

	d.removeClientFromCurrentSession(clientID)

	sess, ok := d.sessions.Get(sessionID)
	if !ok {
		d.clients.Send(clientID,
			protocol.NewEvent(protocol.ServerEventLogicError).
				Message(fmt.Sprintf("Invalid SessionID: %s", sessionID)).
				Build())
		return
	}
	if !sess.AddMember(clientID) {
		d.clients.Send(clientID,
			protocol.NewEvent(protocol.ServerEventLogicError).
				Message("Cannot join a session with a game in progress.").
				Build())
		return
	}
	if c, ok := d.clients.Get(clientID); ok {
		c.SetSessionID(sess.ID)
	}

	d.clients.SendAll(sess.MemberIDs(),
		protocol.NewEvent(protocol.ServerEventClientJoined).
			ClientID(clientID).
			SessionID(sess.ID).
			SessionClientIDs(sess.MemberIDs()).
			Build())
}

// handleStartGame deals a new game for the requester's session and tells
// each player their own hand and role alongside the shared summary.
func (d *Dispatcher) handleStartGame(clientID string) {
	sess, ok := d.clientSession(clientID)
	if !ok {
		return
	}

	st, members, err := sess.DealGame(func(members []string) (*game.State, error) {
		return game.NewState(members, d.logger)
	})
	if errors.Is(err, session.ErrGameInProgress) {
		d.clients.Send(clientID,
			protocol.NewEvent(protocol.ServerEventLogicError).
				Message("A game is already in progress.").
				Build())
		return
	}
	if err != nil {
		d.clients.SendAll(members,
			protocol.NewEvent(protocol.ServerEventLogicError).
				Message(err.Error()).
				Build())
		return
	}

	gameData := st.GameData()
	for _, member := range members {
		builder := protocol.NewEvent(protocol.ServerEventGameStarted).
			SessionClientIDs(members).
			GameData(gameData)
		if view, ok := st.PlayerView(member); ok {
			builder.PlayerData(view)
		}
		d.clients.Send(member, builder.Build())
	}

	d.clients.SendAll(members,
		protocol.NewEvent(protocol.ServerEventTurnStart).
			ClientID(st.ActivePlayer()).
			Build())
}

// handleEndTurn advances the turn to the next seat. Only the active player
// may end the turn.
func (d *Dispatcher) handleEndTurn(clientID string) {
	sess, ok := d.clientSession(clientID)
	if !ok {
		return
	}
	st := sess.Game()
	if st == nil {
		d.logger.Warn("end turn without a game in progress",
			zap.String("client_id", clientID),
			zap.String("session_id", sess.ID),
		)
		return
	}
	if !st.IsPlayerTurn(clientID) {
		d.clients.Send(clientID,
			protocol.NewEvent(protocol.ServerEventLogicError).
				Message("Cannot end a turn that is not yours.").
				Build())
		return
	}

	next := st.AdvanceTurn()
	d.clients.SendAll(sess.MemberIDs(),
		protocol.NewEvent(protocol.ServerEventTurnStart).
			ClientID(next).
			Build())
}

// handlePlayerAction feeds a card play or a response into the rules engine
// and delivers whatever it produced.
func (d *Dispatcher) handlePlayerAction(clientID string, event *protocol.ClientEvent) {
	sess, ok := d.clientSession(clientID)
	if !ok {
		return
	}
	st := sess.Game()
	if st == nil {
		d.logger.Warn("player action without a game in progress",
			zap.String("client_id", clientID),
			zap.String("session_id", sess.ID),
		)
		return
	}

	outbox, err := st.HandleAction(clientID, event.Cards, event.TargetIDs)
	if err != nil {
		d.clients.Send(clientID,
			protocol.NewEvent(protocol.ServerEventLogicError).
				Message(err.Error()).
				Build())
		return
	}
	d.deliver(outbox)
}

// HandleClientConnect restores a reconnecting client to their seat: if some
// session still holds one for them, the membership flips back to active and
// the back-reference is re-established.
func (d *Dispatcher) HandleClientConnect(clientID string) {
	sess, ok := d.sessions.FindByMember(clientID)
	if !ok {
		return
	}
	sess.SetMemberActive(clientID, true)
	if c, ok := d.clients.Get(clientID); ok {
		c.SetSessionID(sess.ID)
	}
	d.logger.Info("client reconnected to session",
		zap.String("client_id", clientID),
		zap.String("session_id", sess.ID),
	)
}

// HandleClientDisconnect soft-leaves the client's session: their seat (and
// hand, mid-game) is kept but marked inactive for a potential reconnect.
// A session with no active member left is torn down.
func (d *Dispatcher) HandleClientDisconnect(clientID string) {
	sess, ok := d.clientSession(clientID)
	if !ok {
		return
	}

	sess.SetMemberActive(clientID, false)
	if len(sess.ActiveMemberIDs()) == 0 {
		d.sessions.Remove(sess.ID)
	}
}

// removeClientFromCurrentSession performs a hard leave: the pre-removal
// member list is notified, the seat is freed, ownership is handed to the
// first remaining member if needed, and an all-inactive session is deleted.
func (d *Dispatcher) removeClientFromCurrentSession(clientID string) {
	sess, ok := d.clientSession(clientID)
	if !ok {
		return
	}

	d.clients.SendAll(sess.MemberIDs(),
		protocol.NewEvent(protocol.ServerEventClientLeft).
			ClientID(clientID).
			Build())

	sess.RemoveMember(clientID)
	if c, ok := d.clients.Get(clientID); ok {
		c.SetSessionID("")
	}

	if len(sess.ActiveMemberIDs()) == 0 {
		d.sessions.Remove(sess.ID)
		return
	}
	if sess.Owner() == clientID {
		remaining := sess.MemberIDs()
		sess.SetOwner(remaining[0])
		d.logger.Info("session owner reassigned",
			zap.String("session_id", sess.ID),
			zap.String("owner", remaining[0]),
		)
	}
}

// clientSession resolves the requester's current session via their
// back-reference. Missing sessions are a structural inconsistency: logged,
// and the back-reference is cleared.
func (d *Dispatcher) clientSession(clientID string) (*session.Session, bool) {
	c, ok := d.clients.Get(clientID)
	if !ok {
		return nil, false
	}
	sessionID := c.SessionID()
	if sessionID == "" {
		return nil, false
	}

	sess, ok := d.sessions.Get(sessionID)
	if !ok {
		d.logger.Error("client references a missing session",
			zap.String("client_id", clientID),
			zap.String("session_id", sessionID),
		)
		c.SetSessionID("")
		return nil, false
	}
	return sess, true
}

func (d *Dispatcher) deliver(outbox game.Outbox) {
	for recipient, event := range outbox {
		d.clients.Send(recipient, event)
	}
}
