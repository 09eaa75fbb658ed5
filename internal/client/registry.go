// Package client tracks every live connection: its outbound event queue and
// the session it currently belongs to.
package client

import (
	"fmt"
	"sync"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"go.uber.org/zap"
)

// Client is the connection state for one connected player.
type Client struct {
	ID string

	mu        sync.RWMutex
	sessionID string
	send      chan protocol.ServerEvent
}

// SessionID returns the session the client currently belongs to, or "".
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SetSessionID updates the client's session back-reference.
func (c *Client) SetSessionID(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

// Events exposes the outbound queue for the transport's write loop.
func (c *Client) Events() <-chan protocol.ServerEvent {
	return c.send
}

// TrySend queues an event without blocking. A full queue drops the event;
// slow consumers never stall other recipients.
func (c *Client) TrySend(event protocol.ServerEvent) bool {
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Registry is the shared map of connected clients.
type Registry struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	queueSize int
	logger    *zap.Logger
}

// NewRegistry creates an empty client registry. queueSize bounds each
// client's outbound queue.
func NewRegistry(queueSize int, logger *zap.Logger) *Registry {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Registry{
		clients:   make(map[string]*Client),
		queueSize: queueSize,
		logger:    logger,
	}
}

// Register creates the connection state for a new client ID. A second
// connection under a live ID is rejected.
func (r *Registry) Register(clientID string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[clientID]; exists {
		return nil, fmt.Errorf("client id %q already connected", clientID)
	}

	c := &Client{
		ID:   clientID,
		send: make(chan protocol.ServerEvent, r.queueSize),
	}
	r.clients[clientID] = c

	r.logger.Info("client registered",
		zap.String("client_id", clientID),
		zap.Int("client_count", len(r.clients)),
	)
	return c, nil
}

// Unregister removes a client and closes its outbound queue.
func (r *Registry) Unregister(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)
	close(c.send)

	r.logger.Info("client unregistered",
		zap.String("client_id", clientID),
		zap.Int("client_count", len(r.clients)),
	)
}

// Get returns a client by ID.
func (r *Registry) Get(clientID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[clientID]
	return c, ok
}

// Count returns the number of connected clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Send delivers an event to one client, dropping it with a log line when the
// client is gone or its queue is full. Sends never block and never retry.
// The registry lock is held across the send so a concurrent Unregister
// cannot close the queue mid-delivery.
func (r *Registry) Send(clientID string, event protocol.ServerEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[clientID]
	if !ok {
		r.logger.Debug("dropping event for unknown client",
			zap.String("client_id", clientID),
			zap.String("event", event.EventCode.String()),
		)
		return
	}
	if !c.TrySend(event) {
		r.logger.Warn("dropping event for slow client",
			zap.String("client_id", clientID),
			zap.String("event", event.EventCode.String()),
		)
	}
}

// SendAll delivers an event to each of the given clients.
func (r *Registry) SendAll(clientIDs []string, event protocol.ServerEvent) {
	for _, id := range clientIDs {
		r.Send(id, event)
	}
}
