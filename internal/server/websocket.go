// Package server is the transport layer: it upgrades WebSocket connections,
// pumps frames in and out, and hands decoded traffic to the dispatcher.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bangfree/bang-server-go/internal/client"
	"github.com/bangfree/bang-server-go/internal/config"
	"github.com/bangfree/bang-server-go/internal/engine"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Server serves the WebSocket endpoint and the liveness check.
type Server struct {
	cfg        config.ServerConfig
	clients    *client.Registry
	dispatcher *engine.Dispatcher
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	httpServer *http.Server
}

// New creates the transport server.
func New(cfg config.ServerConfig, clients *client.Registry, dispatcher *engine.Dispatcher, logger *zap.Logger) *Server {
	return &Server{
		cfg:        cfg,
		clients:    clients,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws/{client_id}", s.handleWebSocket).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving HTTP until the listener fails or Shutdown
// is called.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Router(),
	}
	s.logger.Info("listening", zap.String("address", s.cfg.Address))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth is the liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleWebSocket upgrades one connection and runs its read/write pumps. A
// connection request under an ID that is already live is rejected.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["client_id"]
	if clientID == "" {
		http.Error(w, "missing client id", http.StatusBadRequest)
		return
	}

	c, err := s.clients.Register(clientID)
	if err != nil {
		s.logger.Warn("duplicate connection request", zap.String("client_id", clientID))
		http.Error(w, "client id already connected", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.clients.Unregister(clientID)
		s.logger.Error("websocket upgrade failed",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		return
	}

	s.dispatcher.HandleClientConnect(clientID)

	go s.writePump(conn, c)
	go s.readPump(conn, c)
}

// readPump reads frames from one socket and feeds them to the dispatcher in
// order, which gives each client strict sequential processing of its own
// events. Socket loss ends in a soft disconnect, keeping the seat for a
// reconnect.
func (s *Server) readPump(conn *websocket.Conn, c *client.Client) {
	defer func() {
		s.dispatcher.HandleClientDisconnect(c.ID)
		s.clients.Unregister(c.ID)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed",
					zap.String("client_id", c.ID),
					zap.Error(err),
				)
			}
			return
		}

		// Some clients keep the connection warm with text pings.
		if msg := string(raw); msg == "ping" || msg == "ping\n" {
			continue
		}
		s.dispatcher.HandleClientEvent(c.ID, raw)
	}
}

// writePump serializes queued events onto the socket and keeps the
// connection alive with control pings.
func (s *Server) writePump(conn *websocket.Conn, c *client.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("failed to encode server event",
					zap.String("client_id", c.ID),
					zap.Error(err),
				)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Warn("websocket write failed",
					zap.String("client_id", c.ID),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
