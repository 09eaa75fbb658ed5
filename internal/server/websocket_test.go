package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bangfree/bang-server-go/internal/client"
	"github.com/bangfree/bang-server-go/internal/config"
	"github.com/bangfree/bang-server-go/internal/engine"
	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/bangfree/bang-server-go/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	clients := client.NewRegistry(64, logger)
	sessions := session.NewManager(logger)
	dispatcher := engine.NewDispatcher(clients, sessions, logger)
	srv := New(config.ServerConfig{ReadBufferSize: 1024, WriteBufferSize: 1024}, clients, dispatcher, logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server, clientID string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + clientID
}

func dial(t *testing.T, ts *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, clientID), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) protocol.ServerEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event protocol.ServerEvent
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionFlowOverWebSocket(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "alice")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event_code":2}`)))

	event := readEvent(t, conn)
	assert.Equal(t, protocol.ServerEventClientJoined, event.EventCode)
	require.NotNil(t, event.Data)
	assert.Len(t, event.Data.SessionID, 5)
	assert.Equal(t, []string{"alice"}, event.Data.SessionClientIDs)
}

func TestDuplicateClientIDIsRejected(t *testing.T) {
	ts := newTestServer(t)
	dial(t, ts, "alice")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "alice"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTextPingIsTolerated(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "alice")

	// Keep-alive text pings are swallowed, not dispatched.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event_code":2}`)))

	event := readEvent(t, conn)
	assert.Equal(t, protocol.ServerEventClientJoined, event.EventCode)
}

func TestDisconnectFreesTheClientID(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts, "alice")
	conn.Close()

	// The read pump unregisters asynchronously; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn2, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "alice"), nil)
		if err == nil {
			conn2.Close()
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("client id never freed after disconnect")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
