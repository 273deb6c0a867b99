package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"auxbox/modules/session"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, serverURL, token string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws/" + url.PathEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.CountForSession(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session %s never reached %d clients", sessionID, want)
}

type rawEnvelope struct {
	Event   EventKind       `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func readEnvelope(t *testing.T, conn *websocket.Conn) rawEnvelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env rawEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestEmitScopedToSession(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	tokenA := e.startSession(t)
	credsA, err := e.codec.VerifyCredentials(tokenA)
	require.NoError(t, err)
	tokenB := e.startSession(t)
	credsB, err := e.codec.VerifyCredentials(tokenB)
	require.NoError(t, err)

	connA1 := dialWS(t, srv.URL, tokenA)
	connA2 := dialWS(t, srv.URL, tokenA)
	connB := dialWS(t, srv.URL, tokenB)

	waitForClients(t, e.api.hub, credsA.Session, 2)
	waitForClients(t, e.api.hub, credsB.Session, 1)

	e.api.hub.Emit(credsA.Session, EventPlayingChanged, PlayingChangedPayload{IsPlaying: true})

	for _, conn := range []*websocket.Conn{connA1, connA2} {
		env := readEnvelope(t, conn)
		assert.Equal(t, EventPlayingChanged, env.Event)
	}

	// The other session's connection hears nothing.
	connB.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	require.Error(t, err)
}

func TestEmitPreservesOrder(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	token := e.startSession(t)
	creds, err := e.codec.VerifyCredentials(token)
	require.NoError(t, err)

	conn := dialWS(t, srv.URL, token)
	waitForClients(t, e.api.hub, creds.Session, 1)

	for i := int64(1); i <= 5; i++ {
		e.api.hub.Emit(creds.Session, EventItemMoved, ItemMovedPayload{ID: 1, Position: i})
	}

	for i := int64(1); i <= 5; i++ {
		env := readEnvelope(t, conn)
		require.Equal(t, EventItemMoved, env.Event)

		var payload ItemMovedPayload
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, i, payload.Position)
	}
}

func TestHandshakeRejectsBadToken(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/garbage"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDisconnectDeregisters(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	token := e.startSession(t)
	creds, err := e.codec.VerifyCredentials(token)
	require.NoError(t, err)

	conn := dialWS(t, srv.URL, token)
	waitForClients(t, e.api.hub, creds.Session, 1)

	conn.Close()
	waitForClients(t, e.api.hub, creds.Session, 0)
}

func TestEnqueueBroadcastsToParty(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	token := e.startSession(t)
	creds, err := e.codec.VerifyCredentials(token)
	require.NoError(t, err)
	guest := e.codec.SignCredentials(creds.Session, session.RankGuest)

	conn := dialWS(t, srv.URL, guest)
	waitForClients(t, e.api.hub, creds.Session, 1)

	e.seedVideo(t, "vidA")
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/queue?id=vidA", token).Code)

	// First add lands as itemAdded followed by the auto-start.
	env := readEnvelope(t, conn)
	assert.Equal(t, EventItemAdded, env.Event)

	env = readEnvelope(t, conn)
	require.Equal(t, EventCurrentChanged, env.Event)

	var payload CurrentChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.NotNil(t, payload.ID)
	assert.Equal(t, int64(1), *payload.ID)
}
