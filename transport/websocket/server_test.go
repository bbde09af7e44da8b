package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/event"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/usecase"
)

const readTimeout = 3 * time.Second

type envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func newTestServer(t *testing.T, allowedOrigins ...string) (*httptest.Server, *repository.Registry) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	registry := repository.NewRegistry()
	hub := NewHub(logger)
	gameManager := usecase.NewGameManager(logger, registry, hub, nil)

	server := New(logger, hub, gameManager, Options{
		AllowedOrigins: allowedOrigins,
		ReadLimit:      4096,
		WriteWait:      time.Second,
		PongWait:       10 * time.Second,
		SendBuffer:     32,
	})

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return httpServer, registry
}

func wsURL(httpServer *httptest.Server) string {
	return "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

// dial - opens a connection and waits for its id.
func dial(t *testing.T, httpServer *httptest.Server) *client {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	c := &client{t: t, conn: conn}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	var connected event.ConnectedPayload
	c.readUntil(event.ActionConnected, &connected)
	require.NotEmpty(t, connected.ID)
	c.id = connected.ID

	return c
}

func (that *client) send(action string, payload any) {
	that.t.Helper()

	message := map[string]any{"action": action}
	if payload != nil {
		message["payload"] = payload
	}

	require.NoError(that.t, that.conn.WriteJSON(message))
}

// readUntil - skips messages until one with action arrives and decodes its payload into out.
func (that *client) readUntil(action string, out any) {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(readTimeout)))

	for {
		var message envelope
		require.NoError(that.t, that.conn.ReadJSON(&message), "waiting for %s", action)

		if message.Action != action {
			continue
		}

		if out != nil {
			require.NoError(that.t, json.Unmarshal(message.Payload, out))
		}
		return
	}
}

// startGame - searches with both clients and lets guest accept an invitation of host.
func startGame(t *testing.T, host, guest *client) {
	t.Helper()

	host.send(ActionSearch, map[string]any{"name": "alice"})
	host.readUntil(event.ActionSearchResults, nil)

	guest.send(ActionSearch, map[string]any{"name": "bob"})
	host.send(ActionInvite, map[string]any{"id": guest.id})

	var inviter struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	guest.readUntil(event.ActionInvitationReceived, &inviter)
	require.Equal(t, host.id, inviter.ID)
	require.Equal(t, "alice", inviter.Name)

	guest.send(ActionAcceptInvitation, map[string]any{"id": host.id})

	var accepted event.InvitationAcceptedPayload
	host.readUntil(event.ActionInvitationAccepted, &accepted)
	assert.True(t, accepted.IsReadyToMark)
	assert.Equal(t, tictactoe.MarkerCross, accepted.Marker)

	guest.readUntil(event.ActionInvitationAccepted, &accepted)
	assert.False(t, accepted.IsReadyToMark)
	assert.Equal(t, tictactoe.MarkerCircle, accepted.Marker)
}

func TestServer_Game(t *testing.T) {
	t.Run("Mark and surrender on close", func(t *testing.T) {
		// Given: two clients in a game
		httpServer, registry := newTestServer(t)
		host := dial(t, httpServer)
		guest := dial(t, httpServer)
		startGame(t, host, guest)

		// When: the host marks the center
		host.send(ActionMakeMark, map[string]any{"cell": 4})

		// Then: the guest sees the mark and gets the turn
		var placed event.MarkPlacedPayload
		guest.readUntil(event.ActionMarkPlaced, &placed)
		assert.Equal(t, event.MarkPlacedPayload{CellIndex: 4, Marker: tictactoe.MarkerCross, IsReadyToMark: true}, placed)

		// When: the host goes away
		require.NoError(t, host.conn.Close())

		// Then: the guest wins by surrender and the host is forgotten
		guest.readUntil(event.ActionSurrendered, nil)

		var removed event.RemoveFromListPayload
		guest.readUntil(event.ActionRemoveFromList, &removed)
		assert.Equal(t, []string{host.id}, removed.IDs)
		assert.Equal(t, repository.Stats{Players: 1}, registry.Stats())
	})

	t.Run("Leave game", func(t *testing.T) {
		httpServer, _ := newTestServer(t)
		host := dial(t, httpServer)
		guest := dial(t, httpServer)
		startGame(t, host, guest)

		guest.send(ActionLeaveGame, nil)

		host.readUntil(event.ActionOpponentLeft, nil)
	})

	t.Run("Decline invitation", func(t *testing.T) {
		httpServer, _ := newTestServer(t)
		host := dial(t, httpServer)
		guest := dial(t, httpServer)

		host.send(ActionSearch, map[string]any{"name": "alice"})
		host.send(ActionInvite, map[string]any{"id": guest.id})
		guest.readUntil(event.ActionInvitationReceived, nil)

		guest.send(ActionDeclineInvitation, map[string]any{"id": host.id})

		host.readUntil(event.ActionInvitationDeclined, nil)
	})
}

func TestServer_IgnoresBadCommands(t *testing.T) {
	// Given: a connected client
	httpServer, _ := newTestServer(t)
	c := dial(t, httpServer)

	// When: garbage, an unknown action and an invalid name are sent
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	c.send("dance", nil)
	c.send(ActionSearch, map[string]any{"name": ""})
	c.send(ActionMakeMark, map[string]any{})

	// Then: the connection stays usable
	c.send(ActionSearch, map[string]any{"name": "alice"})

	var results event.SearchResultsPayload
	c.readUntil(event.ActionSearchResults, &results)
	require.Len(t, results.Players, 1)
	assert.Equal(t, c.id, results.Players[0].ID)
}

func TestServer_CheckOrigin(t *testing.T) {
	httpServer, _ := newTestServer(t, "https://tictactoe.example")

	header := http.Header{}
	header.Set("Origin", "https://evil.example")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(httpServer), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	header.Set("Origin", "https://tictactoe.example")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(httpServer), header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	_ = conn.Close()
}
