package ws

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordbomb/internal/app"
	"wordbomb/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newTestServer(t *testing.T) (*httptest.Server, *app.Registry) {
	t.Helper()

	cfg := config.GameConfig{StartingLives: 5, TurnLimit: 6 * time.Second, RoomCodeLength: 4}
	registry := app.NewRegistry(cfg, testLogger())
	t.Cleanup(registry.Close)

	server := httptest.NewServer(NewHandler(registry, cfg, testLogger()))
	t.Cleanup(server.Close)

	return server, registry
}

// wsClient wraps a dialed connection and unbatches newline-joined frames
type wsClient struct {
	conn  *websocket.Conn
	queue [][]byte
}

func dial(t *testing.T, server *httptest.Server) *wsClient {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wsClient{conn: conn}
}

func (c *wsClient) write(t *testing.T, msg interface{}) {
	t.Helper()
	require.NoError(t, c.conn.WriteJSON(msg))
}

func (c *wsClient) writeRaw(t *testing.T, data string) {
	t.Helper()
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte(data)))
}

// next reads the next server message as a generic map
func (c *wsClient) next(t *testing.T) map[string]interface{} {
	t.Helper()

	for len(c.queue) == 0 {
		c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := c.conn.ReadMessage()
		require.NoError(t, err)

		for _, part := range bytes.Split(data, []byte{'\n'}) {
			if len(part) > 0 {
				c.queue = append(c.queue, part)
			}
		}
	}

	head := c.queue[0]
	c.queue = c.queue[1:]

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(head, &msg))
	return msg
}

// nextOfType reads messages until one of the given type arrives
func (c *wsClient) nextOfType(t *testing.T, msgType string) map[string]interface{} {
	t.Helper()

	for i := 0; i < 20; i++ {
		msg := c.next(t)
		if msg["type"] == msgType {
			return msg
		}
	}
	t.Fatalf("no %q message received", msgType)
	return nil
}

func TestHandler_CreateRoom(t *testing.T) {
	server, registry := newTestServer(t)

	conn := dial(t, server)
	conn.write(t, map[string]string{"type": "create", "name": "Alice"})

	created := conn.nextOfType(t, "room_created")
	roomID, _ := created["roomId"].(string)
	assert.NotEmpty(t, roomID)

	reply := conn.nextOfType(t, "created")
	assert.Equal(t, roomID, reply["gameId"])
	assert.Equal(t, "Alice", reply["name"])
	assert.NotEmpty(t, reply["userId"])

	require.Eventually(t, func() bool {
		return registry.SessionCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHandler_CreateRequiresName(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server)
	conn.write(t, map[string]string{"type": "create", "name": "   "})

	errMsg := conn.nextOfType(t, "error")
	assert.Equal(t, "name is required", errMsg["message"])
}

func TestHandler_MalformedMessageKeepsConnectionOpen(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server)
	conn.writeRaw(t, "this is not json")

	errMsg := conn.nextOfType(t, "error")
	assert.Equal(t, "invalid message format", errMsg["message"])

	// The connection survived the bad payload
	conn.write(t, map[string]string{"type": "create", "name": "Alice"})
	conn.nextOfType(t, "created")
}

func TestHandler_JoinAndStartFlow(t *testing.T) {
	server, _ := newTestServer(t)

	alice := dial(t, server)
	alice.write(t, map[string]string{"type": "create", "name": "Alice"})
	created := alice.nextOfType(t, "created")
	gameID := created["gameId"].(string)
	aliceID := created["userId"].(string)

	bob := dial(t, server)
	bob.write(t, map[string]string{"type": "join", "gameId": gameID, "name": "Bob"})

	// The roster broadcast reaches both members, joiner included; the
	// joiner sees it before their join confirmation.
	for _, c := range []*wsClient{alice, bob} {
		update := c.nextOfType(t, "user_joined")
		assert.Equal(t, "Bob", update["user"])
		players := update["players"].([]interface{})
		require.Len(t, players, 2)
		first := players[0].(map[string]interface{})
		assert.Equal(t, "Alice", first["name"])
		assert.Equal(t, float64(5), first["lifes"])
		assert.Equal(t, false, first["eliminated"])
	}

	joined := bob.nextOfType(t, "joined")
	assert.Equal(t, gameID, joined["gameId"])

	// Only the admin can start
	bob.write(t, map[string]string{"type": "start"})
	errMsg := bob.nextOfType(t, "error")
	assert.Contains(t, errMsg["message"], "admin")

	alice.write(t, map[string]string{"type": "start"})
	for _, c := range []*wsClient{alice, bob} {
		turn := c.nextOfType(t, "new_turn")
		assert.Equal(t, aliceID, turn["playerId"])
		assert.Equal(t, "Alice", turn["playerName"])
		assert.Equal(t, float64(6000), turn["timeLimit"])
		set := turn["set"].(string)
		assert.GreaterOrEqual(t, len(set), 2)
		assert.LessOrEqual(t, len(set), 4)
	}
}

func TestHandler_JoinUnknownRoom(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server)
	conn.write(t, map[string]string{"type": "join", "gameId": "ZZZZ", "name": "Bob"})

	errMsg := conn.nextOfType(t, "error")
	assert.Equal(t, "game not found", errMsg["message"])
}

func TestHandler_EndDeletesSession(t *testing.T) {
	server, registry := newTestServer(t)

	alice := dial(t, server)
	alice.write(t, map[string]string{"type": "create", "name": "Alice"})
	created := alice.nextOfType(t, "created")
	gameID := created["gameId"].(string)

	bob := dial(t, server)
	bob.write(t, map[string]string{"type": "join", "gameId": gameID, "name": "Bob"})
	bob.nextOfType(t, "joined")

	alice.write(t, map[string]string{"type": "end"})
	for _, c := range []*wsClient{alice, bob} {
		c.nextOfType(t, "game_ended")
	}

	require.Eventually(t, func() bool {
		return registry.SessionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHandler_DisconnectBroadcastsUserLeft(t *testing.T) {
	server, registry := newTestServer(t)

	alice := dial(t, server)
	alice.write(t, map[string]string{"type": "create", "name": "Alice"})
	created := alice.nextOfType(t, "created")
	gameID := created["gameId"].(string)

	bob := dial(t, server)
	bob.write(t, map[string]string{"type": "join", "gameId": gameID, "name": "Bob"})
	bob.nextOfType(t, "joined")

	require.NoError(t, bob.conn.Close())

	left := alice.nextOfType(t, "user_left")
	assert.Equal(t, "Bob", left["user"])
	players := left["players"].([]interface{})
	require.Len(t, players, 1)

	// The room stays alive with Alice in it
	assert.Equal(t, 1, registry.SessionCount())
}
