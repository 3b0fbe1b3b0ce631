package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wordbomb/internal/app"
	"wordbomb/internal/config"
	"wordbomb/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents one WebSocket connection. A player identity and a
// session are attached once the client issues create or join.
type Client struct {
	conn     *websocket.Conn
	registry *app.Registry
	cfg      config.GameConfig
	logger   *slog.Logger

	// Set by handleCreate/handleJoin; only touched from the read pump.
	playerID string
	session  *app.Session

	send   chan []byte
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, registry *app.Registry, cfg config.GameConfig, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// PlayerID implements app.ClientConn
func (c *Client) PlayerID() string {
	return c.playerID
}

// Send implements app.ClientConn. Sends to a closed or congested
// connection are dropped.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close shuts down the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.session != nil {
			// Connection loss is an implicit leave.
			if empty := c.session.RemovePlayer(c.playerID); empty {
				c.registry.Delete(c.session.Code())
			}
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client. Malformed
// payloads produce an error without mutation or closing the connection.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreate:
		c.handleCreate(msg)
	case MsgJoin:
		c.handleJoin(msg)
	case MsgStart:
		c.handleStart()
	case MsgSubmit:
		c.handleSubmit(msg)
	case MsgEnd:
		c.handleEnd()
	default:
		c.sendError("unknown message type")
	}
}

// handleCreate creates a player identity and a new room with them as admin
func (c *Client) handleCreate(msg ClientMessage) {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		c.sendError("name is required")
		return
	}
	if c.session != nil {
		c.sendError("already in a game")
		return
	}

	player := domain.NewPlayer(uuid.NewString(), name, c.cfg.StartingLives)
	c.playerID = player.ID
	c.session = c.registry.Create(player, c)

	c.sendMessage(&CreatedMsg{
		Type:   MsgCreated,
		GameID: c.session.Code(),
		UserID: player.ID,
		Name:   player.Name,
	})
}

// handleJoin creates a player identity and joins an existing room
func (c *Client) handleJoin(msg ClientMessage) {
	name := strings.TrimSpace(msg.Name)
	if msg.GameID == "" || name == "" {
		c.sendError("game id and name are required")
		return
	}
	if c.session != nil {
		c.sendError("already in a game")
		return
	}

	player := domain.NewPlayer(uuid.NewString(), name, c.cfg.StartingLives)
	session, err := c.registry.Join(msg.GameID, player, c)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.sendError("game not found")
		case errors.Is(err, domain.ErrGameAlreadyStarted):
			c.sendError("game already started")
		default:
			c.sendError("could not join game")
		}
		return
	}

	c.playerID = player.ID
	c.session = session

	c.sendMessage(&JoinedMsg{
		Type:   MsgJoined,
		GameID: session.Code(),
		UserID: player.ID,
		Name:   player.Name,
	})
}

// handleStart handles a start message from the admin
func (c *Client) handleStart() {
	if c.session == nil {
		c.sendError("not in a game")
		return
	}

	if err := c.session.Start(c.playerID); err != nil {
		c.sendError(err.Error())
	}
}

// handleSubmit handles a word submission
func (c *Client) handleSubmit(msg ClientMessage) {
	if c.session == nil {
		c.sendError("not in a game")
		return
	}

	if err := c.session.Submit(c.playerID, msg.Word); err != nil {
		c.sendError(err.Error())
	}
}

// handleEnd handles an admin force-ending the session
func (c *Client) handleEnd() {
	if c.session == nil {
		c.sendError("not in a game")
		return
	}

	if err := c.session.End(c.playerID); err != nil {
		c.sendError(err.Error())
		return
	}
	c.registry.Delete(c.session.Code())
}

// sendMessage sends a transport-level message to this client
func (c *Client) sendMessage(message interface{}) {
	if err := c.Send(message); err != nil {
		c.logger.Debug("failed to send message", "error", err)
	}
}

// sendError sends a caller-only error event
func (c *Client) sendError(message string) {
	c.sendMessage(&ErrorMsg{Type: MsgError, Message: message})
}
