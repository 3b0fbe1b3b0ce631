package ws

// MessageType represents the type of a WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreate MessageType = "create"
	MsgJoin   MessageType = "join"
	MsgStart  MessageType = "start"
	MsgSubmit MessageType = "submit"
	MsgEnd    MessageType = "end"
)

// Server → Client transport message types. Game events are defined in the
// domain package; these cover the connection handshake and errors.
const (
	MsgCreated MessageType = "created"
	MsgJoined  MessageType = "joined"
	MsgError   MessageType = "error"
)

// ClientMessage represents a message from client to server. Fields beyond
// Type are only set for the message kinds that use them.
type ClientMessage struct {
	Type   MessageType `json:"type"`
	Name   string      `json:"name,omitempty"`
	GameID string      `json:"gameId,omitempty"`
	Word   string      `json:"word,omitempty"`
}

// CreatedMsg confirms room creation to the new admin
type CreatedMsg struct {
	Type   MessageType `json:"type"`
	GameID string      `json:"gameId"`
	UserID string      `json:"userId"`
	Name   string      `json:"name"`
}

// JoinedMsg confirms a join to the joining player
type JoinedMsg struct {
	Type   MessageType `json:"type"`
	GameID string      `json:"gameId"`
	UserID string      `json:"userId"`
	Name   string      `json:"name"`
}

// ErrorMsg is a caller-only error event
type ErrorMsg struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
