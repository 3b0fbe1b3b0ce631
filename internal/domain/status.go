package domain

// Status represents the lifecycle state of a session
type Status string

const (
	StatusLobby  Status = "LOBBY"  // Waiting for players to join
	StatusActive Status = "ACTIVE" // Turns are running
	StatusOver   Status = "OVER"   // Terminal; no further turns
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
