package domain

// EventType represents the type of an outbound game event
type EventType string

const (
	EventRoomCreated      EventType = "room_created"
	EventUserJoined       EventType = "user_joined"
	EventNewTurn          EventType = "new_turn"
	EventWordAccepted     EventType = "word_accepted"
	EventLifeLost         EventType = "life_lost"
	EventPlayerEliminated EventType = "player_eliminated"
	EventGameOver         EventType = "game_over"
	EventUserLeft         EventType = "user_left"
	EventNewAdmin         EventType = "new_admin"
	EventGameEnded        EventType = "game_ended"
)

// WinnerNobody is broadcast as the winner when no player survived
const WinnerNobody = "No one"

// RoomCreatedMsg announces a freshly created room to its admin
type RoomCreatedMsg struct {
	Type   EventType `json:"type"`
	RoomID string    `json:"roomId"`
}

// NewRoomCreated creates a room_created event
func NewRoomCreated(roomID string) *RoomCreatedMsg {
	return &RoomCreatedMsg{Type: EventRoomCreated, RoomID: roomID}
}

// UserJoinedMsg carries the full roster after a join
type UserJoinedMsg struct {
	Type    EventType    `json:"type"`
	User    string       `json:"user"`
	Players []PlayerInfo `json:"players"`
}

// NewUserJoined creates a user_joined event
func NewUserJoined(user string, players []PlayerInfo) *UserJoinedMsg {
	return &UserJoinedMsg{Type: EventUserJoined, User: user, Players: players}
}

// NewTurnMsg announces the next turn holder and their prompt
type NewTurnMsg struct {
	Type       EventType `json:"type"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Set        string    `json:"set"`
	TimeLimit  int64     `json:"timeLimit"` // milliseconds
}

// NewNewTurn creates a new_turn event
func NewNewTurn(playerID, playerName, set string, timeLimit int64) *NewTurnMsg {
	return &NewTurnMsg{
		Type:       EventNewTurn,
		PlayerID:   playerID,
		PlayerName: playerName,
		Set:        set,
		TimeLimit:  timeLimit,
	}
}

// WordAcceptedMsg announces a successful submission
type WordAcceptedMsg struct {
	Type EventType `json:"type"`
	Word string    `json:"word"`
	User string    `json:"user"`
}

// NewWordAccepted creates a word_accepted event
func NewWordAccepted(word, user string) *WordAcceptedMsg {
	return &WordAcceptedMsg{Type: EventWordAccepted, Word: word, User: user}
}

// LifeLostMsg announces a timeout penalty
type LifeLostMsg struct {
	Type  EventType `json:"type"`
	User  string    `json:"user"`
	Lives int       `json:"lifes"`
}

// NewLifeLost creates a life_lost event
func NewLifeLost(user string, lives int) *LifeLostMsg {
	return &LifeLostMsg{Type: EventLifeLost, User: user, Lives: lives}
}

// PlayerEliminatedMsg announces a player running out of lives
type PlayerEliminatedMsg struct {
	Type EventType `json:"type"`
	User string    `json:"user"`
}

// NewPlayerEliminated creates a player_eliminated event
func NewPlayerEliminated(user string) *PlayerEliminatedMsg {
	return &PlayerEliminatedMsg{Type: EventPlayerEliminated, User: user}
}

// GameOverMsg announces the end of the game and its winner
type GameOverMsg struct {
	Type   EventType `json:"type"`
	Winner string    `json:"winner"`
}

// NewGameOver creates a game_over event. An empty winner means nobody
// survived and the sentinel value is broadcast instead.
func NewGameOver(winner string) *GameOverMsg {
	if winner == "" {
		winner = WinnerNobody
	}
	return &GameOverMsg{Type: EventGameOver, Winner: winner}
}

// UserLeftMsg carries the updated roster after a departure
type UserLeftMsg struct {
	Type    EventType    `json:"type"`
	User    string       `json:"user"`
	Players []PlayerInfo `json:"players"`
}

// NewUserLeft creates a user_left event
func NewUserLeft(user string, players []PlayerInfo) *UserLeftMsg {
	return &UserLeftMsg{Type: EventUserLeft, User: user, Players: players}
}

// NewAdminMsg announces admin succession
type NewAdminMsg struct {
	Type EventType `json:"type"`
	User string    `json:"user"`
}

// NewNewAdmin creates a new_admin event
func NewNewAdmin(user string) *NewAdminMsg {
	return &NewAdminMsg{Type: EventNewAdmin, User: user}
}

// GameEndedMsg announces that the admin force-ended the session
type GameEndedMsg struct {
	Type EventType `json:"type"`
}

// NewGameEnded creates a game_ended event
func NewGameEnded() *GameEndedMsg {
	return &GameEndedMsg{Type: EventGameEnded}
}
