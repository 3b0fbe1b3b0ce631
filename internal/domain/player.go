package domain

import "time"

// Player represents a member of a session. The connection handle for a
// player lives in the app layer; the domain only knows game state.
type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Lives      int       `json:"lifes"`
	IsAdmin    bool      `json:"admin"`
	Eliminated bool      `json:"eliminated"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given starting lives
func NewPlayer(id, name string, lives int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Lives:    lives,
		JoinedAt: time.Now(),
	}
}

// Alive reports whether the player still participates in turn rotation
func (p *Player) Alive() bool {
	return !p.Eliminated && p.Lives > 0
}

// PlayerInfo is the public roster view of a player
type PlayerInfo struct {
	Name       string `json:"name"`
	Lives      int    `json:"lifes"`
	Eliminated bool   `json:"eliminated"`
}

// Info converts a Player to its roster view
func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		Name:       p.Name,
		Lives:      p.Lives,
		Eliminated: p.Eliminated,
	}
}
