package domain

import (
	"strings"
	"time"
)

// MinPlayers is how many players a game needs before it can start
const MinPlayers = 2

// Session is one room's game state. It is a plain state machine with no
// locking; the app layer serializes all access to it.
type Session struct {
	Code          string
	Players       map[string]*Player
	Order         []string // player IDs in join order; defines turn rotation
	Status        Status
	CurrentTurnID string
	Prompt        string
	TurnWords     map[string]struct{} // words played this turn, cleared on every turn start
	TurnSeq       int                 // incremented each armed turn; stale timers carry an old value
	CreatedAt     time.Time
}

// NewSession creates a session in the lobby with admin as its only,
// admin-flagged member.
func NewSession(code string, admin *Player) *Session {
	admin.IsAdmin = true
	return &Session{
		Code:      code,
		Players:   map[string]*Player{admin.ID: admin},
		Order:     []string{admin.ID},
		Status:    StatusLobby,
		TurnWords: make(map[string]struct{}),
		CreatedAt: time.Now(),
	}
}

// AddPlayer adds a player, preserving arrival order. Joining is only
// possible while the session is in the lobby.
func (s *Session) AddPlayer(p *Player) error {
	if s.Status != StatusLobby {
		return ErrGameAlreadyStarted
	}

	s.Players[p.ID] = p
	s.Order = append(s.Order, p.ID)
	return nil
}

// Player returns a player by ID
func (s *Session) Player(id string) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// PlayerCount returns the number of players in the session
func (s *Session) PlayerCount() int {
	return len(s.Players)
}

// IsAdmin reports whether the given player is the session admin
func (s *Session) IsAdmin(id string) bool {
	p, ok := s.Players[id]
	return ok && p.IsAdmin
}

// Roster returns the public view of all players in join order
func (s *Session) Roster() []PlayerInfo {
	roster := make([]PlayerInfo, 0, len(s.Order))
	for _, id := range s.Order {
		roster = append(roster, s.Players[id].Info())
	}
	return roster
}

// alivePlayers returns the players still in turn rotation, in join order
func (s *Session) alivePlayers() []*Player {
	alive := make([]*Player, 0, len(s.Order))
	for _, id := range s.Order {
		if p := s.Players[id]; p.Alive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// Start moves the session from lobby to active. Only the admin may start,
// and only with enough players.
func (s *Session) Start(callerID string) error {
	if !s.IsAdmin(callerID) {
		return ErrNotAdmin
	}
	if s.Status != StatusLobby {
		return ErrGameAlreadyStarted
	}
	if len(s.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	s.Status = StatusActive
	return nil
}

// TurnResult describes the outcome of advancing the turn: either the game
// ended, or a new turn holder with a fresh prompt.
type TurnResult struct {
	GameOver bool
	Winner   string // empty when nobody survived
	Player   *Player
	Prompt   string
	Seq      int
}

// NextTurn runs the turn-advance algorithm. With one or zero alive players
// it ends the game; otherwise it picks the next holder in join order,
// generates a fresh prompt, clears the turn word history, and bumps the
// turn sequence for the timer the caller is about to arm.
func (s *Session) NextTurn() TurnResult {
	alive := s.alivePlayers()

	if len(alive) <= 1 {
		s.Status = StatusOver
		s.CurrentTurnID = ""
		var winner string
		if len(alive) == 1 {
			winner = alive[0].Name
		}
		return TurnResult{GameOver: true, Winner: winner}
	}

	next := 0
	if s.CurrentTurnID != "" {
		// A holder that was just eliminated or removed is absent from
		// alive; the scan then yields -1 and the turn wraps to alive[0].
		idx := -1
		for i, p := range alive {
			if p.ID == s.CurrentTurnID {
				idx = i
				break
			}
		}
		next = (idx + 1) % len(alive)
	}

	holder := alive[next]
	s.CurrentTurnID = holder.ID
	s.Prompt = NewPrompt()
	s.TurnWords = make(map[string]struct{})
	s.TurnSeq++

	return TurnResult{Player: holder, Prompt: s.Prompt, Seq: s.TurnSeq}
}

// SubmitWord validates and records a submission by the current turn holder.
// It returns the normalized word; the caller advances the turn on success.
func (s *Session) SubmitWord(callerID, word string) (string, error) {
	if s.Status != StatusActive || s.CurrentTurnID != callerID {
		return "", ErrNotYourTurn
	}

	normalized := strings.ToLower(strings.TrimSpace(word))
	if err := ValidateWord(normalized, s.Prompt, s.TurnWords); err != nil {
		return "", err
	}

	s.TurnWords[normalized] = struct{}{}
	return normalized, nil
}

// TimeoutResult describes the penalty applied when a turn expires
type TimeoutResult struct {
	Player     *Player
	Eliminated bool
}

// Timeout applies the countdown expiry for the turn identified by seq. A
// timer armed for an earlier turn, or one firing after the game ended,
// reports false and changes nothing.
func (s *Session) Timeout(seq int) (TimeoutResult, bool) {
	if s.Status != StatusActive || seq != s.TurnSeq {
		return TimeoutResult{}, false
	}

	p, ok := s.Players[s.CurrentTurnID]
	if !ok {
		return TimeoutResult{}, false
	}

	p.Lives--
	if p.Lives <= 0 {
		p.Eliminated = true
		return TimeoutResult{Player: p, Eliminated: true}, true
	}
	return TimeoutResult{Player: p}, true
}

// RemoveResult describes the membership fallout of a player leaving
type RemoveResult struct {
	Player         *Player
	Empty          bool
	NewAdmin       *Player
	WasCurrentTurn bool
}

// RemovePlayer deletes a player from the session. When the admin leaves,
// the next remaining player in join order is promoted. The caller advances
// the turn, without a life penalty, if the holder left mid-game.
func (s *Session) RemovePlayer(id string) (RemoveResult, bool) {
	p, ok := s.Players[id]
	if !ok {
		return RemoveResult{}, false
	}

	delete(s.Players, id)
	for i, pid := range s.Order {
		if pid == id {
			s.Order = append(s.Order[:i], s.Order[i+1:]...)
			break
		}
	}

	res := RemoveResult{Player: p}
	if len(s.Players) == 0 {
		res.Empty = true
		return res, true
	}

	if p.IsAdmin {
		successor := s.Players[s.Order[0]]
		successor.IsAdmin = true
		res.NewAdmin = successor
	}

	res.WasCurrentTurn = s.Status == StatusActive && s.CurrentTurnID == id
	return res, true
}

// End force-ends the session. Only the admin may end it.
func (s *Session) End(callerID string) error {
	if !s.IsAdmin(callerID) {
		return ErrNotAdmin
	}
	s.Status = StatusOver
	s.CurrentTurnID = ""
	return nil
}
