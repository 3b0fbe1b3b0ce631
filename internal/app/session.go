package app

import (
	"log/slog"
	"sync"
	"time"

	"wordbomb/internal/domain"
)

// ClientConn is the transport-side handle the session uses to address one
// player. The transport owns the connection lifecycle; the session only
// sends, and a send to a closed connection is dropped by the transport.
type ClientConn interface {
	Send(message interface{}) error
	PlayerID() string
}

// Session wraps a room's state machine with single-writer concurrency
// control, the per-turn countdown timer, and client fan-out.
//
// Every event source (join, start, submit, timeout, remove, end) runs to
// completion under mu, so no partial state is ever visible to another
// event. The countdown is cancelled before any transition that ends its
// turn, and a stale expiry that still fires is rejected by its turn
// sequence number.
type Session struct {
	mu   sync.Mutex
	game *domain.Session

	clientsMu sync.RWMutex
	clients   map[string]ClientConn

	timer     *time.Timer
	turnLimit time.Duration
	logger    *slog.Logger
}

// NewSession creates the engine around a domain session
func NewSession(game *domain.Session, turnLimit time.Duration, logger *slog.Logger) *Session {
	return &Session{
		game:      game,
		clients:   make(map[string]ClientConn),
		turnLimit: turnLimit,
		logger:    logger.With("room", game.Code),
	}
}

// Code returns the room code
func (s *Session) Code() string {
	return s.game.Code
}

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time {
	return s.game.CreatedAt
}

// PlayerCount returns the number of players
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.PlayerCount()
}

// Status returns the current session status
func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Status
}

// CanJoin checks if a new player can still join
func (s *Session) CanJoin() bool {
	return s.Status() == domain.StatusLobby
}

// Join adds a player and their connection and broadcasts the updated roster
// to every member, the joiner included.
func (s *Session) Join(p *domain.Player, conn ClientConn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.AddPlayer(p); err != nil {
		return err
	}

	s.registerClient(conn)
	s.broadcast(domain.NewUserJoined(p.Name, s.game.Roster()))
	s.logger.Info("player joined", "player", p.Name)
	return nil
}

// Start begins the game and arms the first turn
func (s *Session) Start(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Start(callerID); err != nil {
		return err
	}

	s.logger.Info("game started", "players", s.game.PlayerCount())
	s.advanceLocked()
	return nil
}

// Submit handles a word submission by the current turn holder. On success
// the word is broadcast and the turn advances immediately.
func (s *Session) Submit(callerID, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized, err := s.game.SubmitWord(callerID, word)
	if err != nil {
		return err
	}

	p, _ := s.game.Player(callerID)
	s.broadcast(domain.NewWordAccepted(normalized, p.Name))
	s.advanceLocked()
	return nil
}

// RemovePlayer handles a disconnect or explicit leave. It reports true when
// the session emptied and should be deleted from the registry. Losing the
// current turn holder advances the turn without a life penalty.
func (s *Session) RemovePlayer(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.game.RemovePlayer(playerID)
	if !ok {
		return false
	}

	s.unregisterClient(playerID)

	if res.Empty {
		s.cancelTimerLocked()
		return true
	}

	s.broadcast(domain.NewUserLeft(res.Player.Name, s.game.Roster()))
	s.logger.Info("player left", "player", res.Player.Name)

	if res.NewAdmin != nil {
		s.broadcast(domain.NewNewAdmin(res.NewAdmin.Name))
		s.logger.Info("admin promoted", "player", res.NewAdmin.Name)
	}

	if res.WasCurrentTurn {
		s.advanceLocked()
	}
	return false
}

// End force-ends the session. The caller deletes it from the registry on
// success.
func (s *Session) End(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.End(callerID); err != nil {
		return err
	}

	s.cancelTimerLocked()
	s.broadcast(domain.NewGameEnded())
	s.logger.Info("game ended by admin")
	return nil
}

// Close cancels any pending timer and drops client references. The
// connections themselves belong to the transport and stay open.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.mu.Unlock()

	s.clientsMu.Lock()
	s.clients = make(map[string]ClientConn)
	s.clientsMu.Unlock()
}

// advanceLocked runs the turn-advance algorithm: cancel the pending timer,
// resolve game over or pick the next holder, and arm a fresh countdown
// bound to the new turn's sequence number. Caller must hold mu.
func (s *Session) advanceLocked() {
	s.cancelTimerLocked()

	res := s.game.NextTurn()
	if res.GameOver {
		s.broadcast(domain.NewGameOver(res.Winner))
		s.logger.Info("game over", "winner", res.Winner)
		return
	}

	s.broadcast(domain.NewNewTurn(res.Player.ID, res.Player.Name, res.Prompt, s.turnLimit.Milliseconds()))

	seq := res.Seq
	s.timer = time.AfterFunc(s.turnLimit, func() {
		s.handleTimeout(seq)
	})
}

// handleTimeout fires when a turn's countdown expires. A timer armed for a
// turn that has since resolved carries a stale sequence number and is a
// no-op.
func (s *Session) handleTimeout(seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.game.Timeout(seq)
	if !ok {
		return
	}

	if res.Eliminated {
		s.broadcast(domain.NewPlayerEliminated(res.Player.Name))
		s.logger.Info("player eliminated", "player", res.Player.Name)
	} else {
		s.broadcast(domain.NewLifeLost(res.Player.Name, res.Player.Lives))
	}

	s.advanceLocked()
}

func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) registerClient(conn ClientConn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[conn.PlayerID()] = conn
}

func (s *Session) unregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// broadcast sends a message to every connected member. Delivery is
// best-effort; failed sends are dropped.
func (s *Session) broadcast(message interface{}) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for playerID, conn := range s.clients {
		if err := conn.Send(message); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}
