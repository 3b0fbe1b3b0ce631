package app

import (
	"crypto/rand"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wordbomb/internal/config"
	"wordbomb/internal/domain"
)

const (
	// codeAttempts bounds short-code collision retries before escalating
	// to the high-entropy fallback
	codeAttempts = 10

	// staleSessionTimeout is how long an empty session may linger before
	// the cleanup loop removes it
	staleSessionTimeout = 2 * time.Hour

	cleanupInterval = 10 * time.Minute
)

// roomCodeChars are characters used for room codes (no ambiguous chars)
const roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Registry owns all live sessions and the room-code namespace. Codes are
// stored and compared in uppercase.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      config.GameConfig
	logger   *slog.Logger
	done     chan struct{}
}

// NewRegistry creates a session registry and starts its cleanup loop
func NewRegistry(cfg config.GameConfig, logger *slog.Logger) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go r.cleanupLoop()

	return r
}

// Create registers a new session with admin as its sole member and emits
// room_created to them.
func (r *Registry) Create(admin *domain.Player, conn ClientConn) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCode()
	session := NewSession(domain.NewSession(code, admin), r.cfg.TurnLimit, r.logger)
	r.sessions[code] = session

	session.registerClient(conn)
	session.broadcast(domain.NewRoomCreated(code))

	r.logger.Info("session created", "room", code, "admin", admin.Name)
	return session
}

// Join adds a player to the session identified by code. It fails without
// mutation when the code is unknown or the session has left the lobby.
func (r *Registry) Join(code string, p *domain.Player, conn ClientConn) (*Session, error) {
	session, err := r.Get(code)
	if err != nil {
		return nil, err
	}

	if err := session.Join(p, conn); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns a session by room code, case-insensitively
func (r *Registry) Get(code string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session, cancelling any pending timer
func (r *Registry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = strings.ToUpper(code)
	if session, ok := r.sessions[code]; ok {
		session.Close()
		delete(r.sessions, code)
		r.logger.Info("session deleted", "room", code)
	}
}

// SessionCount returns the number of live sessions
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PlayerCount returns the total number of players across all sessions
func (r *Registry) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, session := range r.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the registry and all sessions
func (r *Registry) Close() {
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		session.Close()
	}
	r.sessions = make(map[string]*Session)
}

// generateCode picks a short, human-typeable code, retrying on collision a
// bounded number of times, then falls back to a full UUID, which lives in a
// longer namespace and is accepted unconditionally. Caller must hold mu.
func (r *Registry) generateCode() string {
	for i := 0; i < codeAttempts; i++ {
		code := shortCode(r.cfg.RoomCodeLength)
		if _, taken := r.sessions[code]; !taken {
			return code
		}
	}
	return strings.ToUpper(uuid.NewString())
}

// shortCode generates a random code of the given length
func shortCode(length int) string {
	b := make([]byte, length)
	rand.Read(b)

	for i := range b {
		b[i] = roomCodeChars[int(b[i])%len(roomCodeChars)]
	}
	return string(b)
}

// cleanupLoop periodically removes stale sessions
func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.cleanupStaleSessions()
		}
	}
}

// cleanupStaleSessions removes sessions that emptied out without being
// deleted and have been inactive for too long.
func (r *Registry) cleanupStaleSessions() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for code, session := range r.sessions {
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > staleSessionTimeout {
			session.Close()
			delete(r.sessions, code)
			r.logger.Info("stale session cleaned up", "room", code)
		}
	}
}
