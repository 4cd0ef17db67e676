package web

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("web: session not found")
	ErrGameOver        = errors.New("web: game is over")
)

// ResultSaver persists finished games.
type ResultSaver interface {
	SaveResult(storage.Result) (string, error)
}

// Session is one board played over HTTP. All access goes through the
// manager, which holds the session lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	game       *game.Game
	lastAccess time.Time
	saved      bool
}

// MoveOutcome describes one applied move.
type MoveOutcome struct {
	Snapshot game.Snapshot
	Changed  bool
	Gained   int
	Spawned  *board.Spawn
}

// SessionManager keeps in-memory sessions keyed by UUID and records each
// session's result once it ends.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	store    ResultSaver
	logger   *log.Logger
	seed     int64
	created  int64
	now      func() time.Time
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithStore records results in s.
func WithStore(s ResultSaver) ManagerOption {
	return func(m *SessionManager) {
		m.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *SessionManager) {
		m.logger = l
	}
}

// WithSeed makes new sessions deterministic. Each session gets its own
// seed derived from base.
func WithSeed(base int64) ManagerOption {
	return func(m *SessionManager) {
		m.seed = base
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

// NewSessionManager creates a manager that evicts sessions idle for
// longer than ttl.
func NewSessionManager(ttl time.Duration, opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session and returns its first snapshot.
func (m *SessionManager) Create() (*Session, game.Snapshot) {
	now := m.now()
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		game:       game.New(),
		lastAccess: now,
	}

	m.mu.Lock()
	cfg := core.DefaultConfig()
	if m.seed != 0 {
		cfg.Seed = m.seed + m.created
	}
	m.created++
	sess.game.Reset(cfg)
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.logger.Debug("session created", "session", sess.ID)
	return sess, sess.game.Snapshot()
}

// Get returns the session with id.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Snapshot returns the current state of a session.
func (m *SessionManager) Snapshot(id string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := m.with(id, func(s *Session) error {
		snap = s.game.Snapshot()
		return nil
	})
	return snap, err
}

// Move applies dir. Moves on a finished game fail with ErrGameOver; the
// session's result is recorded when the move ends the game.
func (m *SessionManager) Move(id string, dir board.Direction) (MoveOutcome, error) {
	var out MoveOutcome
	err := m.with(id, func(s *Session) error {
		res, applied := s.game.Move(dir)
		if !applied {
			return ErrGameOver
		}
		if res.Terminal {
			m.saveResult(s, "game over")
		}
		out = MoveOutcome{
			Snapshot: s.game.Snapshot(),
			Changed:  res.Changed,
			Gained:   res.Gained,
			Spawned:  res.Spawned,
		}
		return nil
	})
	return out, err
}

// Reset restarts a session in place, recording the abandoned game first.
func (m *SessionManager) Reset(id string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := m.with(id, func(s *Session) error {
		m.saveResult(s, "restart")
		s.game.Restart()
		s.saved = false
		snap = s.game.Snapshot()
		return nil
	})
	return snap, err
}

// Delete ends a session.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	m.saveResult(sess, "deleted")
	sess.mu.Unlock()
	return nil
}

// Sweep evicts sessions idle since before now-ttl and returns how many
// were removed.
func (m *SessionManager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	expired := lo.Filter(lo.Values(m.sessions), func(s *Session, _ int) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.lastAccess.Before(cutoff)
	})
	for _, s := range expired {
		delete(m.sessions, s.ID)
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.mu.Lock()
		m.saveResult(s, "expired")
		s.mu.Unlock()
	}
	if len(expired) > 0 {
		m.logger.Info("expired sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// with runs fn under the session lock and marks the session as used.
func (m *SessionManager) with(id string, fn func(*Session) error) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastAccess = m.now()
	return fn(sess)
}

// saveResult records s once. Callers hold s.mu. Sessions without points
// are not recorded.
func (m *SessionManager) saveResult(s *Session, reason string) {
	state := s.game.State()
	if s.saved || state.Score == 0 {
		return
	}
	s.saved = true
	if m.store == nil {
		return
	}

	id, err := m.store.SaveResult(storage.Result{
		Session: s.ID,
		Source:  storage.SourceWeb,
		Score:   state.Score,
		MaxTile: state.MaxTile,
		Moves:   state.Moves,
	})
	if err != nil {
		m.logger.Error("could not save result", "session", s.ID, "error", err)
		return
	}
	m.logger.Debug("result saved", "session", s.ID, "id", id, "reason", reason, "score", state.Score)
}
