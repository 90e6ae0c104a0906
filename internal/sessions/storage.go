package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ballpop/internal/broadcast"
	"ballpop/internal/events"
	"ballpop/internal/game"
	"ballpop/internal/schedule"
	"ballpop/internal/tone"
	"ballpop/internal/wshub"
)

var ErrNotFound = errors.New("session not found")

const (
	defaultTTL    = 1 * time.Hour
	sweepInterval = 5 * time.Minute
)

type Config struct {
	Game  game.Config
	TTL   time.Duration
	Clock schedule.Clock
	// Recorder, if set, builds the recorder for a new session's game.
	Recorder func(code string) game.Recorder
	// OnClose, if set, runs after a session is removed and closed.
	OnClose func(code string)
	Logger  *slog.Logger
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      Config
	logger   *slog.Logger
}

func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = schedule.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "sessions"),
	}
}

func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := NewCode()
		if err != nil {
			return nil, fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.sessions[code]; exists {
			continue
		}

		sess := s.newSession(code)
		s.sessions[code] = sess
		s.logger.Info("session created", "code", code)
		return sess, nil
	}
	return nil, fmt.Errorf("failed to generate unique session code after 10 attempts")
}

// newSession wires the game to its bus, broadcaster, hub and tone sinks.
func (s *Store) newSession(code string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	bus := events.NewBus()
	hub := wshub.NewHub(s.cfg.Logger)

	sess := &Session{
		Code:      code,
		Bus:       bus,
		Hub:       hub,
		CreatedAt: s.cfg.Clock.Now(),
		clock:     s.cfg.Clock,
		cancel:    cancel,
	}
	sess.touch(sess.CreatedAt)

	var opts []game.Option
	if s.cfg.Recorder != nil {
		opts = append(opts, game.WithRecorder(s.cfg.Recorder(code)))
	}

	// Tones are only played on clicks, which cannot arrive before Create
	// returns, so the sink may read sess.Broadcaster lazily.
	player := tone.NewDispatcher(func(c tone.Cue) { sess.Broadcaster.PublishTone(c) })
	g := game.New(s.cfg.Game, s.cfg.Clock, player, bus, opts...)
	sess.Game = g
	sess.Broadcaster = broadcast.NewBroadcaster(bus, func() any { return g.View() }, s.cfg.Logger)

	go hub.Forward(ctx, sess.Broadcaster.Subscribe())
	return sess
}

// Get returns the session for code and marks it as seen.
func (s *Store) Get(code string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[code]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.cfg.Clock.Now())
	return sess, nil
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	sess, ok := s.sessions[code]
	delete(s.sessions, code)
	s.mu.Unlock()
	if ok {
		s.closeSession(sess)
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SweepStale closes sessions not seen within the TTL and returns how many
// were removed.
func (s *Store) SweepStale(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for code, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.cfg.TTL {
			stale = append(stale, sess)
			delete(s.sessions, code)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		s.closeSession(sess)
	}
	if len(stale) > 0 {
		s.logger.Info("swept stale sessions", "count", len(stale))
	}
	return len(stale)
}

// Run sweeps stale sessions periodically until ctx ends, then closes every
// remaining session.
func (s *Store) Run(ctx context.Context) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			s.SweepStale(s.cfg.Clock.Now())
		}
	}
}

func (s *Store) closeAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range all {
		s.closeSession(sess)
	}
}

func (s *Store) closeSession(sess *Session) {
	sess.Close()
	if s.cfg.OnClose != nil {
		s.cfg.OnClose(sess.Code)
	}
}
