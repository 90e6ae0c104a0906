package sessions

import (
	"context"
	"sync/atomic"
	"time"

	"ballpop/internal/broadcast"
	"ballpop/internal/events"
	"ballpop/internal/game"
	"ballpop/internal/schedule"
	"ballpop/internal/wshub"
)

// Session is one browser's game together with the channels that carry its
// state out.
type Session struct {
	Code        string
	Game        *game.Game
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	clock    schedule.Clock
	lastSeen atomic.Int64
	cancel   context.CancelFunc
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Touch marks the session as in use. Input that bypasses Store.Get, such as
// WebSocket messages, calls it to keep the session from being swept.
func (s *Session) Touch() {
	s.touch(s.clock.Now())
}

// LastSeen is the last time the session was looked up or touched.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Close stops the game timers and the fan-out goroutines and disconnects
// every WebSocket client.
func (s *Session) Close() {
	s.Game.Close()
	s.Bus.Close()
	s.cancel()
	s.Hub.CloseAll("session closed")
}
