package game

import (
	"time"

	"ballpop/internal/balls"
)

// ClickRecord describes one click that reached an active ball.
type ClickRecord struct {
	Epoch      uint64
	BallID     int
	ClickType  balls.ClickType
	Outcome    balls.Outcome
	Gap        time.Duration // zero for the first click on a ball
	ClickedAt  time.Time
	ScoreAfter int
}

// RunRecord summarizes a session that reached the winning score.
type RunRecord struct {
	Epoch          uint64
	StartedAt      time.Time
	EndedAt        time.Time
	ElapsedSeconds int
	Clicks         int
	Pops           int
	Mismatches     int
}

// Recorder observes clicks and finished runs. Implementations must not block;
// they are called outside the game lock but on the caller's goroutine.
type Recorder interface {
	RecordClick(ClickRecord)
	RecordRun(RunRecord)
}

type nopRecorder struct{}

func (nopRecorder) RecordClick(ClickRecord) {}
func (nopRecorder) RecordRun(RunRecord)     {}

// Recorders fans out to every recorder in the slice.
type Recorders []Recorder

func (rs Recorders) RecordClick(c ClickRecord) {
	for _, r := range rs {
		r.RecordClick(c)
	}
}

func (rs Recorders) RecordRun(run RunRecord) {
	for _, r := range rs {
		r.RecordRun(run)
	}
}

// runRecord must be called with g.mu held.
func (g *Game) runRecord(now time.Time) *RunRecord {
	return &RunRecord{
		Epoch:          g.epoch,
		StartedAt:      g.startTime,
		EndedAt:        now,
		ElapsedSeconds: g.elapsed,
		Clicks:         g.stats.clicks,
		Pops:           g.stats.pops,
		Mismatches:     g.stats.mismatches,
	}
}
