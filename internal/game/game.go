package game

import (
	"slices"
	"sync"
	"time"

	"ballpop/internal/balls"
	"ballpop/internal/events"
	"ballpop/internal/mascot"
	"ballpop/internal/schedule"
	"ballpop/internal/tone"

	"github.com/samber/lo"
)

type Config struct {
	PopDelay        time.Duration
	TickInterval    time.Duration
	WarningDuration time.Duration
	BackURL         string
}

func DefaultConfig() Config {
	return Config{
		PopDelay:        500 * time.Millisecond,
		TickInterval:    1 * time.Second,
		WarningDuration: 1 * time.Second,
	}
}

// View is the read-only state handed to the presentation layer.
type View struct {
	Epoch           uint64         `json:"epoch"`
	Balls           []balls.Ball   `json:"balls"`
	Score           int            `json:"score"`
	ElapsedTime     int            `json:"elapsedTime"`
	GameOver        bool           `json:"gameOver"`
	MascotEmotion   mascot.Emotion `json:"mascotEmotion"`
	MascotMessage   string         `json:"mascotMessage"`
	ShowCelebration bool           `json:"showCelebration"`
	ShowWarning     bool           `json:"showWarning"`
	WarningText     string         `json:"warningText"`
	Celebration     *Celebration   `json:"celebration,omitempty"`
	BackURL         string         `json:"backUrl,omitempty"`
}

type Celebration struct {
	Title       string `json:"title"`
	Score       string `json:"score"`
	ElapsedTime int    `json:"elapsedTime"`
}

type Game struct {
	mu       sync.Mutex
	cfg      Config
	clock    schedule.Clock
	tone     tone.Player
	bus      *events.Bus
	recorder Recorder

	epoch     uint64
	closed    bool
	ticker    schedule.Task
	balls     []balls.Ball
	score     int
	startTime time.Time
	elapsed   int
	gameOver  bool
	mood      mascot.Mood
	celebrate bool
	warning   bool
	warnSeq   uint64
	stats     runStats
}

type runStats struct {
	clicks     int
	pops       int
	mismatches int
}

type Option func(*Game)

func WithRecorder(r Recorder) Option {
	return func(g *Game) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New creates a game and starts its first session. player and bus may be nil.
func New(cfg Config, clock schedule.Clock, player tone.Player, bus *events.Bus, opts ...Option) *Game {
	if clock == nil {
		clock = schedule.Real()
	}
	if player == nil {
		player = tone.Nop{}
	}
	g := &Game{
		cfg:      cfg,
		clock:    clock,
		tone:     player,
		bus:      bus,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.Initialize()
	return g
}

// Initialize discards the current session and starts a fresh one.
func (g *Game) Initialize() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	if g.ticker != nil {
		g.ticker.Stop()
	}
	g.epoch++
	epoch := g.epoch
	g.balls = balls.NewSet()
	g.score = 0
	g.startTime = g.clock.Now()
	g.elapsed = 0
	g.gameOver = false
	g.mood = mascot.Initial()
	g.celebrate = false
	g.stats = runStats{}
	g.ticker = g.clock.Every(g.cfg.TickInterval, func() {
		g.tick(epoch, g.clock.Now())
	})
	g.mu.Unlock()

	g.publish(events.ChangeRestart, epoch)
}

// Click handles a click on ballID at the game clock's current time.
func (g *Game) Click(ballID int) balls.Outcome {
	return g.HandleClick(ballID, g.clock.Now())
}

// HandleClick applies one click to the ball with ballID. Unknown ids, balls
// that are already popping and clicks on a closed game are ignored.
func (g *Game) HandleClick(ballID int, now time.Time) balls.Outcome {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return balls.Ignored
	}
	idx := slices.IndexFunc(g.balls, func(b balls.Ball) bool { return b.ID == ballID })
	if idx < 0 || g.balls[idx].Status != balls.Active {
		g.mu.Unlock()
		return balls.Ignored
	}

	prev := g.balls[idx]
	next, outcome := balls.Classify(prev, now)
	g.balls[idx] = next
	g.stats.clicks++

	var cues []tone.Kind
	switch outcome {
	case balls.Pop:
		g.stats.pops++
		cues = append(cues, tone.Correct)
	case balls.Mismatch:
		g.stats.mismatches++
		g.mood.Message = mascot.MismatchHint
		cues = append(cues, tone.Error)
	}

	var run *RunRecord
	if points := outcome.Points(); points > 0 {
		wasOver := g.gameOver
		g.score += points
		if g.applyScore(now) {
			cues = append(cues, tone.Correct)
		}
		if g.gameOver && !wasOver {
			run = g.runRecord(now)
		}
	}

	g.checkAllPopping()

	epoch := g.epoch
	if outcome == balls.Pop {
		g.clock.AfterFunc(g.cfg.PopDelay, func() {
			g.removePopped(epoch)
		})
	}

	click := ClickRecord{
		Epoch:      epoch,
		BallID:     ballID,
		ClickType:  prev.ClickType,
		Outcome:    outcome,
		ClickedAt:  now,
		ScoreAfter: g.score,
	}
	if !prev.LastClickTime.IsZero() {
		click.Gap = now.Sub(prev.LastClickTime)
	}
	g.mu.Unlock()

	for _, k := range cues {
		g.tone.Play(k)
	}
	g.recorder.RecordClick(click)
	if run != nil {
		g.recorder.RecordRun(*run)
	}
	g.publish(events.ChangeClick, epoch)
	return outcome
}

// applyScore re-derives everything that depends on the score. It reports
// whether the win was reached by this call. Must be called with g.mu held.
func (g *Game) applyScore(now time.Time) bool {
	if mood, ok := mascot.ForScore(g.score); ok {
		g.mood = mood
	}
	if g.score != mascot.WinScore || g.gameOver {
		return false
	}
	g.gameOver = true
	g.celebrate = true
	g.elapsed = max(g.elapsed, g.elapsedAt(now))
	if g.ticker != nil {
		g.ticker.Stop()
	}
	return true
}

// checkAllPopping shows the celebration once every ball on the board is
// popping, independent of the score. Must be called with g.mu held.
func (g *Game) checkAllPopping() {
	if len(g.balls) == 0 {
		return
	}
	if lo.EveryBy(g.balls, func(b balls.Ball) bool { return b.Status == balls.Popping }) {
		g.celebrate = true
	}
}

func (g *Game) removePopped(epoch uint64) {
	g.mu.Lock()
	if g.closed || epoch != g.epoch {
		g.mu.Unlock()
		return
	}
	before := len(g.balls)
	g.balls = lo.Reject(g.balls, func(b balls.Ball, _ int) bool { return b.Status == balls.Popping })
	removed := before != len(g.balls)
	g.mu.Unlock()

	if removed {
		g.publish(events.ChangeRemoval, epoch)
	}
}

// Tick recomputes the elapsed time of the current session.
func (g *Game) Tick(now time.Time) {
	g.mu.Lock()
	epoch := g.epoch
	g.mu.Unlock()
	g.tick(epoch, now)
}

func (g *Game) tick(epoch uint64, now time.Time) {
	g.mu.Lock()
	if g.closed || epoch != g.epoch || g.gameOver {
		g.mu.Unlock()
		return
	}
	elapsed := max(g.elapsed, g.elapsedAt(now))
	changed := elapsed != g.elapsed
	g.elapsed = elapsed
	g.mu.Unlock()

	if changed {
		g.publish(events.ChangeTick, epoch)
	}
}

// elapsedAt must be called with g.mu held.
func (g *Game) elapsedAt(now time.Time) int {
	d := now.Sub(g.startTime)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// ContextMenu shows the right-click warning for the configured duration.
// Game state is untouched.
func (g *Game) ContextMenu() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.warning = true
	g.warnSeq++
	seq := g.warnSeq
	epoch := g.epoch
	g.clock.AfterFunc(g.cfg.WarningDuration, func() {
		g.clearWarning(seq)
	})
	g.mu.Unlock()

	g.publish(events.ChangeWarning, epoch)
}

func (g *Game) clearWarning(seq uint64) {
	g.mu.Lock()
	if seq != g.warnSeq || !g.warning {
		g.mu.Unlock()
		return
	}
	g.warning = false
	epoch := g.epoch
	g.mu.Unlock()

	g.publish(events.ChangeWarning, epoch)
}

// Close stops the session timers. Callbacks that are already scheduled become
// no-ops and Initialize does nothing afterwards.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.epoch++
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
}

func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := View{
		Epoch:           g.epoch,
		Balls:           slices.Clone(g.balls),
		Score:           g.score,
		ElapsedTime:     g.elapsed,
		GameOver:        g.gameOver,
		MascotEmotion:   g.mood.Emotion,
		MascotMessage:   g.mood.Message,
		ShowCelebration: g.celebrate,
		ShowWarning:     g.warning,
		WarningText:     mascot.WarningText,
		BackURL:         g.cfg.BackURL,
	}
	if g.celebrate {
		v.Celebration = &Celebration{
			Title:       mascot.CelebrationTitle,
			Score:       mascot.CelebrationScore,
			ElapsedTime: g.elapsed,
		}
	}
	return v
}

func (g *Game) Epoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch
}

func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *Game) publish(kind events.ChangeKind, epoch uint64) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(events.ChangeEvent{Kind: kind, Epoch: epoch})
}
