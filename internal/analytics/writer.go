package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ballpop/internal/balls"
	"ballpop/internal/db"
	"ballpop/internal/game"
)

const (
	clickBufferSize = 1000
	runBufferSize   = 64
	batchSize       = 50
	flushInterval   = 500 * time.Millisecond
)

// Sink is the storage the Writer flushes to. *db.DB satisfies it.
type Sink interface {
	BatchRecordClicks(events []db.ClickEvent) error
	RecordRun(run db.RunRecord) (string, error)
	AwardBadge(runID, badgeID string) error
}

type completedRun struct {
	run     db.RunRecord
	summary RunSummary
}

// gapTracker accumulates double-pop gaps for the current epoch of a session.
type gapTracker struct {
	epoch uint64
	total time.Duration
	count int
}

// Writer buffers click events and completed runs from every session and
// writes them in batches. Recording never blocks the game: when a buffer is
// full the event is dropped and logged.
type Writer struct {
	sink   Sink
	clicks chan db.ClickEvent
	runs   chan completedRun
	logger *slog.Logger

	mu   sync.Mutex
	gaps map[string]*gapTracker
}

func NewWriter(sink Sink, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		sink:   sink,
		clicks: make(chan db.ClickEvent, clickBufferSize),
		runs:   make(chan completedRun, runBufferSize),
		logger: logger.With("component", "analytics"),
		gaps:   make(map[string]*gapTracker),
	}
}

// RecorderFor returns the game.Recorder for the session with the given code.
func (w *Writer) RecorderFor(code string) game.Recorder {
	return sessionRecorder{w: w, code: code}
}

// Forget drops per-session bookkeeping once a session is gone.
func (w *Writer) Forget(code string) {
	w.mu.Lock()
	delete(w.gaps, code)
	w.mu.Unlock()
}

type sessionRecorder struct {
	w    *Writer
	code string
}

func (r sessionRecorder) RecordClick(c game.ClickRecord) {
	ev := db.ClickEvent{
		SessionCode: r.code,
		Epoch:       c.Epoch,
		BallID:      c.BallID,
		ClickType:   string(c.ClickType),
		Outcome:     c.Outcome.String(),
		ClickedAt:   c.ClickedAt,
		ScoreAfter:  c.ScoreAfter,
	}
	if c.Gap > 0 {
		ms := int(c.Gap.Milliseconds())
		ev.GapMs = &ms
	}
	if c.ClickType == balls.Double && c.Outcome == balls.Pop {
		r.w.trackGap(r.code, c.Epoch, c.Gap)
	}

	select {
	case r.w.clicks <- ev:
	default:
		r.w.logger.Warn("click buffer full, dropping event", "session", r.code)
	}
}

func (r sessionRecorder) RecordRun(run game.RunRecord) {
	summary := RunSummary{
		SessionCode:    r.code,
		StartedAt:      run.StartedAt,
		EndedAt:        run.EndedAt,
		ElapsedSeconds: run.ElapsedSeconds,
		Clicks:         run.Clicks,
		Pops:           run.Pops,
		Mismatches:     run.Mismatches,
		AvgDoubleGapMs: r.w.takeAvgGap(r.code, run.Epoch),
	}
	cr := completedRun{
		run: db.RunRecord{
			SessionCode:    r.code,
			Epoch:          run.Epoch,
			StartedAt:      run.StartedAt,
			EndedAt:        run.EndedAt,
			ElapsedSeconds: run.ElapsedSeconds,
			Clicks:         run.Clicks,
			Pops:           run.Pops,
			Mismatches:     run.Mismatches,
		},
		summary: summary,
	}

	select {
	case r.w.runs <- cr:
	default:
		r.w.logger.Warn("run buffer full, dropping run", "session", r.code)
	}
}

func (w *Writer) trackGap(code string, epoch uint64, gap time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.gaps[code]
	if !ok || t.epoch != epoch {
		t = &gapTracker{epoch: epoch}
		w.gaps[code] = t
	}
	t.total += gap
	t.count++
}

func (w *Writer) takeAvgGap(code string, epoch uint64) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.gaps[code]
	delete(w.gaps, code)
	if !ok || t.epoch != epoch || t.count == 0 {
		return 0
	}
	return float64(t.total.Milliseconds()) / float64(t.count)
}

// Run flushes buffered clicks every flushInterval or whenever batchSize
// events are waiting, and stores completed runs with their badges. It
// flushes what is left and returns when ctx ends.
func (w *Writer) Run(ctx context.Context) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]db.ClickEvent, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.sink.BatchRecordClicks(batch); err != nil {
			w.logger.Error("batch record clicks failed", "count", len(batch), "err", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			w.drainClicks(&batch)
			flush()
			w.drainRuns()
			return nil
		case ev := <-w.clicks:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush()
			}
		case cr := <-w.runs:
			// Clicks of the run go first so reports see them together.
			w.drainClicks(&batch)
			flush()
			w.storeRun(cr)
		case <-ticker.C:
			flush()
		}
	}
}

func (w *Writer) drainClicks(batch *[]db.ClickEvent) {
	for {
		select {
		case ev := <-w.clicks:
			*batch = append(*batch, ev)
		default:
			return
		}
	}
}

func (w *Writer) drainRuns() {
	for {
		select {
		case cr := <-w.runs:
			w.storeRun(cr)
		default:
			return
		}
	}
}

func (w *Writer) storeRun(cr completedRun) {
	id, err := w.sink.RecordRun(cr.run)
	if err != nil {
		w.logger.Error("record run failed", "session", cr.run.SessionCode, "err", err)
		return
	}
	for _, b := range EvaluateRunBadges(cr.summary) {
		if err := w.sink.AwardBadge(id, string(b.ID)); err != nil {
			w.logger.Error("award badge failed", "run", id, "badge", b.ID, "err", err)
		}
	}
	w.logger.Info("run recorded", "run", id, "session", cr.run.SessionCode, "elapsed", cr.run.ElapsedSeconds)
}
