// Package balls holds the board model and the per-ball click state machine.
package balls

import "time"

const (
	// DoubleClickWindow separates a double click from two single clicks.
	// Both comparisons against it are strict.
	DoubleClickWindow = 300 * time.Millisecond

	PopPoints = 5
)

type Outcome int

const (
	Ignored Outcome = iota
	Pop
	Mismatch
	Progress
	Reset
)

func (o Outcome) String() string {
	switch o {
	case Pop:
		return "pop"
	case Mismatch:
		return "mismatch"
	case Progress:
		return "progress"
	case Reset:
		return "reset"
	default:
		return "ignored"
	}
}

// Points awarded for the outcome.
func (o Outcome) Points() int {
	if o == Pop {
		return PopPoints
	}
	return 0
}

// Classify decides what a click at now does to b. It has no side effects.
// A ball that is not Active comes back unchanged with Ignored.
func Classify(b Ball, now time.Time) (Ball, Outcome) {
	if b.Status != Active {
		return b, Ignored
	}

	gap := now.Sub(b.LastClickTime)
	count := b.ClickCount + 1
	b.LastClickTime = now

	switch {
	case b.ClickType == Single && gap > DoubleClickWindow,
		b.ClickType == Double && count == 2 && gap < DoubleClickWindow:
		b.Status = Popping
		b.ClickCount = 0
		return b, Pop
	case b.ClickType == Single && count == 2 && gap < DoubleClickWindow:
		b.ClickCount = 0
		return b, Mismatch
	case b.ClickType == Double && gap > DoubleClickWindow:
		b.ClickCount = 1
		return b, Progress
	default:
		b.ClickCount = 0
		return b, Reset
	}
}
