// Package tone describes the two feedback cues and delivers them to whoever
// can play audio.
package tone

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	Correct = Kind("correct")
	Error   = Kind("error")
)

type Waveform string

const (
	Sine   = Waveform("sine")
	Square = Waveform("square")
)

// Cue carries everything a synthesizer needs: an oscillator at Frequency and a
// gain that decays exponentially from StartGain to EndGain over Duration.
type Cue struct {
	Kind      Kind          `json:"kind"`
	Waveform  Waveform      `json:"waveform"`
	Frequency float64       `json:"frequency"`
	StartGain float64       `json:"startGain"`
	EndGain   float64       `json:"endGain"`
	Duration  time.Duration `json:"-"`
}

func (c Cue) MarshalJSON() ([]byte, error) {
	type plain Cue
	return json.Marshal(struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}{plain(c), c.Duration.Milliseconds()})
}

var cues = map[Kind]Cue{
	Correct: {Kind: Correct, Waveform: Sine, Frequency: 440, StartGain: 0.5, EndGain: 0.01, Duration: 100 * time.Millisecond},
	Error:   {Kind: Error, Waveform: Square, Frequency: 200, StartGain: 0.3, EndGain: 0.01, Duration: 300 * time.Millisecond},
}

func CueFor(k Kind) (Cue, bool) {
	c, ok := cues[k]
	return c, ok
}

// Player plays a cue without blocking the caller.
type Player interface {
	Play(k Kind)
}

// Nop is the Player used when no audio output exists.
type Nop struct{}

func (Nop) Play(Kind) {}

// Sink receives cues for delivery. It must not block.
type Sink func(Cue)

// Dispatcher hands every cue to its sinks. A Dispatcher without sinks, or a
// nil one, plays nothing.
type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

func (d *Dispatcher) Play(k Kind) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	c, ok := CueFor(k)
	if !ok {
		return
	}
	for _, s := range d.sinks {
		s(c)
	}
}
