// Package schedule provides the timer abstraction game sessions run on.
//
// Callbacks scheduled through a Clock carry no session identity of their own;
// callers capture whatever generation they were scheduled for and check it
// when the callback fires.
package schedule

import (
	"sync"
	"time"
)

// Task is a scheduled callback that can be cancelled.
type Task interface {
	// Stop prevents future runs. It reports whether the task was still pending.
	Stop() bool
}

// Clock tells time and schedules callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f once, d from now, on its own goroutine.
	AfterFunc(d time.Duration, f func()) Task
	// Every runs f every d until the returned task is stopped.
	Every(d time.Duration, f func()) Task
}

type realClock struct{}

// Real returns a Clock backed by the runtime timers.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

func (realClock) Every(d time.Duration, f func()) Task {
	t := &repeating{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go func() {
		defer t.ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				f()
			}
		}
	}()
	return t
}

type repeating struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *repeating) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.done)
		stopped = true
	})
	return stopped
}
