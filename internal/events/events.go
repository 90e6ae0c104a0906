package events

import "sync"

type ChangeKind string

const (
	ChangeRestart = ChangeKind("restart")
	ChangeClick   = ChangeKind("click")
	ChangeTick    = ChangeKind("tick")
	ChangeRemoval = ChangeKind("removal")
	ChangeWarning = ChangeKind("warning")
)

// ChangeEvent tells listeners that the session state changed and should be
// read again. Epoch is the session generation the change belongs to.
type ChangeEvent struct {
	Kind  ChangeKind
	Epoch uint64
}

type Bus struct {
	Changes chan ChangeEvent

	done      chan struct{}
	closeOnce sync.Once
}

func NewBus() *Bus {
	return &Bus{
		Changes: make(chan ChangeEvent, 64),
		done:    make(chan struct{}),
	}
}

// Publish never blocks: when the buffer is full or the bus is closed the
// event is dropped and false is returned.
func (b *Bus) Publish(ev ChangeEvent) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.Changes <- ev:
		return true
	default:
		return false
	}
}

// Done is closed once the bus is closed.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
