package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"

	"ballpop/internal/events"
	"ballpop/internal/tone"
)

const (
	EventState = "state"
	EventTone  = "tone"
)

type Message struct {
	Event string
	Data  []byte
}

// Snapshot returns the value sent to subscribers as the "state" event.
type Snapshot func() any

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool

	snapshot Snapshot
	logger   *slog.Logger
}

// NewBroadcaster forwards every change on bus to subscribers as a fresh
// snapshot until the bus is closed.
func NewBroadcaster(bus *events.Bus, snapshot Snapshot, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broadcaster{
		Clients:  make(map[chan Message]bool),
		snapshot: snapshot,
		logger:   logger.With("component", "broadcast"),
	}
	go func() {
		for {
			select {
			case <-bus.Done():
				return
			case <-bus.Changes:
				b.PublishState()
			}
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 16)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if _, ok := b.Clients[ch]; !ok {
		return
	}
	delete(b.Clients, ch)
	close(ch)
}

// Subscribers reports how many subscribers are attached.
func (b *Broadcaster) Subscribers() int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return len(b.Clients)
}

func (b *Broadcaster) PublishState() {
	if b.snapshot == nil {
		return
	}
	b.publishJSON(EventState, b.snapshot())
}

// PublishTone is a tone.Sink.
func (b *Broadcaster) PublishTone(c tone.Cue) {
	b.publishJSON(EventTone, c)
}

func (b *Broadcaster) publishJSON(event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("marshal failed", "event", event, "error", err)
		return
	}
	b.Publish(event, data)
}

func (b *Broadcaster) Publish(event string, data []byte) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}
