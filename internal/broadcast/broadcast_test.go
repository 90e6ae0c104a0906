package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"ballpop/internal/events"
	"ballpop/internal/tone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	Score int `json:"score"`
}

func newTestBroadcaster(t *testing.T, score *int) (*Broadcaster, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	b := NewBroadcaster(bus, func() any { return state{Score: *score} }, nil)
	return b, bus
}

func receive(t *testing.T, ch chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	score := 0
	b, _ := newTestBroadcaster(t, &score)

	ch := b.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, b.Subscribers())

	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.Subscribers())

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	// Second unsubscribe must not panic on a closed channel.
	b.Unsubscribe(ch)
}

func TestBroadcaster_Publish(t *testing.T) {
	score := 0
	b, _ := newTestBroadcaster(t, &score)

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish("test-event", []byte("hello"))

	for _, ch := range []chan Message{ch1, ch2} {
		msg := receive(t, ch)
		assert.Equal(t, "test-event", msg.Event)
		assert.Equal(t, "hello", string(msg.Data))
	}
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	score := 0
	b, _ := newTestBroadcaster(t, &score)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < cap(ch); i++ {
		b.Publish("fill", nil)
	}

	done := make(chan struct{})
	go func() {
		b.Publish("overflow", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Publish blocked on full channel")
	}
}

func TestBroadcaster_ForwardsBusChanges(t *testing.T) {
	score := 35
	b, bus := newTestBroadcaster(t, &score)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	bus.Publish(events.ChangeEvent{Kind: events.ChangeClick, Epoch: 1})

	msg := receive(t, ch)
	assert.Equal(t, EventState, msg.Event)
	var got state
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, 35, got.Score)
}

func TestBroadcaster_PublishTone(t *testing.T) {
	score := 0
	b, _ := newTestBroadcaster(t, &score)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	tone.NewDispatcher(b.PublishTone).Play(tone.Correct)

	msg := receive(t, ch)
	assert.Equal(t, EventTone, msg.Event)
	assert.Contains(t, string(msg.Data), `"kind":"correct"`)
}
