package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	require.NotNil(t, bus)
	require.NotNil(t, bus.Changes)
}

func TestBus_SendReceive(t *testing.T) {
	bus := NewBus()

	go func() {
		bus.Publish(ChangeEvent{Kind: ChangeClick, Epoch: 3})
	}()

	select {
	case received := <-bus.Changes:
		assert.Equal(t, ChangeClick, received.Kind)
		assert.Equal(t, uint64(3), received.Epoch)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus()

	for i := 0; i < cap(bus.Changes); i++ {
		require.True(t, bus.Publish(ChangeEvent{Kind: ChangeTick}))
	}

	assert.False(t, bus.Publish(ChangeEvent{Kind: ChangeTick}))

	for i := 0; i < cap(bus.Changes); i++ {
		<-bus.Changes
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	bus.Close()
	bus.Close()

	select {
	case <-bus.Done():
	default:
		t.Fatal("Done should be closed")
	}
	assert.False(t, bus.Publish(ChangeEvent{Kind: ChangeRestart}))
}
