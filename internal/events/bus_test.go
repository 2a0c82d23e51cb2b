package events

import (
	"testing"

	"agentwindow/internal/message"

	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus(4)
	a := bus.Subscribe()
	b := bus.Subscribe()

	evt := MessageEvent("r1", message.Goal("Launch"))
	require.Equal(t, 2, bus.Publish(evt))

	got := <-a
	require.Equal(t, KindMessage, got.Kind)
	require.Equal(t, "Launch", got.Message.Value)
	require.Equal(t, "r1", (<-b).RunID)
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(1)
	ch := bus.Subscribe()

	require.Equal(t, 1, bus.Publish(Event{Kind: KindReset}))
	require.Equal(t, 0, bus.Publish(Event{Kind: KindDone}))
	require.Equal(t, KindReset, (<-ch).Kind)
}

func TestBusClose(t *testing.T) {
	bus := NewBus(0)
	ch := bus.Subscribe()
	bus.Close()
	bus.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Equal(t, 0, bus.Publish(Event{Kind: KindDone}))

	late := bus.Subscribe()
	_, ok = <-late
	require.False(t, ok)
}
