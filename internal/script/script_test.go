package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"agentwindow/internal/events"
	"agentwindow/internal/message"

	"github.com/stretchr/testify/require"
)

func TestBuiltinIsValid(t *testing.T) {
	s := Builtin()
	require.Equal(t, "WeatherGPT", s.Name)
	msgs := s.Messages()
	require.NotEmpty(t, msgs)
	require.Equal(t, message.TypeGoal, msgs[1].Type)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: `name = "x"`, want: ErrEmpty},
		{name: "unknown type", data: "[[message]]\ntype = \"user\"\nvalue = \"hi\"", want: message.ErrUnknownType},
		{name: "empty value", data: "[[message]]\ntype = \"goal\"\nvalue = \"  \"", want: ErrEmptyValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := Parse([]byte("[[message]"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[message]]
type = "action"
info = "Fetching weather"
value = "sunny"
`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []message.Message{message.Action("sunny", "Fetching weather")}, s.Messages())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestReplayPublishesInOrder(t *testing.T) {
	s := Script{Entries: []Entry{
		{Type: "goal", Value: "Launch"},
		{Type: "task", Value: "Do X"},
	}}
	bus := events.NewBus(8)
	ch := bus.Subscribe()

	require.NoError(t, Replay(context.Background(), s, bus, "run-1"))

	require.Equal(t, events.KindReset, (<-ch).Kind)
	first := <-ch
	require.Equal(t, events.KindMessage, first.Kind)
	require.Equal(t, message.Goal("Launch"), first.Message)
	require.Equal(t, message.Task("Do X"), (<-ch).Message)
	done := <-ch
	require.Equal(t, events.KindDone, done.Kind)
	require.Equal(t, "run-1", done.RunID)
}

func TestReplayHonoursCancel(t *testing.T) {
	s := Script{DelayMS: 60_000, Entries: []Entry{{Type: "goal", Value: "never"}}}
	bus := events.NewBus(8)
	ch := bus.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Replay(ctx, s, bus, "run-2")
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, events.KindReset, (<-ch).Kind)
	require.Len(t, ch, 0)
}
