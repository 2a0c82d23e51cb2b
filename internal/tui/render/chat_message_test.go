package render

import (
	"strings"
	"testing"

	"agentwindow/internal/message"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"
)

func bare(msg message.Message) ChatMessage {
	return ChatMessage{Message: msg}
}

func TestChatMessagePlainRows(t *testing.T) {
	tests := []struct {
		name string
		msg  message.Message
		want string
	}{
		{name: "goal", msg: message.Goal("Launch"), want: "★ Embarking on a new goal: Launch"},
		{name: "task", msg: message.Task("Do X"), want: "☰ Added task: Do X"},
		{name: "thinking", msg: message.Thinking("planning"), want: "✦ Thinking... planning"},
		{name: "action", msg: message.Action("ls -la", ""), want: "▶ Executing: ls -la"},
		{name: "action info", msg: message.Action("sunny", "Fetching weather"), want: "▶ Fetching weather sunny"},
		{name: "system", msg: message.System("hello there"), want: "hello there"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := bare(tt.msg)
			require.Equal(t, []string{tt.want}, LinesToPlainStrings(RenderLines(row, 80)))
			require.Equal(t, tt.want, row.Plain())
		})
	}
}

func TestChatMessageWrapsUnderText(t *testing.T) {
	row := bare(message.Task("alpha beta gamma"))
	got := LinesToPlainStrings(RenderLines(row, 14))
	require.Equal(t, []string{"☰ Added task:", "  alpha beta", "  gamma"}, got)
	require.Equal(t, 3, row.DesiredHeight(14))
}

func TestChatMessagePrefixIsBold(t *testing.T) {
	lines := RenderLines(bare(message.Goal("Launch")), 80)
	require.Len(t, lines, 1)
	spans := lines[0].Spans
	require.Equal(t, "★ ", spans[0].Text)
	require.Equal(t, "Embarking on a new goal:", spans[1].Text)
	require.True(t, spans[1].Style.GetBold())
	require.Equal(t, " Launch", spans[2].Text)
	require.False(t, spans[2].Style.GetBold())
}

func TestStyleWrappedAcrossLines(t *testing.T) {
	lines := styleWrapped([]string{"Embarking on", "a new goal: x"}, len("Embarking on a new goal:"))
	require.Len(t, lines, 2)
	require.Equal(t, "Embarking on", lines[0].Spans[0].Text)
	require.True(t, lines[0].Spans[0].Style.GetBold())
	require.Equal(t, "a new goal:", lines[1].Spans[0].Text)
	require.True(t, lines[1].Spans[0].Style.GetBold())
	require.Equal(t, " x", lines[1].Spans[1].Text)
}

func TestChatMessageBordered(t *testing.T) {
	row := NewChatMessage(message.Task("Do X"))
	lines := LinesToPlainStrings(RenderLines(row, 30))
	require.Len(t, lines, 3)
	require.Equal(t, 3, row.DesiredHeight(30))
	for _, l := range lines {
		require.Equal(t, 29, runewidth.StringWidth(l), "line %q", l)
	}
	require.True(t, strings.HasPrefix(lines[0], " ╭"))
	require.Equal(t, " │ ☰ Added task: Do X", strings.TrimRight(strings.TrimSuffix(lines[1], "│"), " "))
	require.True(t, strings.HasPrefix(lines[2], " ╰"))
}

func TestChatMessageEnteringIsFaint(t *testing.T) {
	row := bare(message.Goal("Launch"))
	row.Entering = true
	for _, l := range RenderLines(row, 80) {
		for _, sp := range l.Spans {
			require.True(t, sp.Style.GetFaint(), "span %q should be faint", sp.Text)
		}
	}
}

func TestMacWindowHeader(t *testing.T) {
	lines := RenderLines(MacWindowHeader{}, 40)
	require.Equal(t, []string{" ● ● ●"}, LinesToPlainStrings(lines))
	require.Equal(t, 1, MacWindowHeader{}.DesiredHeight(0))
}

func TestColumnOffsets(t *testing.T) {
	col := WithColumnChildren(
		bare(message.Goal("a")),
		StaticLines{{}, {}},
		nil,
		bare(message.Task("b")),
	)
	require.Equal(t, 3, col.Len())
	require.Equal(t, []int{0, 1, 3}, col.Offsets(80))
	require.Equal(t, 4, col.DesiredHeight(80))
}
