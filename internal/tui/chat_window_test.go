package tui

import (
	"fmt"
	"strings"
	"testing"

	"agentwindow/internal/config"
	"agentwindow/internal/message"
	"agentwindow/internal/tui/motion"
	"agentwindow/internal/tui/render"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// recordingAnimator 记录调用，用于检查副作用的时机与顺序。
type recordingAnimator struct {
	bound        map[*render.Viewport]bool
	binds        int
	observes     int
	lastKeys     []string
	atBottomSeen []bool
}

func newRecordingAnimator() *recordingAnimator {
	return &recordingAnimator{bound: map[*render.Viewport]bool{}}
}

func (r *recordingAnimator) Bind(vp *render.Viewport) bool {
	r.binds++
	if r.bound[vp] {
		return false
	}
	r.bound[vp] = true
	return true
}

func (r *recordingAnimator) Observe(vp *render.Viewport, keys []string) tea.Cmd {
	r.observes++
	r.lastKeys = append([]string{}, keys...)
	r.atBottomSeen = append(r.atBottomSeen, vp.AtBottom())
	return nil
}

func (r *recordingAnimator) Update(tea.Msg) (bool, tea.Cmd)         { return false, nil }
func (r *recordingAnimator) Entering(*render.Viewport, string) bool { return false }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Animations = false
	return cfg
}

func newTestWindow(msgs []message.Message, anim motion.Animator) *ChatWindow {
	return NewChatWindow(ChatWindowOptions{Messages: msgs, Config: testConfig(), Animator: anim})
}

func manyMessages(n int) []message.Message {
	msgs := make([]message.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, message.Task(fmt.Sprintf("task number %d", i)))
	}
	return msgs
}

func TestRowCountMatchesMessages(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			w := newTestWindow(manyMessages(n), nil)
			w.SetSize(80, 30)
			want := n
			if n == 0 {
				want = 1
			}
			require.Len(t, w.Rows(), want)
		})
	}
}

func TestEmptyShowsPlaceholder(t *testing.T) {
	w := newTestWindow(nil, nil)
	w.SetSize(80, 30)

	rows := w.Rows()
	require.Len(t, rows, 1)
	require.True(t, rows[0].Placeholder)
	require.Equal(t, PlaceholderKey, rows[0].Key)
	require.Equal(t, "> Create an agent by adding a name / goal, and hitting deploy!", rows[0].Value)
	require.Empty(t, rows[0].Prefix)
	require.Equal(t, message.IconNone, rows[0].Icon)

	count := 0
	for _, line := range w.PlainLines() {
		if strings.Contains(line, message.PlaceholderText) {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestRowsPrefixesAndKeys(t *testing.T) {
	msgs := []message.Message{
		message.Goal("Launch"),
		message.Task("Do X"),
		message.Thinking("hmm"),
		message.Action("ls", ""),
		message.Action("sunny", "Fetching weather"),
		message.System("notice"),
	}
	w := newTestWindow(msgs, nil)
	rows := w.Rows()

	require.Equal(t, []string{"0-goal", "1-task", "2-thinking", "3-action", "4-action", "5-system"}, w.Keys())
	want := []string{"Embarking on a new goal:", "Added task:", "Thinking...", "Executing:", "Fetching weather", ""}
	for i, row := range rows {
		require.Equal(t, w.Keys()[i], row.Key)
		require.Equal(t, want[i], row.Prefix, "row %d", i)
		require.False(t, row.Placeholder)
	}
	require.Equal(t, message.IconNone, rows[5].Icon)
	require.Equal(t, "notice", rows[5].Value)
}

func TestOrderMessagesThenChildren(t *testing.T) {
	w := newTestWindow([]message.Message{message.Goal("Launch"), message.Task("Do X")}, nil)
	w.SetChildren(render.StaticLines{{Spans: []render.Span{{Text: "extra content"}}}})
	w.SetSize(80, 40)

	plain := strings.Join(w.PlainLines(), "\n")
	goal := strings.Index(plain, "Launch")
	task := strings.Index(plain, "Do X")
	extra := strings.Index(plain, "extra content")
	require.True(t, goal >= 0 && goal < task && task < extra, "unexpected order:\n%s", plain)
	require.NotContains(t, plain, message.PlaceholderText)
}

func TestPlaceholderAfterChildren(t *testing.T) {
	w := newTestWindow(nil, nil)
	w.SetChildren(render.StaticLines{{Spans: []render.Span{{Text: "extra content"}}}})
	w.SetSize(80, 40)

	plain := strings.Join(w.PlainLines(), "\n")
	require.Less(t, strings.Index(plain, "extra content"), strings.Index(plain, message.PlaceholderText))
}

func TestSystemRowHasNoIconOrPrefix(t *testing.T) {
	w := newTestWindow([]message.Message{message.System("plain notice")}, nil)
	w.SetClassName("compact")
	w.SetSize(80, 30)

	require.Equal(t, []string{" plain notice"}, w.PlainLines())
}

func TestAppendKeepsBottomAnchored(t *testing.T) {
	msgs := manyMessages(8)
	w := newTestWindow(msgs, nil)
	w.SetSize(60, 20)
	require.Greater(t, w.MaxYOffset(), 0, "content should overflow the container")
	require.Equal(t, w.MaxYOffset(), w.YOffset())

	msgs = append(msgs, message.Goal("new goal"))
	w.SetMessages(msgs)
	require.Equal(t, w.MaxYOffset(), w.YOffset())
	require.True(t, w.AtBottom())
}

func TestScrollIsNotACommit(t *testing.T) {
	msgs := manyMessages(8)
	w := newTestWindow(msgs, nil)
	w.SetSize(60, 20)

	w.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	require.Less(t, w.YOffset(), w.MaxYOffset())

	// 任何提交（包括只改子内容）都重新贴底。
	w.SetChildren(render.StaticLines{{}})
	require.Equal(t, w.MaxYOffset(), w.YOffset())
}

func TestEffectsSkippedBeforeMount(t *testing.T) {
	anim := newRecordingAnimator()
	w := newTestWindow(manyMessages(3), anim)
	w.SetMessages(manyMessages(4))
	require.Zero(t, anim.binds)
	require.Zero(t, anim.observes)
	require.False(t, w.Realized())

	w.SetSize(60, 20)
	require.Equal(t, 1, anim.binds)
	require.Equal(t, 1, anim.observes)
	require.Equal(t, []string{"0-task", "1-task", "2-task", "3-task"}, anim.lastKeys)
}

func TestAnimationBindingFollowsMessageReference(t *testing.T) {
	anim := newRecordingAnimator()
	msgs := manyMessages(2)
	w := newTestWindow(msgs, anim)
	w.SetSize(60, 20)
	require.Equal(t, 1, anim.observes)

	// 同一切片、子内容变化、尺寸变化都不触发重新绑定。
	w.SetMessages(msgs)
	w.SetChildren(render.StaticLines{{}})
	w.SetSize(70, 20)
	require.Equal(t, 1, anim.observes)

	next := append(append([]message.Message{}, msgs...), message.Goal("g"))
	w.SetMessages(next)
	require.Equal(t, 2, anim.observes)
	require.Equal(t, 2, anim.binds)
	require.Len(t, anim.bound, 1, "re-registration is idempotent per container")

	// 滚动到底部发生在动画绑定之前。
	for _, atBottom := range anim.atBottomSeen {
		require.True(t, atBottom)
	}
}

func TestAutoAnimatorDimsNewRows(t *testing.T) {
	cfg := config.Default()
	cfg.AnimationFrames = 2
	w := NewChatWindow(ChatWindowOptions{Messages: manyMessages(1), Config: cfg})
	w.SetSize(80, 30)

	msgs := append(manyMessages(1), message.Goal("fresh"))
	cmd := w.SetMessages(msgs)
	require.NotNil(t, cmd)
	require.True(t, w.animator.Entering(w.viewport, "1-goal"))
	require.False(t, w.animator.Entering(w.viewport, "0-task"))
}

func TestScrollToMessage(t *testing.T) {
	w := newTestWindow(manyMessages(10), nil)
	w.SetSize(60, 20)

	require.True(t, w.ScrollToMessage(2))
	require.Equal(t, 6, w.YOffset(), "bordered rows are three lines tall")
	require.False(t, w.ScrollToMessage(10))
	require.False(t, w.ScrollToMessage(-1))
}

func TestPlainText(t *testing.T) {
	w := newTestWindow([]message.Message{message.Goal("Launch"), message.System("ok")}, nil)
	require.Equal(t, "★ Embarking on a new goal: Launch\nok", w.PlainText())
}

func TestViewContainsHeaderAndBorder(t *testing.T) {
	w := newTestWindow([]message.Message{message.Goal("Launch")}, nil)
	w.SetSize(60, 20)
	view := w.View()
	require.Contains(t, view, "●")
	require.Contains(t, view, "╭")
	require.Contains(t, view, "Launch")
}

func TestResponsiveHeight(t *testing.T) {
	require.Equal(t, 10, responsiveHeight(24))
	require.Equal(t, 15, responsiveHeight(30))
	require.Equal(t, 20, responsiveHeight(45))
	require.Equal(t, 30, responsiveHeight(60))

	w := newTestWindow(nil, nil)
	w.SetSize(80, 60)
	require.Equal(t, 30, w.viewport.Height)

	w.SetClassName("tall-unknown")
	require.Equal(t, 30, w.viewport.Height)

	w.SetSize(80, 8)
	require.Equal(t, 4, w.viewport.Height, "clipped to the space left after chrome")
}
