package tui

import (
	"fmt"
	"time"

	"agentwindow/internal/tui/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// RunState 枚举状态行可显示的 agent 运行状态。
type RunState int

const (
	// RunIdle 表示还没有运行，不显示状态行。
	RunIdle RunState = iota
	// RunActive 表示收到 reset 之后、done 之前，计时器持续累加。
	RunActive
	// RunDone 表示运行结束，计时停止。
	RunDone
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunActive:
		return "running"
	case RunDone:
		return "done"
	default:
		return "unknown"
	}
}

func (s RunState) header() string {
	switch s {
	case RunActive:
		return "Running"
	case RunDone:
		return "Finished"
	default:
		return ""
	}
}

var (
	runHintStyle = lipgloss.NewStyle().Faint(true)
	runDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
)

// RunStatus 渲染窗口下方的状态行：spinner + 状态 + 计时与消息数。
type RunStatus struct {
	state    RunState
	runID    string
	messages int
	animated bool

	elapsed   time.Duration
	startedAt time.Time

	clock func() time.Time
}

// NewRunStatus 构造空闲状态的状态行；clock 为 nil 时使用 time.Now。
func NewRunStatus(animated bool, clock func() time.Time) *RunStatus {
	if clock == nil {
		clock = time.Now
	}
	return &RunStatus{animated: animated, clock: clock}
}

// Start 开始新的一轮运行，计时与消息数清零。
func (s *RunStatus) Start(runID string) {
	s.state = RunActive
	s.runID = runID
	s.messages = 0
	s.elapsed = 0
	s.startedAt = s.clock()
}

// Append 记录一条新消息。
func (s *RunStatus) Append() {
	s.messages++
}

// Finish 停止计时。
func (s *RunStatus) Finish() {
	if s.state != RunActive {
		return
	}
	s.elapsed = s.clock().Sub(s.startedAt)
	s.state = RunDone
}

func (s *RunStatus) State() RunState { return s.state }

// ElapsedSeconds 返回本轮运行的秒数。
func (s *RunStatus) ElapsedSeconds() uint64 {
	return uint64(s.elapsedAt(s.clock()).Seconds())
}

func (s *RunStatus) DesiredHeight(int) int {
	if s == nil || s.state == RunIdle {
		return 0
	}
	return 1
}

func (s *RunStatus) Render(area render.Rect, buf *render.Buffer) {
	if s == nil || buf == nil || area.Width <= 0 || s.state == RunIdle {
		return
	}
	now := s.clock()
	spinner := render.Span{Text: s.spinnerFrame(now)}
	if s.state == RunDone {
		spinner.Style = runDoneStyle
	}
	hint := fmt.Sprintf("(%s · %d messages)", fmtElapsedCompact(uint64(s.elapsedAt(now).Seconds())), s.messages)
	spans := []render.Span{
		spinner,
		{Text: " " + s.state.header() + " "},
		{Text: hint, Style: runHintStyle},
	}
	if clamped := clampSpans(spans, area.Width); len(clamped) > 0 {
		buf.WriteLine(render.Line{Spans: clamped})
	}
}

func (s *RunStatus) elapsedAt(now time.Time) time.Duration {
	if s.state == RunActive {
		return now.Sub(s.startedAt)
	}
	return s.elapsed
}

func (s *RunStatus) spinnerFrame(now time.Time) string {
	if s.state == RunDone {
		return "✓"
	}
	if s.animated {
		frames := []string{"-", "\\", "|", "/"}
		return frames[int(now.UnixMilli()/120)%len(frames)]
	}
	return "•"
}

// fmtElapsedCompact 将秒数格式化为 "3m 05s" 这样的短字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		return fmt.Sprintf("%dm %02ds", elapsedSecs/60, elapsedSecs%60)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, elapsedSecs%60)
	}
}

func clampSpans(spans []render.Span, width int) []render.Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]render.Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		if text := truncateToWidth(sp.Text, remaining); text != "" {
			sp.Text = text
			out = append(out, sp)
		}
		remaining = 0
	}
	return out
}

func truncateToWidth(text string, width int) string {
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}
