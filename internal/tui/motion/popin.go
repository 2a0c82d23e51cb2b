package motion

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PopInMsg 推进 PopIn 的延迟与帧。
type PopInMsg struct {
	id  int64
	gen int
}

// PopIn 在延迟之后逐帧显现内容；显现之前内容以暗色呈现。
type PopIn struct {
	id       int64
	gen      int
	delay    time.Duration
	opts     Options
	started  bool
	waiting  bool
	frame    int
	revealed bool
}

// NewPopIn 创建延迟显现的过渡，动画关闭时直接视为已显现。
func NewPopIn(delay time.Duration, opts Options) *PopIn {
	if opts.Frames <= 0 {
		opts.Frames = DefaultOptions().Frames
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}
	return &PopIn{id: nextID.Add(1), delay: delay, opts: opts, revealed: !opts.Enabled}
}

// Start 启动一次显现，已经开始过则不重复。
func (p *PopIn) Start() tea.Cmd {
	if p == nil || p.started || p.revealed {
		return nil
	}
	p.started = true
	p.waiting = true
	return p.tick(p.delay)
}

// Reset 让下一次 Start 重新播放。
func (p *PopIn) Reset() {
	if p == nil {
		return
	}
	p.gen++
	p.started = false
	p.waiting = false
	p.frame = 0
	p.revealed = !p.opts.Enabled
}

func (p *PopIn) Update(msg tea.Msg) (bool, tea.Cmd) {
	m, ok := msg.(PopInMsg)
	if p == nil || !ok || m.id != p.id {
		return false, nil
	}
	if m.gen != p.gen {
		return true, nil
	}
	if !p.started || p.revealed {
		return true, nil
	}
	if p.waiting {
		p.waiting = false
		return true, p.tick(p.opts.Interval)
	}
	p.frame++
	if p.frame >= p.opts.Frames {
		p.revealed = true
		return true, nil
	}
	return true, p.tick(p.opts.Interval)
}

// Revealed reports whether the delay and all frames have elapsed.
func (p *PopIn) Revealed() bool {
	return p == nil || p.revealed
}

func (p *PopIn) tick(d time.Duration) tea.Cmd {
	msg := PopInMsg{id: p.id, gen: p.gen}
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
