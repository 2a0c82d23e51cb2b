// Package motion animates changes inside a scroll container: rows that appear
// fade in over a few frames, and delayed content pops in after a pause.
package motion

import (
	"sync/atomic"
	"time"

	"agentwindow/internal/tui/render"

	tea "github.com/charmbracelet/bubbletea"
)

// Animator 给定一个容器，为其子元素的插入/删除提供动画。
type Animator interface {
	// Bind 将容器注册到动画器。对同一容器重复调用是幂等的，仅首次返回 true。
	Bind(container *render.Viewport) bool
	// Observe 对比容器当前子元素的 key，启动新插入元素的过渡，需要时返回帧命令。
	Observe(container *render.Viewport, keys []string) tea.Cmd
	// Update 推进帧；handled 为 false 表示消息不属于该动画器。
	Update(msg tea.Msg) (handled bool, cmd tea.Cmd)
	// Entering 判断 key 对应的元素是否仍处于进入过渡中。
	Entering(container *render.Viewport, key string) bool
}

// Options 控制帧率与过渡长度。
type Options struct {
	Enabled  bool
	Frames   int
	Interval time.Duration
}

// DefaultOptions: 4 frames at 60ms.
func DefaultOptions() Options {
	return Options{Enabled: true, Frames: 4, Interval: 60 * time.Millisecond}
}

var nextID atomic.Int64

// FrameMsg 是动画帧消息，只被发出它的动画器处理。
type FrameMsg struct {
	id int64
	At time.Time
}

type binding struct {
	primed   bool
	known    map[string]struct{}
	entering map[string]int
}

// AutoAnimator 是默认的 Animator：首批内容不做动画，之后新增的 key 淡入。
type AutoAnimator struct {
	id      int64
	opts    Options
	bound   map[*render.Viewport]*binding
	ticking bool
}

// NewAutoAnimator normalizes opts and returns an animator with no containers bound.
func NewAutoAnimator(opts Options) *AutoAnimator {
	if opts.Frames <= 0 {
		opts.Frames = DefaultOptions().Frames
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}
	return &AutoAnimator{
		id:    nextID.Add(1),
		opts:  opts,
		bound: map[*render.Viewport]*binding{},
	}
}

func (a *AutoAnimator) Bind(container *render.Viewport) bool {
	if a == nil || container == nil {
		return false
	}
	if _, ok := a.bound[container]; ok {
		return false
	}
	a.bound[container] = &binding{known: map[string]struct{}{}, entering: map[string]int{}}
	return true
}

// Bound reports whether container has been registered.
func (a *AutoAnimator) Bound(container *render.Viewport) bool {
	if a == nil {
		return false
	}
	_, ok := a.bound[container]
	return ok
}

func (a *AutoAnimator) Observe(container *render.Viewport, keys []string) tea.Cmd {
	if a == nil {
		return nil
	}
	b, ok := a.bound[container]
	if !ok {
		return nil
	}
	current := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		current[k] = struct{}{}
	}
	if b.primed && a.opts.Enabled {
		for _, k := range keys {
			if _, seen := b.known[k]; !seen {
				b.entering[k] = a.opts.Frames
			}
		}
	}
	for k := range b.entering {
		if _, still := current[k]; !still {
			delete(b.entering, k)
		}
	}
	b.known = current
	b.primed = true
	return a.scheduleFrame()
}

func (a *AutoAnimator) Update(msg tea.Msg) (bool, tea.Cmd) {
	frame, ok := msg.(FrameMsg)
	if a == nil || !ok || frame.id != a.id {
		return false, nil
	}
	a.ticking = false
	for _, b := range a.bound {
		for k, left := range b.entering {
			if left <= 1 {
				delete(b.entering, k)
				continue
			}
			b.entering[k] = left - 1
		}
	}
	return true, a.scheduleFrame()
}

func (a *AutoAnimator) Entering(container *render.Viewport, key string) bool {
	if a == nil {
		return false
	}
	b, ok := a.bound[container]
	if !ok {
		return false
	}
	_, entering := b.entering[key]
	return entering
}

// Animating reports whether any bound container still has frames pending.
func (a *AutoAnimator) Animating() bool {
	if a == nil {
		return false
	}
	for _, b := range a.bound {
		if len(b.entering) > 0 {
			return true
		}
	}
	return false
}

func (a *AutoAnimator) scheduleFrame() tea.Cmd {
	if a.ticking || !a.Animating() {
		return nil
	}
	a.ticking = true
	id := a.id
	return tea.Tick(a.opts.Interval, func(t time.Time) tea.Msg {
		return FrameMsg{id: id, At: t}
	})
}
