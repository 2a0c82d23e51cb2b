package tui

import (
	"strings"

	"agentwindow/internal/config"
	"agentwindow/internal/logger"
	"agentwindow/internal/message"
	"agentwindow/internal/tui/motion"
	"agentwindow/internal/tui/render"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// PlaceholderKey 是空对话占位行的 key。
	PlaceholderKey = "placeholder"
	fallbackWidth  = 80
	windowBorder   = lipgloss.Color("#52525B")
)

// Row 描述滚动区中的一条消息行。
type Row struct {
	Key         string
	Icon        message.Icon
	Prefix      string
	Value       string
	Placeholder bool
}

// ChatWindowOptions 是 ChatWindow 的输入。
type ChatWindowOptions struct {
	Messages  []message.Message
	Children  render.Renderable
	ClassName string
	Config    config.Config
	// Animator 为 nil 时按配置创建 motion.AutoAnimator。
	Animator motion.Animator
	Log      *logger.LogEntry
}

// sliceRef 标识消息切片的引用（底层数组 + 长度），用来判断依赖是否变化。
type sliceRef struct {
	data *message.Message
	n    int
}

func refOf(msgs []message.Message) sliceRef {
	if len(msgs) == 0 {
		return sliceRef{}
	}
	return sliceRef{data: &msgs[0], n: len(msgs)}
}

// ChatWindow 渲染窗口头部和一个滚动容器：消息（旧的在前）、额外子内容、
// 以及消息为空时的占位提示。每次提交后滚到最底部；消息切片引用变化时
// 重新把容器绑定到动画器。
type ChatWindow struct {
	cfg       config.Config
	messages  []message.Message
	children  render.Renderable
	className string
	class     config.Class

	viewport *render.Viewport
	animator motion.Animator
	popIn    *motion.PopIn
	keys     keyMap
	log      *logger.LogEntry

	width      int
	height     int
	ref        sliceRef
	depsDirty  bool
	rowOffsets []int
	plain      []string
}

// NewChatWindow 创建窗口。容器在第一次 SetSize 之前视为未挂载。
func NewChatWindow(opts ChatWindowOptions) *ChatWindow {
	cfg := opts.Config
	if cfg.Placeholder == "" {
		cfg.Placeholder = message.PlaceholderText
	}
	motionOpts := motion.Options{
		Enabled:  cfg.Animations,
		Frames:   cfg.AnimationFrames,
		Interval: cfg.FrameInterval(),
	}
	animator := opts.Animator
	if animator == nil {
		animator = motion.NewAutoAnimator(motionOpts)
	}
	log := opts.Log
	if log == nil {
		log = logger.Named("window")
	}
	w := &ChatWindow{
		cfg:       cfg,
		messages:  opts.Messages,
		children:  opts.Children,
		viewport:  render.NewViewport(0, 0),
		animator:  animator,
		popIn:     motion.NewPopIn(cfg.PlaceholderDelay(), motionOpts),
		keys:      defaultKeyMap(),
		log:       log,
		ref:       refOf(opts.Messages),
		depsDirty: true,
	}
	w.applyClassName(opts.ClassName)
	w.paint()
	return w
}

// SetMessages 传入新的消息切片并提交一次渲染。
func (w *ChatWindow) SetMessages(msgs []message.Message) tea.Cmd {
	if ref := refOf(msgs); ref != w.ref {
		w.ref = ref
		w.depsDirty = true
	}
	w.messages = msgs
	return w.commit()
}

// SetChildren 设置追加在最后一条消息之后的内容，nil 表示没有。
func (w *ChatWindow) SetChildren(r render.Renderable) tea.Cmd {
	w.children = r
	return w.commit()
}

// SetClassName 替换根容器的 className。
func (w *ChatWindow) SetClassName(className string) tea.Cmd {
	w.applyClassName(className)
	w.layout()
	return w.commit()
}

// SetSize 设置窗口可用的外部尺寸；第一次设置即视为挂载。
func (w *ChatWindow) SetSize(width, height int) tea.Cmd {
	w.width = width
	w.height = height
	w.layout()
	return w.commit()
}

// Update 处理动画帧与滚动输入。滚动不构成提交，不会触发回到底部。
func (w *ChatWindow) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case motion.FrameMsg:
		handled, cmd := w.animator.Update(msg)
		if handled {
			w.paint()
		}
		return cmd
	case motion.PopInMsg:
		handled, cmd := w.popIn.Update(msg)
		if handled {
			w.paint()
		}
		return cmd
	case tea.MouseMsg:
		return w.viewport.HandleUpdate(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, w.keys.Up):
			w.viewport.ScrollLineUp(1)
		case key.Matches(msg, w.keys.Down):
			w.viewport.ScrollLineDown(1)
		case key.Matches(msg, w.keys.PageUp):
			w.viewport.ScrollPageUp()
		case key.Matches(msg, w.keys.PageDown):
			w.viewport.ScrollPageDown()
		case key.Matches(msg, w.keys.Top):
			w.viewport.GotoTop()
		case key.Matches(msg, w.keys.Bottom):
			w.viewport.GotoBottom()
		}
	}
	return nil
}

func (w *ChatWindow) View() string {
	inner := w.innerWidth()
	header := strings.Join(render.LinesToStrings(render.RenderLines(render.MacWindowHeader{}, inner)), "\n")
	body := w.viewport.View()
	// 滚动区下方留一行空白。
	content := lipgloss.JoinVertical(lipgloss.Left, header, body, "")
	return w.frameStyle().Render(content)
}

// Rows 返回滚动区中的消息行，空对话时只有占位行。
func (w *ChatWindow) Rows() []Row {
	rows := make([]Row, 0, max(1, len(w.messages)))
	for i, msg := range w.messages {
		rows = append(rows, Row{
			Key:    message.Key(i, msg),
			Icon:   message.IconFor(msg),
			Prefix: message.PrefixFor(msg),
			Value:  msg.Value,
		})
	}
	if len(w.messages) == 0 {
		p := w.placeholder()
		rows = append(rows, Row{Key: PlaceholderKey, Value: p.Value, Placeholder: true})
	}
	return rows
}

// Keys 返回每条消息的渲染 key（位置-类型）。
func (w *ChatWindow) Keys() []string {
	keys := make([]string, 0, len(w.messages))
	for i, msg := range w.messages {
		keys = append(keys, message.Key(i, msg))
	}
	return keys
}

// Messages returns the slice most recently passed in.
func (w *ChatWindow) Messages() []message.Message {
	return w.messages
}

// PlainText 以纯文本返回整段对话，一条消息一行。
func (w *ChatWindow) PlainText() string {
	lines := make([]string, 0, len(w.messages))
	for _, msg := range w.messages {
		lines = append(lines, render.NewChatMessage(msg).Plain())
	}
	return strings.Join(lines, "\n")
}

// PlainLines 返回滚动区内容（不含样式）。
func (w *ChatWindow) PlainLines() []string {
	return append([]string{}, w.plain...)
}

// ScrollToMessage 让第 i 条消息出现在可见区域顶部。
func (w *ChatWindow) ScrollToMessage(i int) bool {
	if i < 0 || i >= len(w.messages) || i >= len(w.rowOffsets) {
		return false
	}
	w.viewport.ScrollToLine(w.rowOffsets[i])
	return true
}

func (w *ChatWindow) YOffset() int    { return w.viewport.YOffset }
func (w *ChatWindow) MaxYOffset() int { return w.viewport.MaxYOffset() }
func (w *ChatWindow) AtBottom() bool  { return w.viewport.AtBottom() }

// Realized reports whether the scroll container has been sized.
func (w *ChatWindow) Realized() bool {
	return w.viewport.Realized()
}

func (w *ChatWindow) commit() tea.Cmd {
	w.paint()
	if !w.viewport.Realized() {
		return nil
	}
	var cmds []tea.Cmd
	w.onAfterRender()
	if w.depsDirty {
		w.depsDirty = false
		cmds = append(cmds, w.onDependencyChanged())
	}
	if len(w.messages) == 0 {
		cmds = append(cmds, w.popIn.Start())
	} else {
		w.popIn.Reset()
	}
	return tea.Batch(cmds...)
}

func (w *ChatWindow) onAfterRender() {
	w.viewport.GotoBottom()
}

func (w *ChatWindow) onDependencyChanged() tea.Cmd {
	if w.animator.Bind(w.viewport) {
		w.log.Debug("scroll container bound to animator")
	}
	cmd := w.animator.Observe(w.viewport, w.Keys())
	w.paint()
	return cmd
}

func (w *ChatWindow) paint() {
	width := w.viewport.Width
	if width <= 0 {
		width = fallbackWidth
	}
	style := render.DefaultMessageStyle()
	if w.class.Compact {
		style = render.MessageStyle{Margin: render.VH(0, 1)}
	}

	col := render.NewColumn()
	for i, msg := range w.messages {
		col.Push(render.ChatMessage{
			Message:  msg,
			Style:    style,
			Entering: w.animator.Entering(w.viewport, message.Key(i, msg)),
		})
	}
	w.rowOffsets = col.Offsets(width)
	col.Push(w.children)
	if len(w.messages) == 0 {
		col.Push(render.ChatMessage{
			Message:  w.placeholder(),
			Style:    style,
			Entering: !w.popIn.Revealed(),
		})
	}

	lines := render.RenderLines(col, width)
	w.plain = render.LinesToPlainStrings(lines)
	w.viewport.SetLines(render.LinesToStrings(lines))
}

func (w *ChatWindow) placeholder() message.Message {
	return message.System(w.cfg.Placeholder)
}

func (w *ChatWindow) applyClassName(className string) {
	w.className = className
	class, unknown := w.cfg.ResolveClasses(className)
	if len(unknown) > 0 {
		w.log.WithField("classes", strings.Join(unknown, ",")).Debug("ignoring unknown classes")
	}
	w.class = class
}

func (w *ChatWindow) frameStyle() lipgloss.Style {
	border := windowBorder
	if w.class.BorderColor != "" {
		border = lipgloss.Color(w.class.BorderColor)
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Margin(w.class.Margin)
	if w.class.Background != "" {
		style = style.Background(lipgloss.Color(w.class.Background))
	}
	if w.width > 0 {
		style = style.Width(w.innerWidth())
	}
	return style
}

func (w *ChatWindow) innerWidth() int {
	if w.width <= 0 {
		return fallbackWidth
	}
	return max(1, w.width-2-2*w.class.Margin)
}

// layout 计算滚动区尺寸：宽度扣掉右侧一列，高度按终端高度分档。
func (w *ChatWindow) layout() {
	if w.width <= 0 || w.height <= 0 {
		return
	}
	width := max(1, w.innerWidth()-1)
	w.viewport.Resize(width, w.containerHeight())
}

func (w *ChatWindow) containerHeight() int {
	// 边框 2 行 + 头部 1 行 + 底部留白 1 行。
	available := max(1, w.height-4-2*w.class.Margin)
	h := w.class.Height
	if h <= 0 {
		h = w.cfg.Height
	}
	if h <= 0 {
		h = responsiveHeight(w.height)
	}
	return min(h, available)
}

func responsiveHeight(termHeight int) int {
	switch {
	case termHeight >= 56:
		return 30
	case termHeight >= 40:
		return 20
	case termHeight >= 30:
		return 15
	default:
		return 10
	}
}
