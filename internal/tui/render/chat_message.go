package render

import (
	"strings"

	"agentwindow/internal/message"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	iconStyles = map[message.Icon]lipgloss.Style{
		message.IconStar:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")),
		message.IconList:  lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")),
		message.IconBrain: lipgloss.NewStyle().Foreground(lipgloss.Color("#F472B6")),
		message.IconPlay:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
	}
	prefixStyle = lipgloss.NewStyle().Bold(true)
	valueStyle  = lipgloss.NewStyle()
)

// Glyph 返回图标对应的终端字符，IconNone 返回空串。
func Glyph(icon message.Icon) string {
	switch icon {
	case message.IconStar:
		return "★"
	case message.IconList:
		return "☰"
	case message.IconBrain:
		return "✦"
	case message.IconPlay:
		return "▶"
	default:
		return ""
	}
}

// MessageStyle 控制消息行的外框。
type MessageStyle struct {
	Bordered    bool
	BorderColor lipgloss.Color
	Margin      Insets
}

// DefaultMessageStyle 对应带圆角边框、左右各留一列的消息卡片。
func DefaultMessageStyle() MessageStyle {
	return MessageStyle{
		Bordered:    true,
		BorderColor: lipgloss.Color("#3F3F46"),
		Margin:      TLBR(0, 1, 0, 1),
	}
}

// ChatMessage 渲染一条消息：图标、加粗前缀与原文。
type ChatMessage struct {
	Message message.Message
	Style   MessageStyle
	// Entering 为 true 时整行变暗，用于插入动画。
	Entering bool
}

// NewChatMessage builds a row with the default card style.
func NewChatMessage(msg message.Message) ChatMessage {
	return ChatMessage{Message: msg, Style: DefaultMessageStyle()}
}

// Plain 返回不带样式的单行文本，例如 "★ Added task: Do X"。
func (c ChatMessage) Plain() string {
	parts := []string{}
	if g := Glyph(message.IconFor(c.Message)); g != "" {
		parts = append(parts, g)
	}
	if p := message.PrefixFor(c.Message); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, c.Message.Value)
	return strings.Join(parts, " ")
}

func (c ChatMessage) Render(area Rect, buf *Buffer) {
	buf.WriteLines(c.lines(area.Width)...)
}

func (c ChatMessage) DesiredHeight(width int) int {
	return len(c.lines(width))
}

func (c ChatMessage) lines(width int) []Line {
	inner := width - c.Style.Margin.Horizontal()
	if c.Style.Bordered {
		inner -= 4 // 边框 + 左右内边距
	}
	if inner < 1 {
		inner = 1
	}
	body := c.body(inner)
	if c.Style.Bordered {
		body = frame(body, inner, c.Style.BorderColor)
	}
	if c.Entering {
		body = dim(body)
	}
	return RenderLines(NewInset(StaticLines(body), c.Style.Margin), width)
}

func (c ChatMessage) body(width int) []Line {
	icon := message.IconFor(c.Message)
	glyph := Glyph(icon)
	prefix := strings.Join(strings.Fields(message.PrefixFor(c.Message)), " ")

	iconCols := 0
	if glyph != "" {
		iconCols = runewidth.StringWidth(glyph) + 1
	}
	textWidth := maxInt(1, width-iconCols)

	text := c.Message.Value
	if prefix != "" {
		text = prefix + " " + text
	}
	lines := styleWrapped(wrapText(text, textWidth), len([]rune(prefix)))
	if glyph == "" {
		return lines
	}
	return PrefixLines(lines,
		Span{Text: glyph + " ", Style: iconStyles[icon]},
		Span{Text: strings.Repeat(" ", iconCols)},
	)
}

// styleWrapped 把前 boldRunes 个字符（跨行时扣除换行吞掉的空格）标为加粗。
func styleWrapped(wrapped []string, boldRunes int) []Line {
	out := make([]Line, 0, len(wrapped))
	remaining := boldRunes
	for _, l := range wrapped {
		runes := []rune(l)
		if remaining <= 0 {
			out = append(out, Line{Spans: []Span{{Text: l, Style: valueStyle}}})
			continue
		}
		k := min(remaining, len(runes))
		spans := []Span{{Text: string(runes[:k]), Style: prefixStyle}}
		if k < len(runes) {
			spans = append(spans, Span{Text: string(runes[k:]), Style: valueStyle})
		}
		out = append(out, Line{Spans: spans})
		remaining -= k
		if remaining > 0 {
			remaining--
		}
	}
	return out
}

func frame(body []Line, inner int, color lipgloss.Color) []Line {
	b := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(color)
	out := make([]Line, 0, len(body)+2)
	out = append(out, Line{Spans: []Span{{Text: b.TopLeft + strings.Repeat(b.Top, inner+2) + b.TopRight, Style: edge}}})
	for _, l := range body {
		pad := maxInt(0, inner-runewidth.StringWidth(l.Plain()))
		spans := make([]Span, 0, len(l.Spans)+2)
		spans = append(spans, Span{Text: b.Left + " ", Style: edge})
		spans = append(spans, l.Spans...)
		spans = append(spans, Span{Text: strings.Repeat(" ", pad) + " " + b.Right, Style: edge})
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	out = append(out, Line{Spans: []Span{{Text: b.BottomLeft + strings.Repeat(b.Bottom, inner+2) + b.BottomRight, Style: edge}}})
	return out
}

func dim(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		spans := make([]Span, 0, len(l.Spans))
		for _, sp := range l.Spans {
			spans = append(spans, Span{Text: sp.Text, Style: sp.Style.Faint(true)})
		}
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}
