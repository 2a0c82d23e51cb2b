package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderable 统一的可渲染抽象。消息行、额外子内容与占位提示都实现它。
type Renderable interface {
	Render(area Rect, buf *Buffer)
	DesiredHeight(width int) int
}

// StaticLines 用于包装已准备好的行。
type StaticLines []Line

func (s StaticLines) Render(area Rect, buf *Buffer) {
	lines := []Line(s)
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	buf.WriteLines(lines...)
}

func (s StaticLines) DesiredHeight(int) int {
	return len(s)
}

// ColumnRenderable 垂直堆叠子元素。
type ColumnRenderable struct {
	children []Renderable
}

// NewColumn 创建空列。
func NewColumn() *ColumnRenderable {
	return &ColumnRenderable{children: []Renderable{}}
}

// WithColumnChildren 便捷构造列。
func WithColumnChildren(children ...Renderable) *ColumnRenderable {
	col := NewColumn()
	for _, child := range children {
		col.Push(child)
	}
	return col
}

// Push 添加子元素，nil 会被忽略。
func (c *ColumnRenderable) Push(child Renderable) {
	if c == nil || child == nil {
		return
	}
	c.children = append(c.children, child)
}

// Len 返回子元素数量。
func (c *ColumnRenderable) Len() int {
	if c == nil {
		return 0
	}
	return len(c.children)
}

// Render 依次渲染子元素。
func (c *ColumnRenderable) Render(area Rect, buf *Buffer) {
	if c == nil {
		return
	}
	y := area.Y
	for _, child := range c.children {
		height := child.DesiredHeight(area.Width)
		child.Render(Rect{X: area.X, Y: y, Width: area.Width, Height: height}, buf)
		y += height
		if area.Height > 0 && y-area.Y >= area.Height {
			break
		}
	}
}

// DesiredHeight 返回所有子元素高度之和。
func (c *ColumnRenderable) DesiredHeight(width int) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, child := range c.children {
		total += child.DesiredHeight(width)
	}
	return total
}

// Offsets returns the first line of every child when laid out at width.
func (c *ColumnRenderable) Offsets(width int) []int {
	if c == nil {
		return nil
	}
	out := make([]int, 0, len(c.children))
	y := 0
	for _, child := range c.children {
		out = append(out, y)
		y += child.DesiredHeight(width)
	}
	return out
}

// InsetRenderable 为子元素应用外边距。
type InsetRenderable struct {
	child  Renderable
	insets Insets
}

// NewInset 创建带边距的 Renderable。
func NewInset(child Renderable, insets Insets) *InsetRenderable {
	return &InsetRenderable{child: child, insets: insets}
}

func (i *InsetRenderable) Render(area Rect, buf *Buffer) {
	if i == nil || i.child == nil {
		return
	}
	for n := 0; n < i.insets.Top; n++ {
		buf.WriteLine(Line{})
	}
	inner := Buffer{}
	i.child.Render(area.Inset(i.insets), &inner)
	pad := Span{Text: strings.Repeat(" ", i.insets.Left)}
	for _, line := range inner.Lines {
		if i.insets.Left > 0 {
			line = Line{Spans: append([]Span{pad}, line.Spans...), Style: line.Style}
		}
		buf.WriteLine(line)
	}
	for n := 0; n < i.insets.Bottom; n++ {
		buf.WriteLine(Line{})
	}
}

func (i *InsetRenderable) DesiredHeight(width int) int {
	if i == nil || i.child == nil {
		return 0
	}
	return i.child.DesiredHeight(maxInt(0, width-i.insets.Horizontal())) + i.insets.Vertical()
}

// PlainTextRenderable 渲染按宽度换行的单一样式文本。
type PlainTextRenderable struct {
	Text  string
	Style lipgloss.Style
}

func (p PlainTextRenderable) Render(area Rect, buf *Buffer) {
	for _, line := range wrapText(p.Text, area.Width) {
		buf.WriteLine(Line{Spans: []Span{{Text: line, Style: p.Style}}})
	}
}

func (p PlainTextRenderable) DesiredHeight(width int) int {
	return len(wrapText(p.Text, width))
}

// RenderLines 在给定宽度下完整渲染一个 Renderable。
func RenderLines(r Renderable, width int) []Line {
	if r == nil {
		return nil
	}
	buf := Buffer{}
	r.Render(Rect{Width: width, Height: r.DesiredHeight(width)}, &buf)
	return buf.Lines
}
