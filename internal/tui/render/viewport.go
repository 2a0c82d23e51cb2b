package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewport 是对话窗口的滚动容器，包装 bubbles viewport 并记录上次写入的行。
type Viewport struct {
	viewport.Model
	lastLines []string
}

// NewViewport 创建滚动容器；宽高为 0 表示尚未挂载。
func NewViewport(width, height int) *Viewport {
	return &Viewport{Model: viewport.New(width, height)}
}

// Realized reports whether the container has a usable size.
func (v *Viewport) Realized() bool {
	return v != nil && v.Width > 0 && v.Height > 0
}

// Resize 更新宽高，返回是否发生变化。宽度变化会清空行缓存。
func (v *Viewport) Resize(width, height int) bool {
	if v == nil {
		return false
	}
	widthChanged := v.Width != width
	heightChanged := v.Height != height
	if !widthChanged && !heightChanged {
		return false
	}
	v.Width = width
	v.Height = height
	if widthChanged {
		v.Invalidate()
	}
	return true
}

// HandleUpdate 代理 bubbles 的 Update（鼠标滚轮等）。
func (v *Viewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetLines 更新内容，内容未变时返回 false。原本停在底部的视图保持在底部。
func (v *Viewport) SetLines(lines []string) bool {
	if v == nil {
		return false
	}
	if v.lastLines != nil && slices.Equal(lines, v.lastLines) {
		return false
	}
	stickToBottom := v.AtBottom()
	v.lastLines = append([]string{}, lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stickToBottom {
		v.GotoBottom()
	}
	return true
}

// Lines returns the content most recently written with SetLines.
func (v *Viewport) Lines() []string {
	if v == nil {
		return nil
	}
	return append([]string{}, v.lastLines...)
}

// MaxYOffset 是内容高度减去可见高度，即 scrollHeight 对应的偏移。
func (v *Viewport) MaxYOffset() int {
	if v == nil {
		return 0
	}
	return maxInt(0, v.TotalLineCount()-v.Height)
}

// ScrollToLine 让第 n 行出现在可见区域顶部（受最大偏移限制）。
func (v *Viewport) ScrollToLine(n int) {
	if v == nil {
		return
	}
	v.SetYOffset(n)
}

// ScrollPageDown 下翻一页。
func (v *Viewport) ScrollPageDown() {
	if v == nil {
		return
	}
	v.ViewDown()
}

// ScrollPageUp 上翻一页。
func (v *Viewport) ScrollPageUp() {
	if v == nil {
		return
	}
	v.ViewUp()
}

// ScrollLineDown 下滚 n 行。
func (v *Viewport) ScrollLineDown(n int) {
	if v == nil {
		return
	}
	v.LineDown(n)
}

// ScrollLineUp 上滚 n 行。
func (v *Viewport) ScrollLineUp(n int) {
	if v == nil {
		return
	}
	v.LineUp(n)
}

// Invalidate 清空已缓存的行，强制下次 SetLines 重新写入。
func (v *Viewport) Invalidate() {
	if v == nil {
		return
	}
	v.lastLines = nil
}
