package render

import "github.com/charmbracelet/lipgloss"

var headerDots = []lipgloss.Color{"#EF4444", "#EAB308", "#22C55E"}

// MacWindowHeader 是窗口顶部的装饰条：红黄绿三个圆点，没有输入。
type MacWindowHeader struct{}

func (MacWindowHeader) Render(area Rect, buf *Buffer) {
	spans := []Span{{Text: " "}}
	for i, c := range headerDots {
		if i > 0 {
			spans = append(spans, Span{Text: " "})
		}
		spans = append(spans, Span{Text: "●", Style: lipgloss.NewStyle().Foreground(c)})
	}
	buf.WriteLine(Line{Spans: spans})
}

func (MacWindowHeader) DesiredHeight(int) int {
	return 1
}
