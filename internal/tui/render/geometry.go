package render

// Insets 用于描述内边距。
type Insets struct {
	Top    int
	Left   int
	Right  int
	Bottom int
}

// TLBR 通过 top/left/bottom/right 构造 Insets。
func TLBR(top, left, bottom, right int) Insets {
	return Insets{Top: top, Left: left, Bottom: bottom, Right: right}
}

// VH 通过垂直/水平值构造 Insets。
func VH(vertical, horizontal int) Insets {
	return Insets{Top: vertical, Left: horizontal, Bottom: vertical, Right: horizontal}
}

// Horizontal returns the combined left and right inset.
func (in Insets) Horizontal() int {
	return in.Left + in.Right
}

// Vertical returns the combined top and bottom inset.
func (in Insets) Vertical() int {
	return in.Top + in.Bottom
}

// Rect 表示矩形区域。
type Rect struct {
	X, Y          int
	Width, Height int
}

// Inset 按内边距收紧矩形，使用饱和计算避免下溢。
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X:      r.X + in.Left,
		Y:      r.Y + in.Top,
		Width:  maxInt(0, r.Width-in.Horizontal()),
		Height: maxInt(0, r.Height-in.Vertical()),
	}
}
