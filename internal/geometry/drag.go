package geometry

import "math"

// MinSize is the smallest width or height a resize may produce.
const MinSize = 10

// Delta is the pointer-to-item offset captured when a drag starts.
type Delta struct {
	X float64
	Y float64
}

// Rect is an item box. A nil H means the height is not known yet.
type Rect struct {
	X float64
	Y float64
	W float64
	H *float64
}

// Corner names the handle being dragged during a resize.
type Corner int

const (
	BottomRight Corner = iota
	BottomLeft
	TopRight
	TopLeft
)

func MoveDelta(pointer, origin Point) Delta {
	return Delta{X: pointer.X - origin.X, Y: pointer.Y - origin.Y}
}

// ApplyMove keeps the drag-start offset so the item does not jump under
// the pointer.
func ApplyMove(pointer Point, d Delta) Point {
	return Point{X: pointer.X - d.X, Y: pointer.Y - d.Y}
}

// Resize computes the box produced by dragging corner c of anchor to
// pointer. The opposite corner stays fixed. When the anchor height is known
// the aspect ratio is kept, width following the pointer.
func Resize(pointer Point, anchor Rect, c Corner) Rect {
	right := anchor.X + anchor.W
	var bottom float64
	if anchor.H != nil {
		bottom = anchor.Y + *anchor.H
	}

	var w float64
	switch c {
	case BottomRight, TopRight:
		w = pointer.X - anchor.X
	default:
		w = right - pointer.X
	}
	w = math.Max(w, MinSize)

	out := Rect{X: anchor.X, Y: anchor.Y, W: w}
	if c == BottomLeft || c == TopLeft {
		out.X = right - w
	}
	if anchor.H == nil {
		return out
	}

	r := ratio(anchor)
	h := w * r
	if h < MinSize {
		// Height hit the floor; derive the width from it to keep the aspect.
		h = MinSize
		out.W = MinSize / r
		if c == BottomLeft || c == TopLeft {
			out.X = right - out.W
		}
	}
	out.H = &h
	if c == TopLeft || c == TopRight {
		out.Y = bottom - h
	}
	return out
}

func ratio(r Rect) float64 {
	if r.H == nil || r.W <= 0 {
		return 1
	}
	return *r.H / r.W
}
