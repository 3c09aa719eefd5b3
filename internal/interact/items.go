package interact

import (
	"github.com/cthunline/cthunline-web-sub002/internal/geometry"
)

type mode int

const (
	modeMove mode = iota
	modeResize
)

// Preview is the transient render state of the dragged item.
type Preview struct {
	Kind   ItemKind
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height *float64
}

// Items drags images, texts and tokens and resizes images.
type Items struct {
	board *Board
	state State
	mode  mode
	kind  ItemKind
	id    string

	start  geometry.Point // logical pointer at pointer-down
	delta  geometry.Delta
	origin geometry.Point
	pos    geometry.Point

	corner geometry.Corner
	anchor geometry.Rect
	rect   geometry.Rect
}

func (c *Items) State() State { return c.state }

// BeginMove starts dragging an item. It returns false when the pointer-down
// does not qualify: another interaction is running, the item is gone, the
// participant may not move it, or the canvas is not mounted.
func (c *Items) BeginMove(kind ItemKind, id string, p geometry.Pointer) bool {
	if c.board.Busy() {
		return false
	}
	origin, ok := c.itemOrigin(kind, id)
	if !ok {
		return false
	}
	pt, ok := c.board.logical(p)
	if !ok || !c.board.claim(c) {
		return false
	}
	c.state = Active
	c.mode = modeMove
	c.kind = kind
	c.id = id
	c.start = pt
	c.origin = origin
	c.pos = origin
	c.delta = geometry.MoveDelta(pt, origin)
	return true
}

// BeginResize starts resizing an image from the given corner. Editors only.
func (c *Items) BeginResize(id string, corner geometry.Corner, p geometry.Pointer) bool {
	if c.board.Busy() || !c.board.participant.Editor {
		return false
	}
	img, ok := c.board.store.Image(id)
	if !ok {
		return false
	}
	pt, ok := c.board.logical(p)
	if !ok || !c.board.claim(c) {
		return false
	}
	c.state = Active
	c.mode = modeResize
	c.kind = KindImage
	c.id = id
	c.start = pt
	c.corner = corner
	c.anchor = geometry.Rect{X: img.X, Y: img.Y, W: img.Width, H: img.Height}
	c.rect = c.anchor
	return true
}

func (c *Items) Move(p geometry.Pointer) {
	if c.state != Active {
		return
	}
	if pt, ok := c.board.logical(p); ok {
		c.track(pt)
	}
}

func (c *Items) track(pt geometry.Point) {
	switch c.mode {
	case modeMove:
		c.pos = geometry.ApplyMove(pt, c.delta)
	case modeResize:
		c.rect = geometry.Resize(pt, c.anchor, c.corner)
	}
}

// Up applies the release position and commits it when the item actually
// changed. Releasing where the pointer went down is never a change, however
// the canvas is scaled. It reports whether a mutation was recorded.
func (c *Items) Up(p geometry.Pointer) bool {
	if c.state != Active {
		return false
	}
	c.state = Idle
	c.board.release(c)

	if pt, ok := c.board.logical(p); ok {
		if pt == c.start {
			return false
		}
		c.track(pt)
	}

	switch c.mode {
	case modeMove:
		if c.pos == c.origin {
			return false
		}
		return c.commitMove()
	case modeResize:
		if sameRect(c.rect, c.anchor) {
			return false
		}
		return c.board.store.ResizeImage(c.id, c.rect.X, c.rect.Y, c.rect.W, c.rect.H)
	}
	return false
}

// Leave is handled exactly like Up.
func (c *Items) Leave(p geometry.Pointer) bool { return c.Up(p) }

func (c *Items) Preview() (Preview, bool) {
	if c.state != Active {
		return Preview{}, false
	}
	if c.mode == modeResize {
		return Preview{Kind: c.kind, ID: c.id, X: c.rect.X, Y: c.rect.Y, Width: c.rect.W, Height: c.rect.H}, true
	}
	return Preview{Kind: c.kind, ID: c.id, X: c.pos.X, Y: c.pos.Y}, true
}

func (c *Items) commitMove() bool {
	s := c.board.store
	switch c.kind {
	case KindImage:
		return s.MoveImage(c.id, c.pos.X, c.pos.Y)
	case KindText:
		return s.MoveText(c.id, c.pos.X, c.pos.Y)
	case KindToken:
		return s.MoveToken(c.id, c.pos.X, c.pos.Y)
	}
	return false
}

func (c *Items) itemOrigin(kind ItemKind, id string) (geometry.Point, bool) {
	s := c.board.store
	part := c.board.participant
	switch kind {
	case KindImage:
		img, ok := s.Image(id)
		if !ok || !part.CanMove(kind, nil) {
			return geometry.Point{}, false
		}
		return geometry.Point{X: img.X, Y: img.Y}, true
	case KindText:
		txt, ok := s.Text(id)
		if !ok || !part.CanMove(kind, nil) {
			return geometry.Point{}, false
		}
		return geometry.Point{X: txt.X, Y: txt.Y}, true
	case KindToken:
		tok, ok := s.Token(id)
		if !ok || !part.CanMove(kind, &tok) {
			return geometry.Point{}, false
		}
		return geometry.Point{X: tok.X, Y: tok.Y}, true
	}
	return geometry.Point{}, false
}

func sameRect(a, b geometry.Rect) bool {
	if a.X != b.X || a.Y != b.Y || a.W != b.W {
		return false
	}
	if a.H == nil || b.H == nil {
		return a.H == nil && b.H == nil
	}
	return *a.H == *b.H
}
