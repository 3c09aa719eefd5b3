package interact

import (
	"github.com/cthunline/cthunline-web-sub002/internal/geometry"
)

const (
	DefaultColor = "#000000"
	DefaultWidth = 3
)

// Drawing is the freehand pen. Only editors with drawing mode on can use
// it.
type Drawing struct {
	board   *Board
	enabled bool
	color   string
	width   float64

	state  State
	d      string
	points int
}

func (c *Drawing) SetMode(on bool) { c.enabled = on }

func (c *Drawing) Enabled() bool { return c.enabled }

func (c *Drawing) SetBrush(color string, width float64) {
	c.color, c.width = color, width
}

func (c *Drawing) State() State { return c.state }

// Down starts an empty path.
func (c *Drawing) Down(geometry.Pointer) bool {
	if !c.enabled || !c.board.participant.Editor || c.state == Active {
		return false
	}
	if !c.board.claim(c) {
		return false
	}
	c.state = Active
	c.d = ""
	c.points = 0
	return true
}

// Move extends the in-progress path. Nothing reaches the store yet.
func (c *Drawing) Move(p geometry.Pointer) {
	if c.state != Active {
		return
	}
	pt, ok := c.board.logical(p)
	if !ok {
		return
	}
	c.d = geometry.PathAppend(c.d, pt)
	c.points++
}

// Up ends the stroke and commits it when at least one point was drawn. A
// plain click yields nothing.
func (c *Drawing) Up(geometry.Pointer) (string, bool) {
	if c.state != Active {
		return "", false
	}
	d, points := c.d, c.points
	c.state = Idle
	c.d = ""
	c.points = 0
	c.board.release(c)
	if points == 0 {
		return "", false
	}
	return c.board.store.AddPath(d, c.color, c.width), true
}

// Leave is handled exactly like Up.
func (c *Drawing) Leave(p geometry.Pointer) (string, bool) { return c.Up(p) }

// Preview returns the in-progress path for rendering.
func (c *Drawing) Preview() (string, bool) {
	if c.state != Active || c.d == "" {
		return "", false
	}
	return c.d, true
}
