package geometry

import "sync"

// Logical canvas size. Every item coordinate lives in this space regardless
// of how large the canvas is drawn on screen.
const (
	LogicalWidth  = 1920
	LogicalHeight = 1080
)

// Pointer is a pointer event in client (screen pixel) coordinates.
type Pointer struct {
	ClientX float64
	ClientY float64
}

// Surface is the mounted canvas element. ScreenCTM reports false while the
// canvas is not mounted.
type Surface interface {
	ScreenCTM() (Matrix, bool)
}

// ViewportCTM builds the user-to-screen transform of a canvas drawn in the
// client rectangle (left, top, width, height), letterboxed to keep the
// logical aspect ratio centered.
func ViewportCTM(left, top, width, height float64) Matrix {
	if width <= 0 || height <= 0 {
		return Matrix{}
	}
	scale := min(width/LogicalWidth, height/LogicalHeight)
	offX := left + (width-LogicalWidth*scale)/2
	offY := top + (height-LogicalHeight*scale)/2
	return Matrix{A: scale, D: scale, E: offX, F: offY}
}

// Viewport is a resizable Surface. The zero value is unmounted.
type Viewport struct {
	mu      sync.RWMutex
	ctm     Matrix
	mounted bool
}

func (v *Viewport) Mount(left, top, width, height float64) {
	v.mu.Lock()
	v.ctm = ViewportCTM(left, top, width, height)
	v.mounted = true
	v.mu.Unlock()
}

func (v *Viewport) Unmount() {
	v.mu.Lock()
	v.mounted = false
	v.mu.Unlock()
}

func (v *Viewport) ScreenCTM() (Matrix, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ctm, v.mounted
}

// ToLogical maps a pointer event onto the logical canvas space. The
// transform is read again on every call since window resizes change it.
func ToLogical(p Pointer, s Surface) (Point, bool) {
	if s == nil {
		return Point{}, false
	}
	ctm, ok := s.ScreenCTM()
	if !ok {
		return Point{}, false
	}
	inv, ok := ctm.Inverse()
	if !ok {
		return Point{}, false
	}
	return inv.Apply(Point{X: p.ClientX, Y: p.ClientY}), true
}
