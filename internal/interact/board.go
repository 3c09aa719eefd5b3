// Package interact turns raw pointer events into sketch mutations.
//
// Controllers follow the same Idle -> Active -> Idle cycle: a qualifying
// pointer-down activates, moves only update a local preview, and
// pointer-up or pointer-leave commits when something changed. They run on
// the caller's UI goroutine and are not safe for concurrent use.
package interact

import (
	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/geometry"
	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

type State int

const (
	Idle State = iota
	Active
)

type ItemKind string

const (
	KindImage ItemKind = "image"
	KindText  ItemKind = "text"
	KindToken ItemKind = "token"
)

// Participant is the externally supplied identity and role of the local
// user.
type Participant struct {
	UserID int
	Editor bool
}

// CanMove reports whether the participant may drag an item of the given
// kind. Non-editors may only move tokens attached to them.
func (p Participant) CanMove(kind ItemKind, tok *sketch.Token) bool {
	if p.Editor {
		return true
	}
	return kind == KindToken && tok != nil && tok.AttachedData != nil &&
		tok.AttachedData.UserID == p.UserID
}

// Board is the single controller context for one mounted canvas. It owns
// the surface reference and makes sure at most one interaction runs.
type Board struct {
	store       *sketch.Store
	surface     geometry.Surface
	participant Participant
	owner       any
	logger      *zap.Logger

	Drawing *Drawing
	Items   *Items
}

func NewBoard(store *sketch.Store, surface geometry.Surface, p Participant, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Board{store: store, surface: surface, participant: p, logger: logger}
	b.Drawing = &Drawing{board: b, color: DefaultColor, width: DefaultWidth}
	b.Items = &Items{board: b}
	return b
}

func (b *Board) Participant() Participant { return b.participant }

// SetParticipant updates the role, e.g. when the master hands over. Any
// running interaction keeps going until release.
func (b *Board) SetParticipant(p Participant) { b.participant = p }

func (b *Board) Busy() bool { return b.owner != nil }

func (b *Board) logical(p geometry.Pointer) (geometry.Point, bool) {
	pt, ok := geometry.ToLogical(p, b.surface)
	if !ok {
		b.logger.Debug("interact: canvas not mounted, pointer ignored")
	}
	return pt, ok
}

func (b *Board) claim(owner any) bool {
	if b.owner != nil {
		return false
	}
	b.owner = owner
	return true
}

func (b *Board) release(owner any) {
	if b.owner == owner {
		b.owner = nil
	}
}
