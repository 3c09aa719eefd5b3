// Package types is the websocket protocol between participants and the
// room relay.
//
// Client -> Server
//
//	{"type": "sketch", "sketch": Snapshot}
//
// Server -> Client
//
//	{"type": "sketch", "version": n, "sketch": Snapshot}   on join and on every peer update
//	{"type": "error", "error": "..."}
package types

import "github.com/cthunline/cthunline-web-sub002/internal/sketch"

const (
	MsgSketch = "sketch"
	MsgError  = "error"
)

// MaxMessageBytes bounds a single websocket frame. Snapshots carry every
// path of the board, so the library default is far too small.
const MaxMessageBytes = 8 << 20

type ClientMessage struct {
	Type   string           `json:"type"`
	Sketch *sketch.Snapshot `json:"sketch,omitempty"`
}

type ServerMessage struct {
	Type    string           `json:"type"` // "sketch" | "error"
	Version int              `json:"version,omitempty"`
	Sketch  *sketch.Snapshot `json:"sketch,omitempty"`
	Error   string           `json:"error,omitempty"`
}
