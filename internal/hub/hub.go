// Package hub is the registry of live rooms.
package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/room"
	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

const loadTimeout = 2 * time.Second

// SnapshotStore is where rooms persist their latest snapshot so they can
// be restored after a restart.
type SnapshotStore interface {
	room.Saver
	LoadSnapshot(ctx context.Context, code string) (sketch.Snapshot, bool, error)
}

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code   string
	Sketch sketch.Snapshot
	Reply  chan *room.Room
}

// GetRoom replies with the live room, restoring it from the snapshot store
// when possible. The reply is nil for unknown codes.
type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type EnsureRoom struct {
	Code   string
	Sketch sketch.Snapshot // only used if creation happens
	Reply  chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Option func(*Hub)

func WithSnapshotStore(s SnapshotStore) Option { return func(h *Hub) { h.store = s } }

func WithLogger(l *zap.Logger) Option { return func(h *Hub) { h.logger = l } }

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	store  SnapshotStore
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		logger: zap.NewNop(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Room is a synchronous helper around GetRoom.
func (h *Hub) Room(code string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.inbox <- GetRoom{Code: code, Reply: reply}
	return <-reply
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if r := h.rooms[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				msg.Reply <- h.create(msg.Code, msg.Sketch)

			case GetRoom:
				if r := h.rooms[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				msg.Reply <- h.restore(msg.Code) // May be nil

			case EnsureRoom:
				if r := h.rooms[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				if r := h.restore(msg.Code); r != nil {
					msg.Reply <- r
					break
				}
				msg.Reply <- h.create(msg.Code, msg.Sketch)

			case RemoveRoom:
				if r := h.rooms[msg.Code]; r != nil {
					r.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.Code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) open(code string, initial sketch.Snapshot) *room.Room {
	opts := []room.Option{room.WithLogger(h.logger)}
	if h.store != nil {
		opts = append(opts, room.WithSaver(h.store))
	}
	r := room.NewRoom(h.ctx, code, initial, opts...)
	h.rooms[code] = r
	h.logger.Info("room opened", zap.String("room", code))
	return r
}

// create opens a new room and stores its initial snapshot right away, so the
// code survives a restart even if nobody edits before it.
func (h *Hub) create(code string, initial sketch.Snapshot) *room.Room {
	r := h.open(code, initial)
	if h.store == nil {
		return r
	}
	ctx, cancel := context.WithTimeout(h.ctx, loadTimeout)
	defer cancel()
	if err := h.store.SaveSnapshot(ctx, code, initial.Clone()); err != nil {
		h.logger.Warn("save initial snapshot", zap.String("room", code), zap.Error(err))
	}
	return r
}

func (h *Hub) restore(code string) *room.Room {
	if h.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(h.ctx, loadTimeout)
	defer cancel()
	snap, ok, err := h.store.LoadSnapshot(ctx, code)
	if err != nil {
		h.logger.Warn("load snapshot", zap.String("room", code), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return h.open(code, snap)
}

func (h *Hub) shutdown() {
	for _, r := range h.rooms {
		r.Inbox() <- room.Shutdown{}
	}
	clear(h.rooms)
	h.cancel()
}
