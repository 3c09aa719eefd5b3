// Package room is the relay side of the sketch channel: one actor per
// room holds the latest snapshot and fans updates out to its members.
package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

const saveTimeout = 2 * time.Second

type Msg interface{ isRoomMsg() }

// FromClient is a snapshot pushed by a participant. It replaces the room
// state wholesale.
type FromClient struct {
	ClientID string
	Sketch   sketch.Snapshot
}

func (FromClient) isRoomMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type Snapshot struct {
	Version int
	Sketch  sketch.Snapshot
}

type View struct {
	Code       string
	Version    int
	NumClients int
	Sketch     sketch.Snapshot
}

// Saver persists the latest snapshot of a room.
type Saver interface {
	SaveSnapshot(ctx context.Context, code string, snap sketch.Snapshot) error
}

type Option func(*Room)

func WithSaver(s Saver) Option { return func(r *Room) { r.saver = s } }

func WithLogger(l *zap.Logger) Option { return func(r *Room) { r.logger = l } }

type Room struct {
	code    string
	inbox   chan Msg
	sketch  sketch.Snapshot
	version int
	clients map[string]chan Snapshot
	saver   Saver
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRoom(parent context.Context, code string, initial sketch.Snapshot, opts ...Option) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		sketch:  initial.Clone(),
		clients: make(map[string]chan Snapshot),
		logger:  zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("room", code))

	go r.loop()
	return r
}

func (r *Room) Code() string { return r.code }

// Inbox exposes the actor mailbox to the websocket layer and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has shut down.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.clients[msg.ClientID] = msg.Outbox
				r.send(msg.ClientID, msg.Outbox, r.current())
				r.logger.Info("client joined", zap.String("client", msg.ClientID), zap.Int("clients", len(r.clients)))

			case Leave:
				delete(r.clients, msg.ClientID)
				r.logger.Info("client left", zap.String("client", msg.ClientID), zap.Int("clients", len(r.clients)))

			case FromClient:
				r.sketch = msg.Sketch.Clone()
				r.version++
				r.broadcast(r.current(), msg.ClientID)
				r.save()

			case GetState:
				msg.Reply <- View{
					Code:       r.code,
					Version:    r.version,
					NumClients: len(r.clients),
					Sketch:     r.sketch.Clone(),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) current() Snapshot {
	return Snapshot{Version: r.version, Sketch: r.sketch.Clone()}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch) // Tell client no more snapshots
		delete(r.clients, id)
	}
	r.cancel()
}

// broadcast fans a snapshot out to every member except its author.
func (r *Room) broadcast(snap Snapshot, except string) {
	for id, ch := range r.clients {
		if id == except {
			continue
		}
		r.send(id, ch, snap)
	}
}

func (r *Room) send(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	default:
		// Client is slow/full - drop them.
		r.logger.Warn("dropping slow client", zap.String("client", id))
		close(ch)
		delete(r.clients, id)
	}
}

func (r *Room) save() {
	if r.saver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(r.ctx, saveTimeout)
	defer cancel()
	if err := r.saver.SaveSnapshot(ctx, r.code, r.sketch); err != nil {
		r.logger.Warn("save snapshot", zap.Error(err))
	}
}
