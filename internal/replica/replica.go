// Package replica keeps a participant's sketch store in step with the room:
// local mutations go out as whole snapshots, snapshots from peers replace
// the local document. Last writer wins.
package replica

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

// Channel is the room transport. Delivery, fan-out and reconnection are
// its business.
type Channel interface {
	Send(ctx context.Context, snap sketch.Snapshot) error
	Receive(ctx context.Context) (sketch.Snapshot, error)
}

type Replica struct {
	store   *sketch.Store
	ch      Channel
	pending chan sketch.Snapshot
	applied func(sketch.Snapshot)
	logger  *zap.Logger
}

type Option func(*Replica)

// OnApplied registers fn to run after each inbound snapshot has been
// installed in the store.
func OnApplied(fn func(sketch.Snapshot)) Option {
	return func(r *Replica) { r.applied = fn }
}

// New wires the replica as the store's publisher.
func New(store *sketch.Store, ch Channel, logger *zap.Logger, opts ...Option) *Replica {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Replica{
		store:   store,
		ch:      ch,
		pending: make(chan sketch.Snapshot, 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	store.SetPublisher(r)
	return r
}

// Publish queues a snapshot for sending without blocking. A snapshot still
// waiting is replaced, since the newer one supersedes it.
func (r *Replica) Publish(snap sketch.Snapshot) {
	select {
	case r.pending <- snap:
		return
	default:
	}
	select {
	case <-r.pending:
	default:
	}
	select {
	case r.pending <- snap:
	default:
		r.logger.Debug("replica: outbound snapshot superseded")
	}
}

// Receive applies a snapshot from a peer. The local undo log is kept.
func (r *Replica) Receive(snap sketch.Snapshot) {
	r.store.Replace(snap)
	if r.applied != nil {
		r.applied(snap)
	}
}

// Run pumps snapshots both ways until ctx ends or the channel fails to
// deliver inbound messages.
func (r *Replica) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.sendLoop(ctx) })
	g.Go(func() error { return r.receiveLoop(ctx) })
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Replica) sendLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-r.pending:
			if err := r.ch.Send(ctx, snap); err != nil {
				// not retried: the next mutation sends a fresher snapshot
				r.logger.Warn("replica: send snapshot", zap.Error(err))
			}
		}
	}
}

func (r *Replica) receiveLoop(ctx context.Context) error {
	for {
		snap, err := r.ch.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		r.Receive(snap)
	}
}
