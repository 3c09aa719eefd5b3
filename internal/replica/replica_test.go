package replica

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

type fakeChannel struct {
	mu      sync.Mutex
	sent    []sketch.Snapshot
	failing bool
	inbound chan sketch.Snapshot
	notify  chan struct{}
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		inbound: make(chan sketch.Snapshot, 4),
		notify:  make(chan struct{}, 16),
	}
}

func (f *fakeChannel) Send(_ context.Context, snap sketch.Snapshot) error {
	f.mu.Lock()
	defer func() {
		f.mu.Unlock()
		f.notify <- struct{}{}
	}()
	if f.failing {
		f.failing = false
		return errors.New("connection reset")
	}
	f.sent = append(f.sent, snap)
	return nil
}

func (f *fakeChannel) Receive(ctx context.Context) (sketch.Snapshot, error) {
	select {
	case <-ctx.Done():
		return sketch.Snapshot{}, ctx.Err()
	case snap, ok := <-f.inbound:
		if !ok {
			return sketch.Snapshot{}, errors.New("channel closed")
		}
		return snap, nil
	}
}

func (f *fakeChannel) Sent() []sketch.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sketch.Snapshot(nil), f.sent...)
}

// helper: wait for n Send calls so tests never hang
func waitSends(t *testing.T, f *fakeChannel, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.notify:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for send %d", i+1)
		}
	}
}

func start(t *testing.T, r *Replica) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

func TestLocalMutationIsSent(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	start(t, New(store, ch, nil))

	id := store.AddToken(10, 20, "#000", nil)
	waitSends(t, ch, 1)

	sent := ch.Sent()
	require.Len(t, sent, 1)
	require.Len(t, sent[0].Tokens, 1)
	assert.Equal(t, id, sent[0].Tokens[0].ID)
}

func TestInboundReplacesDocumentButKeepsUndoLog(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	r := New(store, ch, nil)

	store.AddPath("M 0 0", "#000", 1)
	store.AddText(0, 0, "a", "#000", 10)
	events := store.Events()

	remote := sketch.Empty()
	remote.Displayed = true
	remote.Images = []sketch.Image{{ID: "img", URL: "x.png", Width: 10}}
	r.Receive(remote)

	assert.Equal(t, events, store.Events())
	assert.Equal(t, remote, store.Snapshot())
}

func TestInboundIsNotEchoed(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	start(t, New(store, ch, nil))

	remote := sketch.Empty()
	remote.Tokens = []sketch.Token{{ID: "remote"}}
	ch.inbound <- remote
	require.Eventually(t, func() bool {
		return len(store.Snapshot().Tokens) == 1
	}, time.Second, 5*time.Millisecond)

	select {
	case <-ch.notify:
		t.Fatal("inbound snapshot was sent back")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Empty(t, ch.Sent())
}

func TestPendingSnapshotIsSuperseded(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	r := New(store, ch, nil)

	store.AddText(0, 0, "one", "#000", 10)
	store.AddText(0, 0, "two", "#000", 10)
	store.AddText(0, 0, "three", "#000", 10)

	start(t, r)
	waitSends(t, ch, 1)

	sent := ch.Sent()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].Texts, 3)
}

func TestSendFailureIsNotRetried(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	ch.failing = true
	start(t, New(store, ch, nil))

	store.AddText(0, 0, "lost", "#000", 10)
	waitSends(t, ch, 1)
	assert.Empty(t, ch.Sent())

	store.AddText(0, 0, "next", "#000", 10)
	waitSends(t, ch, 1)
	sent := ch.Sent()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].Texts, 2)
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	r := New(store, ch, nil)
	close(ch.inbound)

	err := r.Run(context.Background())
	assert.EqualError(t, err, "channel closed")
}

func TestOnAppliedRunsAfterReplace(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := newFakeChannel()
	seen := make(chan sketch.Snapshot, 1)
	r := New(store, ch, nil, OnApplied(func(sketch.Snapshot) {
		seen <- store.Snapshot()
	}))
	start(t, r)

	remote := sketch.Empty()
	remote.Texts = []sketch.Text{{ID: "t1", Text: "hello"}}
	ch.inbound <- remote

	select {
	case got := <-seen:
		assert.Equal(t, remote, got, "store already holds the inbound snapshot")
	case <-time.After(time.Second):
		t.Fatal("OnApplied not called")
	}
}
