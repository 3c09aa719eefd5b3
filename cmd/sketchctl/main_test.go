package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/replica"
	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

func TestRoomSocketURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:8080", "ws://localhost:8080/rooms/ABC123/ws"},
		{"https://relay.example.com/", "wss://relay.example.com/rooms/ABC123/ws"},
		{"http://host/base", "ws://host/base/rooms/ABC123/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			got, err := roomSocketURL(tt.server, "ABC123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := roomSocketURL("ftp://host", "ABC123")
	assert.Error(t, err)
}

func TestLoadPush_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"displayed":true,"texts":[{"id":"t1","x":1,"y":2,"text":"Hi","color":"#000","fontSize":12}]}`), 0o600))

	push, err := loadPush(context.Background(), options{file: path})
	require.NoError(t, err)
	require.NotNil(t, push)

	store := sketch.NewStore(sketch.Empty())
	store.AddPath("M 0 0", "#000", 1)
	push(store)

	snap := store.Snapshot()
	assert.True(t, snap.Displayed)
	require.Len(t, snap.Texts, 1)
	assert.Empty(t, snap.Paths)
	assert.Zero(t, store.EventCount())
}

func TestLoadPush_Clear(t *testing.T) {
	push, err := loadPush(context.Background(), options{clear: true})
	require.NoError(t, err)

	store := sketch.NewStore(sketch.Empty())
	store.AddPath("M 0 0", "#000", 1)
	push(store)
	assert.Empty(t, store.Snapshot().Paths)
	assert.Equal(t, 2, store.EventCount())
}

func TestLoadPush_WatchOnly(t *testing.T) {
	push, err := loadPush(context.Background(), options{})
	require.NoError(t, err)
	assert.Nil(t, push)
}

func TestClearAfterJoinRecordsRoomState(t *testing.T) {
	store := sketch.NewStore(sketch.Empty())
	ch := &stubChannel{inbound: make(chan sketch.Snapshot, 1)}
	w := newWatcher(zap.NewNop())
	rep := replica.New(store, ch, nil, replica.OnApplied(w.applied))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = rep.Run(ctx) }()

	room := sketch.Empty()
	room.Paths = []sketch.Path{{ID: "p1", D: "M 0 0 L 5 5", Color: "#000", Width: 2}}
	ch.inbound <- room

	select {
	case <-w.joined:
	case <-time.After(time.Second):
		t.Fatal("joined not signalled")
	}
	push, err := loadPush(ctx, options{clear: true})
	require.NoError(t, err)
	push(store)

	events := store.Events()
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Prior)
	assert.Equal(t, room.Paths, events[0].Prior.Paths)

	require.True(t, store.Undo())
	assert.Equal(t, room, store.Snapshot())
}

type stubChannel struct{ inbound chan sketch.Snapshot }

func (s *stubChannel) Send(context.Context, sketch.Snapshot) error { return nil }

func (s *stubChannel) Receive(ctx context.Context) (sketch.Snapshot, error) {
	select {
	case <-ctx.Done():
		return sketch.Snapshot{}, ctx.Err()
	case snap := <-s.inbound:
		return snap, nil
	}
}

func TestWatcherSignalsOnce(t *testing.T) {
	w := newWatcher(zap.NewNop())
	w.applied(sketch.Empty())
	w.applied(sketch.Empty())
	select {
	case <-w.joined:
	default:
		t.Fatal("joined not signalled")
	}
}
