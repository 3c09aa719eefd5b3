package main

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

// watcher logs every snapshot installed from the room and signals the
// first one.
type watcher struct {
	logger *zap.Logger
	joined chan struct{}
	once   sync.Once
}

func newWatcher(logger *zap.Logger) *watcher {
	return &watcher{logger: logger, joined: make(chan struct{})}
}

func (w *watcher) applied(snap sketch.Snapshot) {
	w.logger.Info("snapshot",
		zap.Bool("displayed", snap.Displayed),
		zap.Int("paths", len(snap.Paths)),
		zap.Int("images", len(snap.Images)),
		zap.Int("texts", len(snap.Texts)),
		zap.Int("tokens", len(snap.Tokens)),
	)
	w.once.Do(func() { close(w.joined) })
}
