// Command sketchctl joins a room as a headless participant. It logs every
// snapshot it receives and can load a template into the room or clear it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cthunline/cthunline-web-sub002/internal/discovery"
	"github.com/cthunline/cthunline-web-sub002/internal/logging"
	"github.com/cthunline/cthunline-web-sub002/internal/replica"
	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
	"github.com/cthunline/cthunline-web-sub002/internal/template"
	"github.com/cthunline/cthunline-web-sub002/internal/ws"
)

type options struct {
	server     string
	room       string
	templateID string
	file       string
	clear      bool
	once       bool
	discover   bool
	logLevel   string
}

func main() {
	var o options
	flag.StringVar(&o.server, "server", "http://localhost:8080", "relay base URL")
	flag.StringVar(&o.room, "room", "", "room code to join")
	flag.StringVar(&o.templateID, "template", "", "load the saved template with this id into the room")
	flag.StringVar(&o.file, "file", "", "load a snapshot JSON file into the room")
	flag.BoolVar(&o.clear, "clear", false, "clear the room")
	flag.BoolVar(&o.once, "once", false, "exit after the push instead of watching")
	flag.BoolVar(&o.discover, "discover", false, "list relays advertised on the local network and exit")
	flag.StringVar(&o.logLevel, "log-level", "info", "log level")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "sketchctl:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	logger, err := logging.New(o.logLevel, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if o.discover {
		return discovery.Browse(2*time.Second, func(addr string) {
			fmt.Println("http://" + addr)
		})
	}
	if o.room == "" {
		return errors.New("-room is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	push, err := loadPush(ctx, o)
	if err != nil {
		return err
	}

	wsURL, err := roomSocketURL(o.server, o.room)
	if err != nil {
		return err
	}
	client, err := ws.Dial(ctx, wsURL, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	store := sketch.NewStore(sketch.Empty(), sketch.WithLogger(logger))
	w := newWatcher(logger)
	rep := replica.New(store, client, logger, replica.OnApplied(w.applied))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return rep.Run(gctx) })
	g.Go(func() error {
		// Push only once the room's state is in the store, or it would overwrite ours.
		select {
		case <-w.joined:
		case <-gctx.Done():
			return nil
		}
		if push != nil {
			push(store)
		}
		if o.once {
			// Give the replica a moment to flush the outbound snapshot.
			time.Sleep(500 * time.Millisecond)
			cancel()
		}
		return nil
	})
	return g.Wait()
}

// loadPush resolves the requested action into a store mutation, or nil
// when the participant only watches.
func loadPush(ctx context.Context, o options) (func(*sketch.Store), error) {
	switch {
	case o.clear:
		return func(s *sketch.Store) { s.ClearSketch() }, nil
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		var snap sketch.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return func(s *sketch.Store) { s.LoadTemplate(snap) }, nil
	case o.templateID != "":
		snap, err := fetchTemplate(ctx, o.server, o.templateID)
		if err != nil {
			return nil, err
		}
		return func(s *sketch.Store) { s.LoadTemplate(snap) }, nil
	}
	return nil, nil
}

func fetchTemplate(ctx context.Context, server, id string) (sketch.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(server, "/")+"/templates/"+url.PathEscape(id), nil)
	if err != nil {
		return sketch.Snapshot{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return sketch.Snapshot{}, fmt.Errorf("fetch template: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return sketch.Snapshot{}, fmt.Errorf("fetch template: %s", resp.Status)
	}
	var tpl template.Template
	if err := json.NewDecoder(resp.Body).Decode(&tpl); err != nil {
		return sketch.Snapshot{}, fmt.Errorf("decode template: %w", err)
	}
	return tpl.Snapshot()
}

// roomSocketURL turns http(s)://host into ws(s)://host/rooms/<code>/ws.
func roomSocketURL(server, code string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/rooms/" + url.PathEscape(code) + "/ws"
	return u.String(), nil
}
