package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cthunline/cthunline-web-sub002/internal/config"
	"github.com/cthunline/cthunline-web-sub002/internal/discovery"
	"github.com/cthunline/cthunline-web-sub002/internal/httpapi"
	"github.com/cthunline/cthunline-web-sub002/internal/hub"
	"github.com/cthunline/cthunline-web-sub002/internal/logging"
	"github.com/cthunline/cthunline-web-sub002/internal/session"
	"github.com/cthunline/cthunline-web-sub002/internal/template"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hubOpts := []hub.Option{hub.WithLogger(logger)}
	deps := httpapi.Deps{AllowedOrigins: cfg.AllowedOrigins, Logger: logger}

	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(cfg.RedisURL, cfg.SnapshotTTL)
		if err != nil {
			return err
		}
		defer store.Close()
		hubOpts = append(hubOpts, hub.WithSnapshotStore(store))
		deps.Health = store.Ping
		logger.Info("room snapshots stored in redis", zap.Duration("ttl", cfg.SnapshotTTL))
	}

	if cfg.DatabaseURL != "" {
		repo, err := template.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer repo.Close()
		deps.Templates = repo
		logger.Info("templates enabled")
	}

	h := hub.NewHub(ctx, hubOpts...)
	deps.Hub = h

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.MDNSEnabled {
		port, _ := cfg.Port()
		adv, err := discovery.Advertise(cfg.MDNSInstance, port)
		if err != nil {
			logger.Warn("mdns advertise failed", zap.Error(err))
		} else {
			defer adv.Shutdown()
			logger.Info("advertising on mdns", zap.String("instance", cfg.MDNSInstance), zap.Int("port", port))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("server stopped")
	return err
}
