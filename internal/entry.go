// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wavemark/internal/api"
	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/export"
	"github.com/starford/wavemark/internal/index"
	"github.com/starford/wavemark/internal/library"
	"github.com/starford/wavemark/internal/mcpserver"
	"github.com/starford/wavemark/internal/media"
	"github.com/starford/wavemark/internal/playback"
	"github.com/starford/wavemark/internal/session"
	"github.com/starford/wavemark/internal/sse"
	"github.com/starford/wavemark/internal/timeaxis"
	"github.com/starford/wavemark/internal/trackservice"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. Stdout carries the protocol in MCP stdio mode.
	var logOut io.Writer = os.Stdout
	if app.mcpStdio {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("library_path", cfg.Library.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("clipboard_mode", cfg.Clipboard.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure library directory exists.
	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}

	lib, err := library.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init library: %w", err)
	}

	// Initialize SQLite probe cache.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(db, lib, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.WaveformThrottle)
	defer broker.Close()

	var player playback.Player = playback.NewBroadcastPlayer(broker)
	if app.mcpStdio {
		player = playback.LogPlayer{Logger: logger}
	}

	tracks := trackservice.NewService(lib, db,
		media.NewFFmpeg(cfg.Decoder.FFmpegBin, cfg.Decoder.FFprobeBin),
		cfg.Decoder.SampleRate, logger)

	sess := session.New(session.Options{
		View: timeaxis.Options{
			ViewWidth:  cfg.View.Width,
			ZoomMin:    cfg.View.ZoomMin,
			ZoomMax:    cfg.View.ZoomMax,
			BaseStepMS: cfg.View.BaseStepMS,
		},
		HitRadiusPX: cfg.View.HitRadiusPX,
		Player:      player,
		Clipboard:   export.NewClipboard(cfg.Clipboard.Mode),
		Notifier:    broker,
		Logger:      logger,
	})

	mcpSrv := mcpserver.New(sess, tracks)

	if app.mcpStdio {
		logger.Info("Serving MCP on stdio")
		return mcpSrv.ServeStdio()
	}

	// Build API router.
	apiRouter := api.NewRouter(sess, tracks, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// MCP over streamable HTTP shares the session with the API.
	r.With(api.AuthMiddleware(cfg.Auth.AuthEnabled(), cfg.Auth.Token)).Handle("/mcp", mcpSrv.HTTPHandler())

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start library watcher: broadcast changes and reload the open track when rewritten.
	g.Go(func() error {
		return index.Watch(gCtx, db, lib, logger, func(kind, path string) {
			broker.PublishChange(sse.KindLibrary, map[string]string{"op": kind, "path": path})
			reloadIfOpen(gCtx, logger, sess, tracks, kind, path)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// reloadIfOpen reloads the session when the loaded file's content changed on disk.
func reloadIfOpen(ctx context.Context, logger *slog.Logger, sess *session.Session, tracks *trackservice.Service, kind, path string) {
	cur, err := sess.Track()
	if errors.Is(err, apperr.ErrNotReady) || cur.Path != path {
		return
	}
	switch kind {
	case index.KindUpdated, index.KindCreated:
		fresh, err := tracks.Probe(ctx, path)
		if err != nil {
			logger.Warn("reload probe failed", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		// Rewrites with identical bytes keep the placed markers.
		if fresh.Checksum == cur.Checksum {
			logger.Debug("loaded track unchanged", slog.String("path", path))
			return
		}
		if _, err := tracks.Open(ctx, path, sess); err != nil {
			logger.Warn("reload failed", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		logger.Info("reloaded changed track", slog.String("path", path))
	case index.KindDeleted:
		logger.Warn("loaded track removed from library", slog.String("path", path))
	}
}
