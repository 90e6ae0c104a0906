package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"ballpop/internal/analytics"
	"ballpop/internal/config"
	"ballpop/internal/db"
	"ballpop/internal/game"
	"ballpop/internal/metrics"
	"ballpop/internal/sessions"

	"golang.org/x/sync/errgroup"
)

// Run starts the service and blocks until ctx is cancelled or a component
// fails.
func Run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	m := metrics.New()
	g, gctx := errgroup.WithContext(ctx)

	// Optional database connection
	var database *db.DB
	var writer *analytics.Writer
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("database unavailable, running without analytics", "error", err)
		} else if err := database.Migrate(); err != nil {
			logger.Warn("migration failed, running without analytics", "error", err)
			database.Close()
			database = nil
		} else {
			defer database.Close()
			writer = analytics.NewWriter(database, logger)
			g.Go(func() error { return writer.Run(gctx) })
		}
	} else {
		logger.Info("DATABASE_URL not set, running without analytics")
	}

	gameCfg := game.DefaultConfig()
	gameCfg.BackURL = cfg.BackURL

	storeCfg := sessions.Config{
		Game:   gameCfg,
		TTL:    cfg.SessionTTL,
		Logger: logger,
		Recorder: func(code string) game.Recorder {
			if writer == nil {
				return m
			}
			return game.Recorders{m, writer.RecorderFor(code)}
		},
	}
	if writer != nil {
		storeCfg.OnClose = writer.Forget
	}
	store := sessions.NewStore(storeCfg)
	m.TrackSessions(store.Len)

	srv := &Server{
		Sessions: store,
		DB:       database,
		Metrics:  m,
		Limiters: NewLimiters(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:   logger,
	}
	httpServer := srv.newHTTPServer(cfg.Addr())

	g.Go(func() error { return store.Run(gctx) })
	g.Go(func() error { return srv.Limiters.Run(gctx) })

	g.Go(func() error {
		ln, err := net.Listen("tcp", httpServer.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", httpServer.Addr, err)
		}
		logger.Info("starting http server", "addr", httpServer.Addr)
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
