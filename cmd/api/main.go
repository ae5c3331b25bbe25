package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/swc-studio-backend/config"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/lifecycle"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/repository"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/logger"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/storage/postgres"
)

const serviceName = "swc-studio-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Setup(cfg.App.LogLevel, cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	persistence, err := bootstrap.OpenPersistence(ctx, cfg)
	if err != nil {
		return err
	}
	defer persistence.Close()

	var pool *pgxpool.Pool
	if cfg.NeedsDatabase() {
		pool, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Backend:     cfg.Persistence.Backend,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateRPS:     cfg.Server.RateLimitRPS,
		RateBurst:   cfg.Server.RateLimitBurst,
		DB:          pool,
		Redis:       persistence.Redis,
	}

	if cfg.Export.ArchiveEnabled {
		archive := repository.NewExportArchive(pool)
		if err := archive.EnsureSchema(ctx); err != nil {
			return err
		}
		deps.Archive = archive
	}

	manager := lifecycle.NewManager(persistence.Repo)
	deps.Manager = manager

	if cfg.AutoSave.Enabled {
		scheduler := lifecycle.NewAutoSaveScheduler(manager, cfg.AutoSave.Schedule)
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			scheduler.Stop(sctx)
			// Last chance for edits made since the previous tick.
			if _, err := manager.AutoSaveAll(sctx); err != nil {
				slog.Warn("final auto-save", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr, "backend", cfg.Persistence.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
