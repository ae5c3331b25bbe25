package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/swc-studio-backend/config"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/lifecycle"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/repository"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/storage/postgres"
)

// Persistence holds the project repository and the clients it was built on. Close releases
// whatever was opened.
type Persistence struct {
	Repo  lifecycle.Repository
	Redis *redis.Client

	closers []func() error
}

func (p *Persistence) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			slog.Warn("close persistence", "error", err)
		}
	}
	p.closers = nil
}

// OpenPersistence builds the repository selected by cfg.Persistence.Backend.
func OpenPersistence(ctx context.Context, cfg *config.Config) (*Persistence, error) {
	p := &Persistence{}
	switch cfg.Persistence.Backend {
	case config.BackendMemory, "":
		p.Repo = repository.NewMemoryRepository()

	case config.BackendFile:
		repo, err := repository.NewFileRepository(cfg.Persistence.SnapshotDir)
		if err != nil {
			return nil, fmt.Errorf("file repository: %w", err)
		}
		p.Repo = repo

	case config.BackendRedis:
		rdb, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		p.Redis = rdb
		p.closers = append(p.closers, rdb.Close)
		p.Repo = repository.NewRedisRepository(rdb, cfg.Redis.SnapshotTTL)

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, db.Close)
		repo := repository.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			p.Close()
			return nil, fmt.Errorf("snapshot schema: %w", err)
		}
		p.Repo = repo

	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}

	slog.Info("persistence ready", "backend", cfg.Persistence.Backend)
	return p, nil
}
