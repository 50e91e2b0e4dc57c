package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/baharkarakas/payment-authorizer/internal/config"
	"github.com/baharkarakas/payment-authorizer/internal/db"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
	"github.com/baharkarakas/payment-authorizer/internal/repository/memory"
	"github.com/baharkarakas/payment-authorizer/internal/repository/postgres"
	"github.com/baharkarakas/payment-authorizer/internal/repository/redisstore"
)

// Backend is the opened set of stores plus whatever must be closed on exit.
type Backend struct {
	Repos   repository.Repositories
	Pingers map[string]repository.Pinger
	closers []func()
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// OpenBackend connects the configured STORE_BACKEND and, when
// ACCOUNT_BACKEND=redis, moves accounts onto redis.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	b := &Backend{Pingers: map[string]repository.Pinger{}}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		b.Repos = memory.NewRepositories()
	case config.BackendPostgres:
		if cfg.Migrate {
			if err := db.RunMigrations(ctx, cfg.DatabaseURL, "up"); err != nil {
				return nil, err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.Repos = postgres.NewRepositories(pool)
		b.Pingers["postgres"] = postgres.Pinger{Pool: pool}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.AccountBackend {
	case cfg.StoreBackend:
	case config.BackendRedis:
		rdb, err := redisstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		b.closers = append(b.closers, func() { closeRedis(rdb) })
		store := redisstore.NewAccountStore(rdb)
		b.Repos.Accounts = store
		b.Repos.Seeder = repository.SplitSeeder{Merchants: b.Repos.Seeder, Accounts: store}
		b.Pingers["redis"] = store
	default:
		b.Close()
		return nil, fmt.Errorf("unsupported ACCOUNT_BACKEND %q with STORE_BACKEND %q", cfg.AccountBackend, cfg.StoreBackend)
	}

	slog.Info("backend ready", "store", cfg.StoreBackend, "accounts", cfg.AccountBackend)
	return b, nil
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		slog.Warn("redis close", "err", err)
	}
}
