package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	corecfg "github.com/aevon-lab/project-tally/internal/core/config"
	"github.com/aevon-lab/project-tally/internal/core/fingerprint"
	"github.com/aevon-lab/project-tally/internal/core/idempotency"
	"github.com/aevon-lab/project-tally/internal/core/normalize"
	"github.com/aevon-lab/project-tally/internal/core/storage"
	"github.com/aevon-lab/project-tally/internal/core/storage/memory"
	"github.com/aevon-lab/project-tally/internal/core/storage/postgres"
	"github.com/aevon-lab/project-tally/internal/ingestion"
	"github.com/aevon-lab/project-tally/internal/projection"
	"github.com/aevon-lab/project-tally/internal/server"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

const startupTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	flag.Parse()

	// 0. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 1. Initialize Logger
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config",
		"address", cfg.Server.Addr(),
		"store", cfg.Store.Type,
		"fingerprint_mode", cfg.Idempotency.FingerprintMode,
		"cache", cfg.Idempotency.Cache,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}

func run(ctx context.Context, cfg *corecfg.Config) error {
	// 2. Normalization rules
	rules, err := normalize.LoadRules(cfg.Normalization.RulesPath)
	if err != nil {
		return err
	}
	normalizer, err := normalize.New(rules)
	if err != nil {
		return err
	}

	canonicalizer, err := fingerprint.New(fingerprint.Mode(cfg.Idempotency.FingerprintMode))
	if err != nil {
		return err
	}

	// 3. Initialize Storage
	store := newStore(cfg.Store)
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := store.Open(startCtx); err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Type, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	// 4. Fingerprint cache in front of the store
	cache, closeCache, err := newCache(startCtx, cfg.Idempotency)
	if err != nil {
		return err
	}
	defer closeCache()
	guard := idempotency.NewGuard(store, cache)

	// 5. Ingestion and projection
	ingestionSvc := ingestion.NewService(canonicalizer, normalizer, guard, store, cfg.Server.MaxBodySizeMB)
	projectionSvc := projection.NewService(store)

	// 6. Initialize Server
	srv := server.New(cfg.Server.Addr(), store, server.Options{
		Mode:           cfg.Server.Mode,
		RateLimitRPS:   cfg.Server.RateLimit.RPS,
		RateLimitBurst: cfg.Server.RateLimit.Burst,
	})
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 7. Serve until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	return g.Wait()
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newStore(cfg corecfg.StoreConfig) storage.EventStore {
	if cfg.Type == corecfg.StorePostgres {
		return postgres.NewAdapter(postgres.Options{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			AutoMigrate:     cfg.AutoMigrate,
		})
	}
	slog.Warn("Using in-memory store: events are lost on restart")
	return memory.NewStore()
}

func newCache(ctx context.Context, cfg corecfg.IdempotencyConfig) (idempotency.Cache, func(), error) {
	noop := func() {}

	switch cfg.Cache {
	case corecfg.CacheLRU:
		return idempotency.NewLRUCache(cfg.LRUSize), noop, nil
	case corecfg.CacheRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close redis client", "error", err)
			}
		}
		return idempotency.NewRedisCache(rdb, cfg.Redis.TTL), closeFn, nil
	default:
		return nil, noop, nil
	}
}
