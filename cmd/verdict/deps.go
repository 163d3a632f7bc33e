package main

import (
	"context"
	"fmt"

	"github.com/aretw0/verdict/internal/runtime"
	"github.com/aretw0/verdict/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/verdict/pkg/adapters/redis"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/observability"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/session"
)

// backend is the session plumbing shared by the serve and mcp commands.
type backend struct {
	engine   *runtime.Engine
	sessions *session.Manager
	close    func() error
}

// newBackend wires the stateless engine to the configured store. With redis.addr set,
// sessions live in redis and writers are serialized across replicas by a redis lock.
func newBackend(ctx context.Context, hooks ...domain.LifecycleHooks) (*backend, error) {
	engine := runtime.NewEngine(
		runtime.WithLogger(logger),
		runtime.WithDefaultTitle(cfg.Editor.DefaultTitle),
		runtime.WithLifecycleHooks(observability.Chain(append([]domain.LifecycleHooks{observability.LoggingHooks(logger)}, hooks...)...)),
	)

	var (
		store ports.StateStore
		opts  = []session.Option{
			session.WithLogger(logger),
			session.WithStateFactory(engine.NewState),
		}
		closeFn = func() error { return nil }
	)

	if cfg.Redis.Addr == "" {
		store = memory.NewStore()
		logger.Info("Using in-memory session store")
	} else {
		client := redisAdapter.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		redisStore := redisAdapter.NewFromClient(client,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithTTL(cfg.Redis.SessionTTL),
		)
		store = redisStore
		opts = append(opts,
			session.WithLocker(redisAdapter.NewLocker(client, cfg.Redis.Prefix)),
			session.WithLockTTL(cfg.Redis.LockTTL),
		)
		closeFn = redisStore.Close
		logger.Info("Using redis session store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	return &backend{
		engine:   engine,
		sessions: session.NewManager(store, opts...),
		close:    closeFn,
	}, nil
}
