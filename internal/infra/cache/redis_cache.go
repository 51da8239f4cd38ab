// Package cache implements the catalog read cache on Redis.
package cache

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	keyPrefix = "storefront:catalog:"
	scanBatch = 100
)

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) service.CatalogCache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, errors.Wrapf(err, "failed to get %s", key)
	}

	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrapf(c.client.Set(ctx, keyPrefix+key, value, ttl).Err(), "failed to set %s", key)
}

// Invalidate deletes all catalog keys. SCAN is used so a large keyspace never blocks the server.
func (c *redisCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return errors.Wrap(err, "failed to scan catalog keys")
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "failed to delete catalog keys")
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// noopCache is used when no Redis URL is configured. Every read misses.
type noopCache struct{}

// NewNoopCache returns a cache that never stores anything.
func NewNoopCache() service.CatalogCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (noopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noopCache) Invalidate(context.Context) error { return nil }

// Params defines the dependencies of the cache module.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New connects to Redis when configured and falls back to the no-op cache otherwise.
func New(params Params) (service.CatalogCache, error) {
	if params.Config.Redis == nil || params.Config.Redis.URL == "" {
		params.Logger.Info("Redis not configured, catalog cache disabled")

		return NewNoopCache(), nil
	}

	opt, err := redis.ParseURL(params.Config.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis url")
	}

	client := redis.NewClient(opt)

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to connect to redis")
			}
			params.Logger.Info("Catalog cache connected",
				slog.String("addr", opt.Addr),
				slog.String("ttl", util.FormatDuration(params.Config.Redis.CatalogTTL)),
			)

			return nil
		},
		OnStop: func(context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return NewRedisCache(client), nil
}
