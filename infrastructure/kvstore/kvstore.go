// Package kvstore is the process-wide key-value store backing client-side
// caches. Values are opaque strings; callers own their encoding.
package kvstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"estateadmin/infrastructure/config"
	"estateadmin/infrastructure/sqlite"
)

// Store is implemented by every backend.
type Store interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Open selects the backend named in cfg. The returned close func releases
// backend resources that Open created.
func Open(ctx context.Context, cfg config.CacheConfig, db *sqlite.DB) (Store, func() error, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, ""), client.Close, nil
	case config.CacheBackendSQLite, "":
		return NewSQLiteStore(db), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
