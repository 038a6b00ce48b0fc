// Package store provides the TokenStore implementations: one per platform
// capability, all sharing the same contract. Get fails soft, Set replaces
// every field at once, and an empty token always reads back as a fully
// empty session.
package store

import (
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-session"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// FromConfig builds the TokenStore selected by the configuration.
func FromConfig(cfg session.StoreConfig) (session.TokenStore, error) {
	switch cfg.Kind {
	case session.StoreKindMemory:
		return NewMemoryStore(), nil
	case session.StoreKindFile:
		return NewFileStore(cfg.Path), nil
	case session.StoreKindRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return NewRedisStore(client), nil
	case session.StoreKindSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open sqlite session store")
		}
		return NewBunStore(bun.NewDB(sqldb, sqlitedialect.New())), nil
	default:
		return nil, errors.New("unknown session store kind", errors.CategoryBadInput).
			WithMetadata(map[string]any{"kind": cfg.Kind})
	}
}
