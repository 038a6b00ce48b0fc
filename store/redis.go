package store

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-session"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "session:state"

// RedisStore keeps the session in a shared cache, for web deployments
// where the thin client cannot persist locally.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

var _ session.TokenStore = (*RedisStore)(nil)

// RedisStoreOption customizes RedisStore construction.
type RedisStoreOption func(*RedisStore)

// WithRedisKey overrides the key the session is stored under, e.g. to
// scope it per installation.
func WithRedisKey(key string) RedisStoreOption {
	return func(r *RedisStore) {
		if key != "" {
			r.key = key
		}
	}
}

// NewRedisStore creates a redis-backed store with the given client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	r := &RedisStore{
		client: client,
		key:    defaultRedisKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

func (r *RedisStore) Get(ctx context.Context) (session.Session, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, nil
		}
		// Fail soft: an unreachable cache reads as logged out.
		return session.Session{}, nil
	}

	var s session.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return session.Session{}, nil
	}

	return s.Normalize(), nil
}

func (r *RedisStore) Set(ctx context.Context, s session.Session) error {
	raw, err := json.Marshal(s.Normalize())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode session")
	}

	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "redis set failed")
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "redis del failed")
	}
	return nil
}
