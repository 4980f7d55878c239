package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisCodeStore keeps one-time codes in Redis so a code issued by one
// process instance is visible to a confirmation served by another. Entries
// are removed entirely after single use, not merely nulled.
type RedisCodeStore struct {
	RDB *redis.Client
}

func NewRedisCodeStore(rdb *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{RDB: rdb}
}

func (s *RedisCodeStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.RDB.Set(ctx, key, code, ttl).Err()
}

// Get returns the stored code, or ok=false if the key is absent or expired.
func (s *RedisCodeStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisCodeStore) Del(ctx context.Context, key string) error {
	return s.RDB.Del(ctx, key).Err()
}
