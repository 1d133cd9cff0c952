package selection

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const selectionKeyPrefix = "groupdeck:selection:"

// RedisStore shares panel selections across instances through Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed selection store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load returns the stored domain for a panel, or "" when none is stored.
func (s *RedisStore) Load(ctx context.Context, panel string) (string, error) {
	val, err := s.client.Get(ctx, selectionKeyPrefix+panel).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// Save stores the domain for a panel. Selections have no expiry; they are
// overwritten on the next change.
func (s *RedisStore) Save(ctx context.Context, panel, domain string) error {
	return s.client.Set(ctx, selectionKeyPrefix+panel, domain, 0).Err()
}
