package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript implements the fixed window atomically: the first increment of
// a window arms its expiry, later increments reuse it. Rejected requests are
// still counted; the window resets only when the TTL lapses.
var incrScript = redis.NewScript(`
-- KEYS[1] = counter key
-- ARGV[1] = window_ms (int)
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
else
  -- Ensure TTL exists even if the key somehow lost it
  if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
  end
end
return n
`)

// RedisStore shares fixed windows across API instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if key == "" {
		return 0, fmt.Errorf("key is required")
	}
	if window <= 0 {
		return 0, fmt.Errorf("window must be > 0")
	}
	return incrScript.Run(ctx, s.rdb, []string{"ratelimit:" + key}, window.Milliseconds()).Int64()
}
