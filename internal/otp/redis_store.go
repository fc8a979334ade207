package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// consumeScript deletes the key only when it holds the submitted code.
// Returns 1 on success, 0 when absent, -1 on mismatch.
var consumeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return 0
end
if v ~= ARGV[1] then
  return -1
end
redis.call('DEL', KEYS[1])
return 1
`)

// RedisStore keeps one code per email; issuing again overwrites the previous
// code and resets the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Issue(ctx context.Context, email string) (int, error) {
	code, err := GenerateCode()
	if err != nil {
		return 0, err
	}
	if err := s.client.Set(ctx, keyPrefix+email, strconv.Itoa(code), s.ttl).Err(); err != nil {
		return 0, fmt.Errorf("storing verification code: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Consume(ctx context.Context, email string, code int) error {
	res, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + email}, strconv.Itoa(code)).Int()
	if err != nil {
		return fmt.Errorf("consuming verification code: %w", err)
	}
	switch res {
	case 1:
		return nil
	case -1:
		return ErrCodeMismatch
	default:
		return ErrCodeNotFound
	}
}
