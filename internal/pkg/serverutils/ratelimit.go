package serverutils

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const RateLimitMessage = "Too many requests, please try again later."

// RateLimiter is a fixed-window limiter keyed by client IP. A nil storage
// keeps counters in process memory.
func RateLimiter(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	if storage == nil {
		storage = NewCacheStorage(window)
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(ctx *fiber.Ctx) string {
			return "ratelimit:" + ctx.IP()
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(fiber.StatusTooManyRequests, RateLimitMessage))
		},
		Storage: storage,
	})
}

// CacheStorage adapts go-cache to fiber.Storage.
type CacheStorage struct {
	c *cache.Cache
}

var _ fiber.Storage = (*CacheStorage)(nil)

func NewCacheStorage(window time.Duration) *CacheStorage {
	return &CacheStorage{c: cache.New(window, 2*window)}
}

func (s *CacheStorage) Get(key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, nil
	}
	b, _ := v.([]byte)
	return b, nil
}

func (s *CacheStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	s.c.Set(key, cp, exp)
	return nil
}

func (s *CacheStorage) Delete(key string) error {
	s.c.Delete(key)
	return nil
}

func (s *CacheStorage) Reset() error {
	s.c.Flush()
	return nil
}

func (s *CacheStorage) Close() error { return nil }

// RedisStorage adapts a go-redis client to fiber.Storage so limiter
// counters are shared between instances.
type RedisStorage struct {
	client  *redis.Client
	timeout time.Duration
}

var _ fiber.Storage = (*RedisStorage)(nil)

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client, timeout: 2 * time.Second}
}

func (s *RedisStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Set(ctx, key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()
	iter := s.client.Scan(ctx, 0, "ratelimit:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
