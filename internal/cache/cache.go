// Package cache stores finished translation results in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/translation-backend/internal/utils"
)

// ImageKey identifies an image result by languages, engine and content digest.
func ImageKey(src, tgt, engine, sha256Hex string) string {
	return fmt.Sprintf("image_%s_%s_%s_%s", src, tgt, engine, sha256Hex)
}

// TextKey identifies a text result; the text itself is hashed with MD5.
func TextKey(src, tgt, engine, text string) string {
	return fmt.Sprintf("text_%s_%s_%s_%s", src, tgt, engine, utils.MD5Hex(text))
}

// Connect opens a Redis client from either a redis:// URL or a host:port and
// pings it, retrying with exponential backoff until ctx is done or the retry
// budget runs out.
func Connect(ctx context.Context, addr string, logger *slog.Logger) (*redis.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opt := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opt, err = redis.ParseURL(addr); err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
	}
	client := redis.NewClient(opt)

	attempt := 0
	ping := func() error {
		attempt++
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis.ping_failed", "addr", opt.Addr, "attempt", attempt, "error", err)
			return err
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opt.Addr, err)
	}
	logger.Info("redis.connected", "addr", opt.Addr, "attempts", attempt)
	return client, nil
}

// Redis is a TTL'd byte cache.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

// Get returns (nil, false, nil) on a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Memory is an in-process cache for tests and single-binary tools. Entries
// never expire.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), value...)
	return nil
}
