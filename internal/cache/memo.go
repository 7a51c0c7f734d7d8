// internal/cache/memo.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storecoach-kr/storecoach-backend/internal/config"
)

// Memoizer caches pure engine results keyed by (store, fn, args) and the
// data-version tokens of the tables the fn depends on. A write bumps the
// tokens of the tables it touched, which makes every dependent entry
// unreachable; stale keys simply expire by TTL.
type Memoizer interface {
	// Get unmarshals a cached value into out and reports whether it was found.
	Get(ctx context.Context, storeID int64, fn, args string, deps []string, out any) (bool, error)
	Set(ctx context.Context, storeID int64, fn, args string, deps []string, v any) error
	// BumpVersions advances the version token of each table for the store.
	BumpVersions(ctx context.Context, storeID int64, tables ...string) error
}

type redisMemoizer struct {
	client *redis.Client
	ttl    time.Duration
}

type noopMemoizer struct{}

func NewMemoizer(cfg config.CacheConfig) (Memoizer, error) {
	if !cfg.Enabled {
		return &noopMemoizer{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisMemoizer{client: client, ttl: ttl}, nil
}

func NewNoopMemoizer() Memoizer {
	return &noopMemoizer{}
}

func (m *redisMemoizer) Get(ctx context.Context, storeID int64, fn, args string, deps []string, out any) (bool, error) {
	key, err := m.buildKey(ctx, storeID, fn, args, deps)
	if err != nil {
		return false, err
	}

	payload, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode memoized value: %w", err)
	}

	return true, nil
}

func (m *redisMemoizer) Set(ctx context.Context, storeID int64, fn, args string, deps []string, v any) error {
	key, err := m.buildKey(ctx, storeID, fn, args, deps)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode memoized value: %w", err)
	}

	if err := m.client.Set(ctx, key, payload, m.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (m *redisMemoizer) BumpVersions(ctx context.Context, storeID int64, tables ...string) error {
	pipe := m.client.Pipeline()
	for _, table := range tables {
		pipe.Incr(ctx, versionKey(storeID, table))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis version bump failed: %w", err)
	}
	return nil
}

// buildKey folds the current version token of every dependency table into the
// cache key so a bump on any of them invalidates the entry.
func (m *redisMemoizer) buildKey(ctx context.Context, storeID int64, fn, args string, deps []string) (string, error) {
	sorted := append([]string(nil), deps...)
	sort.Strings(sorted)

	keys := make([]string, len(sorted))
	for i, table := range sorted {
		keys[i] = versionKey(storeID, table)
	}

	versions := make([]string, len(sorted))
	if len(keys) > 0 {
		vals, err := m.client.MGet(ctx, keys...).Result()
		if err != nil {
			return "", fmt.Errorf("redis version read failed: %w", err)
		}
		for i, val := range vals {
			if s, ok := val.(string); ok {
				versions[i] = sorted[i] + "=" + s
			} else {
				versions[i] = sorted[i] + "=0"
			}
		}
	}

	return fmt.Sprintf("memo:%d:%s:%s:%s", storeID, fn, ArgsKey(args), shortHash(strings.Join(versions, "|"))), nil
}

func (n *noopMemoizer) Get(ctx context.Context, storeID int64, fn, args string, deps []string, out any) (bool, error) {
	return false, nil
}

func (n *noopMemoizer) Set(ctx context.Context, storeID int64, fn, args string, deps []string, v any) error {
	return nil
}

func (n *noopMemoizer) BumpVersions(ctx context.Context, storeID int64, tables ...string) error {
	return nil
}

func versionKey(storeID int64, table string) string {
	return "ver:" + strconv.FormatInt(storeID, 10) + ":" + table
}

// ArgsKey builds a stable short digest for an argument string.
func ArgsKey(args string) string {
	if args == "" {
		return "default"
	}
	return shortHash(args)
}

func shortHash(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
