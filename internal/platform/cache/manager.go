// Package cache は Redis を使った名前付きキャッシュとリポジトリのキャッシュデコレーターを提供します。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// キャッシュ名。名前ごとに TTL が決まります。
const (
	CacheDefault       = "default"
	CacheMarketSummary = "marketSummary"
	CacheDailyStock    = "dailyStock"
)

// DefaultTTL はテーブルに無いキャッシュ名に適用される TTL です。
const DefaultTTL = 15 * time.Minute

// defaultTTLs はキャッシュ名ごとの TTL テーブルです。
func defaultTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		CacheDefault:       DefaultTTL,
		CacheMarketSummary: 15 * time.Minute,
		CacheDailyStock:    24 * time.Hour,
	}
}

// Manager は名前付きキャッシュを管理します。値は JSON で保存されます。
// rdb が nil の場合、すべての操作は何もしません（読み取りは常にミス）。
type Manager struct {
	rdb  *redis.Client
	ttls map[string]time.Duration
}

// NewManager は既定の TTL テーブルで Manager を生成します。
func NewManager(rdb *redis.Client) *Manager {
	return &Manager{rdb: rdb, ttls: defaultTTLs()}
}

// Enabled は Redis が構成されているかを返します。
func (m *Manager) Enabled() bool {
	return m != nil && m.rdb != nil
}

// SetTTL はキャッシュ名の TTL を上書きします。
func (m *Manager) SetTTL(name string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.ttls[name] = ttl
}

// TTL はキャッシュ名に対応する TTL を返します。
func (m *Manager) TTL(name string) time.Duration {
	if ttl, ok := m.ttls[name]; ok {
		return ttl
	}
	return DefaultTTL
}

// Key はキャッシュ名とキー要素から Redis キーを組み立てます。
func Key(name string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, name)
	for _, p := range parts {
		escaped = append(escaped, safe(p))
	}
	return strings.Join(escaped, ":")
}

// Get はキャッシュから値を読み出して dst にデコードします。ヒットした場合 true を返します。
// 破損したエントリは削除され、ミスとして扱われます。
func (m *Manager) Get(ctx context.Context, key string, dst any) bool {
	if !m.Enabled() {
		return false
	}
	b, err := m.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// 破損したキャッシュエントリを削除
		_ = m.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set は値を JSON にして ttl 付きで保存します（ベストエフォート）。
func (m *Manager) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	if !m.Enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := m.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// Evict は単一のキーを削除します。
func (m *Manager) Evict(ctx context.Context, key string) error {
	if !m.Enabled() {
		return nil
	}
	return m.rdb.Del(ctx, key).Err()
}

// EvictAll はキャッシュ名に属するすべてのキーを削除します。
func (m *Manager) EvictAll(ctx context.Context, name string) error {
	return m.EvictPrefix(ctx, name+":")
}

// EvictPrefix は prefix で始まるキーを SCAN で探して削除します。
func (m *Manager) EvictPrefix(ctx context.Context, prefix string) error {
	if !m.Enabled() {
		return nil
	}
	var cursor uint64
	for {
		keys, cur, err := m.rdb.Scan(ctx, cursor, prefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// ReadThrough はキャッシュを参照し、ミスした場合は load の結果を保存して返します。
// Redis の障害で読み取りが失敗することはありません。
func ReadThrough[T any](ctx context.Context, m *Manager, name, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if m.Get(ctx, key, &out) {
		return out, nil
	}
	out, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	m.Set(ctx, key, out, m.TTL(name))
	return out, nil
}

// safe はRedisキーで問題となる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
