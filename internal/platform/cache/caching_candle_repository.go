package cache

import (
	"context"
	"strconv"
	"time"

	"invest_backend/internal/feature/candles/domain/entity"
	"invest_backend/internal/feature/candles/usecase"
)

// CachingCandleRepository は CandleRepository を dailyStock キャッシュで装飾します。
type CachingCandleRepository struct {
	inner usecase.CandleRepository
	cache *Manager
	// ttl はエントリ保存時の TTL を返します。既定は min(dailyStock TTL, 次の午前8時まで)。
	ttl func() time.Duration
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository は CandleRepository をキャッシュで装飾します。
func NewCachingCandleRepository(m *Manager, inner usecase.CandleRepository) *CachingCandleRepository {
	r := &CachingCandleRepository{inner: inner, cache: m}
	r.ttl = func() time.Duration {
		return dailyStockTTL(m.TTL(CacheDailyStock), time.Now())
	}
	return r
}

// dailyStockTTL は maxTTL と次の取り込み完了時刻（韓国時間 8:00）までの短い方を返します。
func dailyStockTTL(maxTTL time.Duration, now time.Time) time.Duration {
	if until := TimeUntilNext(now, RefreshHour, marketLocation()); until < maxTTL {
		return until
	}
	return maxTTL
}

// UpsertBatch はローソク足を登録・更新し、関連するキャッシュエントリを無効化します。
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if !c.cache.Enabled() || len(candles) == 0 {
		return nil
	}

	// 銘柄+時間足ごとのキーを無効化
	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := Key(CacheDailyStock, cd.Symbol, cd.Interval) + ":"
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.cache.EvictPrefix(ctx, prefix) // ベストエフォート
	}
	return nil
}

// Find はキャッシュを先に確認し、ミスした場合はデータベースから取得します。
func (c *CachingCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if !c.cache.Enabled() {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	}

	key := Key(CacheDailyStock, symbol, interval, strconv.Itoa(outputsize))

	var out []entity.Candle
	if c.cache.Get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, out, c.ttl())
	return out, nil
}
