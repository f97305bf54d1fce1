package di

import (
	"time"

	"invest_backend/internal/platform/externalapi/twelvedata"
	platformhttp "invest_backend/internal/platform/http"
	"invest_backend/internal/shared/ratelimiter"
)

// NewMarket は Twelve Data クライアントと、設定に合わせた1分あたりのレートリミッターを生成します。
func NewMarket(cfg twelvedata.Config) (*twelvedata.TwelveDataMarket, *ratelimiter.RateLimiter) {
	client := platformhttp.NewHTTPClient(cfg.Timeout)
	return twelvedata.NewTwelveDataMarket(cfg, client), ratelimiter.NewRateLimiter(cfg.RatePerMinute, time.Minute)
}
