// Package twelvedata はTwelve Data株式市場APIのクライアントを提供します。
package twelvedata

import (
	"time"

	"invest_backend/internal/platform/config"
)

// Config はTwelve Data APIクライアントの設定を保持します。
type Config struct {
	TwelveDataAPIKey string        `env:"TWELVE_DATA_API_KEY"`
	BaseURL          string        `env:"TWELVE_DATA_BASE_URL" envDefault:"https://api.twelvedata.com"`
	Timeout          time.Duration `env:"TWELVE_DATA_TIMEOUT" envDefault:"10s"`
	// RatePerMinute は1分あたりのリクエスト上限です（無料プランは8）。
	RatePerMinute int `env:"TWELVE_DATA_RATE_PER_MINUTE" envDefault:"8"`
}

// LoadConfigFromEnv は環境変数からTwelve Dataの設定を読み込みます。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
