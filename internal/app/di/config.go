// Package di はアプリケーションの依存関係を組み立てます。
package di

import (
	"fmt"
	"time"

	"invest_backend/internal/platform/config"
)

// Config は cmd/server と cmd/batch が共有するアプリケーション設定です。
type Config struct {
	AppName    string `env:"APP_NAME" envDefault:"invest-backoffice"`
	AppVersion string `env:"APP_VERSION" envDefault:"dev"`
	AppEnv     string `env:"APP_ENV" envDefault:"local"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	AIEnabled     bool   `env:"AI_ENABLED" envDefault:"false"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	VisionEnabled bool   `env:"VISION_ENABLED" envDefault:"false"`

	// DashboardCurrency は Total Assets の表示通貨です。
	DashboardCurrency string `env:"DASHBOARD_CURRENCY" envDefault:"KRW"`

	CrawlTargetURLs []string      `env:"CRAWL_TARGET_URLS" envSeparator:","`
	CrawlTimeout    time.Duration `env:"CRAWL_TIMEOUT" envDefault:"15s"`

	Batch BatchConfig
}

// BatchConfig はバッチのタイムゾーンとジョブごとの cron 式です。
type BatchConfig struct {
	Timezone            string `env:"BATCH_TIMEZONE" envDefault:"Asia/Seoul"`
	MarketIngestSchedule string `env:"BATCH_MARKET_INGEST_SCHEDULE" envDefault:"0 7 * * 1-5"`
	OrderExecSchedule    string `env:"BATCH_ORDER_EXECUTION_SCHEDULE" envDefault:"*/1 * * * *"`
	NewsCrawlSchedule    string `env:"BATCH_NEWS_CRAWLING_SCHEDULE" envDefault:"0 6 * * *"`
	RawDataSchedule      string `env:"BATCH_RAW_DATA_PROCESSING_SCHEDULE" envDefault:"*/10 * * * *"`
	SessionSchedule      string `env:"BATCH_SESSION_CLEANUP_SCHEDULE" envDefault:"0 * * * *"`
	SnapshotSchedule     string `env:"BATCH_DASHBOARD_SNAPSHOT_SCHEDULE" envDefault:"55 23 * * *"`
	RawDataBatchSize     int    `env:"BATCH_RAW_DATA_LIMIT" envDefault:"100"`
}

// LoadConfigFromEnv は環境変数からアプリケーション設定を読み込みます。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location は BATCH_TIMEZONE を解決します。
func (c BatchConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load BATCH_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
