package jwtmw

import (
	"errors"
	"time"

	"invest_backend/internal/platform/config"
)

// Config はトークン発行設定です。
type Config struct {
	Secret     string        `env:"JWT_SECRET"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"invest-backoffice"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// ErrMissingSecret は JWT_SECRET が未設定の場合に返されます。
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// LoadConfigFromEnv は環境変数からトークン設定を読み込みます。
// シークレットが空の場合も設定自体は返し、ErrMissingSecret を併せて返します。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Secret == "" {
		return cfg, ErrMissingSecret
	}
	return cfg, nil
}
