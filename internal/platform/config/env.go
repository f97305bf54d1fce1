// Package config は環境変数からの設定読み込みを共通化します。
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv は構造体タグ（env / envDefault）に従って環境変数を target に読み込みます。
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
