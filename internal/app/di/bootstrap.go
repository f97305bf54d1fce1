package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"invest_backend/internal/platform/cache"
	"invest_backend/internal/platform/db"
	"invest_backend/internal/platform/externalapi/twelvedata"
	jwtmw "invest_backend/internal/platform/jwt"
	platformredis "invest_backend/internal/platform/redis"

	"github.com/redis/go-redis/v9"
)

const redisConnectTimeout = 5 * time.Second

// Bootstrap は環境変数から設定を読み込み、DB と Redis に接続して App を組み立てます。
// Redis に接続できない場合はキャッシュなしで続行します。
// 返される cleanup は App・Redis・DB をこの順で閉じます。
func Bootstrap(ctx context.Context) (*App, func(), error) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load app config: %w", err)
	}
	jwtCfg, err := jwtmw.LoadConfigFromEnv()
	if errors.Is(err, jwtmw.ErrMissingSecret) {
		slog.Warn("JWT_SECRET is not set. Authenticated routes will reject all requests.")
	} else if err != nil {
		return nil, nil, fmt.Errorf("load jwt config: %w", err)
	}
	marketCfg, err := twelvedata.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load twelvedata config: %w", err)
	}
	dbCfg, err := db.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load db config: %w", err)
	}
	redisCfg, err := platformredis.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load redis config: %w", err)
	}
	loc, err := cfg.Batch.Location()
	if err != nil {
		return nil, nil, err
	}

	gdb, err := db.OpenDB(dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}
	}
	if dbCfg.RunMigrations {
		if err := Migrate(gdb); err != nil {
			closeDB()
			return nil, nil, err
		}
		slog.Info("database migrated")
	}

	var rdb *redis.Client
	rctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if c, err := platformredis.NewRedisClient(rctx, redisCfg); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = c
	}

	infra := Infra{DB: gdb, Redis: rdb, Cache: cache.NewManager(rdb), Location: loc}
	app, err := NewApp(ctx, cfg, jwtCfg, marketCfg, infra)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		closeDB()
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close app", "error", err)
		}
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}
		closeDB()
	}
	return app, cleanup, nil
}

// Config はアプリケーション設定を返します。
func (a *App) Config() Config {
	return a.cfg
}
