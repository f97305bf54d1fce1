// Package handler はサービス情報とヘルスチェックのエンドポイントを提供します。
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invest_backend/internal/api"
)

// readinessTimeout は readiness チェック全体のタイムアウトです。
const readinessTimeout = 3 * time.Second

// AppInfo はサービス名とバージョンです。
type AppInfo struct {
	Name        string
	Version     string
	Environment string
}

// Check は readiness チェックの 1 項目です（DB、Redis など）。
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// StatusHandler はサービス情報と /api/v1/health 系のエンドポイントを提供します。
type StatusHandler struct {
	info    AppInfo
	checks  []Check
	started time.Time
}

// NewStatusHandler は StatusHandler を生成します。
func NewStatusHandler(info AppInfo, checks ...Check) *StatusHandler {
	return &StatusHandler{info: info, checks: checks, started: time.Now()}
}

// Liveness は GET/HEAD /healthz を処理します。依存先は見ずにプロセスの生存だけを返します。
func (h *StatusHandler) Liveness(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Root は GET / を処理します。
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.ServiceInfoResponse{
		Status:  "running",
		Service: h.info.Name,
		Version: h.info.Version,
	})
}

// Health は GET /api/v1/health を処理します。
func (h *StatusHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, api.BaseResponse{
		Success: true,
		Message: fmt.Sprintf("%s v%s is healthy", h.info.Name, h.info.Version),
	})
}

// Ready は GET /api/v1/health/ready を処理します。
// 依存先のいずれかが失敗した場合は 503 を返します。
func (h *StatusHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true
	for _, chk := range h.checks {
		if err := chk.Fn(ctx); err != nil {
			ready = false
			results[chk.Name] = "error: " + err.Error()
			slog.Warn("readiness check failed", "check", chk.Name, "error", err)
			continue
		}
		results[chk.Name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, api.ReadinessResponse{
			Success: false,
			Message: fmt.Sprintf("%s is not ready", h.info.Name),
			Checks:  results,
		})
		return
	}
	c.JSON(http.StatusOK, api.ReadinessResponse{
		Success: true,
		Message: fmt.Sprintf("%s is ready to serve requests", h.info.Name),
		Checks:  results,
	})
}
