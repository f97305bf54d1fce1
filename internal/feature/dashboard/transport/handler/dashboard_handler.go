// Package handler はダッシュボード API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/dashboard/domain/entity"
)

type DashboardUsecase interface {
	GetSummary(ctx context.Context) (*entity.Summary, error)
}

type DashboardHandler struct {
	uc DashboardUsecase
}

func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary は GET /api/v1/dashboard/summary を処理します。
// レスポンスはダッシュボード画面の統計カード・アクティビティ・取引テーブルに対応します。
func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.uc.GetSummary(c.Request.Context())
	if err != nil {
		slog.Error("failed to build dashboard summary", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to build dashboard summary"})
		return
	}
	c.JSON(http.StatusOK, s)
}
