// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/candles/domain/entity"
	"invest_backend/internal/feature/candles/transport/http/dto"
	"invest_backend/internal/feature/candles/usecase"

	"github.com/gin-gonic/gin"
)

// CandlesUsecase はチャート用ローソク足の取得を定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は CandlesHandler を生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄のローソク足を新しい順に返します。
//
// GET /candles/:code?interval=1day&outputsize=200
// - 銘柄コード不正・未対応の時間足は400
// - outputsize が数値でない場合は既定値
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	outputsize, _ := strconv.Atoi(c.Query("outputsize"))

	candles, err := h.uc.GetCandles(c.Request.Context(), code, interval, outputsize)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.NewCandleResponses(candles))
	case errors.Is(err, usecase.ErrInvalidTicker), errors.Is(err, usecase.ErrUnsupportedInterval):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("failed to get candles", "code", code, "interval", interval, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get candles"})
	}
}
