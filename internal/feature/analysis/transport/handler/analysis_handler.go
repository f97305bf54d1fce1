// Package handler は銘柄分析 API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/analysis/domain/entity"
	"invest_backend/internal/feature/analysis/transport/http/dto"
	"invest_backend/internal/feature/analysis/usecase"
	candleusecase "invest_backend/internal/feature/candles/usecase"

	"github.com/gin-gonic/gin"
)

type AnalysisUsecase interface {
	AnalyzeStock(ctx context.Context, ticker string) (*entity.StockAnalysis, error)
}

// AnalysisHandler は株価API と同じ success/message 形式で応答します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// Analyze は銘柄の分析サマリーを生成します。
//
// POST /api/v1/stocks/analysis {"ticker":"AAPL"}
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.StockAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.FailureResponse{
			Success: false,
			Message: "Validation error",
			Details: map[string]any{"error": err.Error()},
		})
		return
	}

	a, err := h.uc.AnalyzeStock(c.Request.Context(), req.Ticker)
	if err != nil {
		switch {
		case errors.Is(err, candleusecase.ErrInvalidTicker):
			c.JSON(http.StatusUnprocessableEntity, api.FailureResponse{
				Success: false,
				Message: "Validation error",
				Details: map[string]any{"error": err.Error()},
			})
		case errors.Is(err, candleusecase.ErrPriceUnavailable):
			c.JSON(http.StatusBadRequest, api.FailureResponse{
				Success: false,
				Message: fmt.Sprintf("Unable to fetch stock data for ticker: %s", req.Ticker),
				Details: map[string]any{"ticker": req.Ticker},
			})
		case errors.Is(err, usecase.ErrAnalyzerFailed):
			slog.Error("stock analysis failed", "ticker", req.Ticker, "error", err)
			c.JSON(http.StatusBadGateway, api.FailureResponse{
				Success: false,
				Message: "Analysis service unavailable",
			})
		default:
			slog.Error("failed to analyze stock", "ticker", req.Ticker, "error", err)
			c.JSON(http.StatusInternalServerError, api.FailureResponse{
				Success: false,
				Message: "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, api.DataResponse[dto.StockAnalysisResponse]{
		Success: true,
		Message: fmt.Sprintf("Stock analysis generated for %s", a.Ticker),
		Data:    dto.NewStockAnalysisResponse(a),
	})
}
