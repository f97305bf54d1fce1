package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/candles/domain/entity"
	"invest_backend/internal/feature/candles/transport/http/dto"
	"invest_backend/internal/feature/candles/usecase"

	"github.com/gin-gonic/gin"
)

// PriceUsecase は現在値取得のユースケースです。
type PriceUsecase interface {
	GetStockPrice(ctx context.Context, ticker string) (*entity.StockPrice, error)
}

// StockHandler は株価APIを処理します。レスポンスは success/message 形式です。
type StockHandler struct {
	uc PriceUsecase
}

// NewStockHandler は StockHandler を生成します。
func NewStockHandler(uc PriceUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetPrice はティッカーの現在値を返します。
//
// POST /api/v1/stocks/price {"ticker":"AAPL"}
func (h *StockHandler) GetPrice(c *gin.Context) {
	var req dto.StockPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	p, err := h.uc.GetStockPrice(c.Request.Context(), req.Ticker)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidTicker):
			respondValidationError(c, err)
		case errors.Is(err, usecase.ErrPriceUnavailable):
			c.JSON(http.StatusBadRequest, api.FailureResponse{
				Success: false,
				Message: fmt.Sprintf("Unable to fetch stock data for ticker: %s", req.Ticker),
				Details: map[string]any{"ticker": req.Ticker, "error": "Invalid ticker or data not available"},
			})
		default:
			slog.Error("failed to get stock price", "ticker", req.Ticker, "error", err)
			c.JSON(http.StatusInternalServerError, api.FailureResponse{
				Success: false,
				Message: "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, api.DataResponse[dto.StockPriceResponse]{
		Success: true,
		Message: fmt.Sprintf("Stock price retrieved successfully for %s", req.Ticker),
		Data:    dto.NewStockPriceResponse(p),
	})
}

// respondValidationError はリクエストボディの検証エラーを 422 で返します。
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, api.FailureResponse{
		Success: false,
		Message: "Validation error",
		Details: map[string]any{"error": err.Error()},
	})
}
