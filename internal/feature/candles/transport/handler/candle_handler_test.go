package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invest_backend/internal/feature/candles/domain/entity"
	"invest_backend/internal/feature/candles/transport/handler"
	"invest_backend/internal/feature/candles/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockCandlesUsecase struct {
	GetCandlesFunc func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

func (m *mockCandlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	return m.GetCandlesFunc(ctx, symbol, interval, outputsize)
}

func TestCandlesHandler_GetCandlesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	day := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		mockGetCandles func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: all parameters specified",
			url:  "/candles/005930.KS?interval=1week&outputsize=2",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, "005930.KS", symbol)
				assert.Equal(t, "1week", interval)
				assert.Equal(t, 2, outputsize)
				return []entity.Candle{
					{Time: day, Open: 78000, High: 79500, Low: 77800, Close: 79100, Volume: 15000000},
					{Time: day.AddDate(0, 0, -7), Open: 76500, High: 78200, Low: 76000, Close: 78000, Volume: 14200000},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"time":"2024-06-14","open":78000,"high":79500,"low":77800,"close":79100,"volume":15000000},
				{"time":"2024-06-07","open":76500,"high":78200,"low":76000,"close":78000,"volume":14200000}]`,
		},
		{
			name: "success: interval defaults to 1day, outputsize left to usecase",
			url:  "/candles/AAPL",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, "AAPL", symbol)
				assert.Equal(t, usecase.DefaultInterval, interval)
				assert.Equal(t, 0, outputsize)
				return []entity.Candle{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "edge case: non numeric outputsize is passed as zero",
			url:  "/candles/AAPL?outputsize=many",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				assert.Equal(t, 0, outputsize)
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: unsupported interval",
			url:  "/candles/AAPL?interval=5min",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, fmt.Errorf("%w: %q", usecase.ErrUnsupportedInterval, interval)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"unsupported interval: \"5min\""}`,
		},
		{
			name: "error: invalid ticker",
			url:  "/candles/%20",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, usecase.ErrInvalidTicker
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   fmt.Sprintf(`{"error":%q}`, usecase.ErrInvalidTicker.Error()),
		},
		{
			name: "error: repository failure is hidden",
			url:  "/candles/AAPL",
			mockGetCandles: func(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
				return nil, errors.New("connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"failed to get candles"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewCandlesHandler(&mockCandlesUsecase{GetCandlesFunc: tt.mockGetCandles})
			router := gin.New()
			router.GET("/candles/:code", h.GetCandlesHandler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
