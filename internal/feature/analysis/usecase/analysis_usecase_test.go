package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"invest_backend/internal/feature/analysis/usecase"
	candleentity "invest_backend/internal/feature/candles/domain/entity"
	candleusecase "invest_backend/internal/feature/candles/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

type mockCandleReader struct {
	FindFunc func(ctx context.Context, symbol, interval string, outputsize int) ([]candleentity.Candle, error)
}

func (m *mockCandleReader) Find(ctx context.Context, symbol, interval string, outputsize int) ([]candleentity.Candle, error) {
	return m.FindFunc(ctx, symbol, interval, outputsize)
}

type mockAnalyzer struct {
	AnalyzeFunc  func(ctx context.Context, prompt string) (string, error)
	AnalyzeCalls int
}

func (m *mockAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	m.AnalyzeCalls++
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, prompt)
	}
	return "", errors.New("AnalyzeFunc is not implemented")
}

func day(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func TestAnalysisUsecase_AnalyzeStock(t *testing.T) {
	candles := []candleentity.Candle{
		{Symbol: "AAPL", Time: day(14), Close: 212.5},
		{Symbol: "AAPL", Time: day(13), Close: 210},
	}

	testCases := []struct {
		name        string
		ticker      string
		candles     []candleentity.Candle
		candleErr   error
		analyzeFunc func(ctx context.Context, prompt string) (string, error)
		expectedErr error
		wantCalls   int
	}{
		{
			name:    "success: summary generated",
			ticker:  " aapl ",
			candles: candles,
			analyzeFunc: func(ctx context.Context, prompt string) (string, error) {
				return "上昇傾向", nil
			},
			wantCalls: 1,
		},
		{
			name:        "error: invalid ticker",
			ticker:      "TOO-LONG-TICKER",
			expectedErr: candleusecase.ErrInvalidTicker,
		},
		{
			name:        "error: no candles",
			ticker:      "AAPL",
			expectedErr: candleusecase.ErrPriceUnavailable,
		},
		{
			name:        "error: candle lookup fails",
			ticker:      "AAPL",
			candleErr:   ErrAPI,
			expectedErr: ErrAPI,
		},
		{
			name:    "error: analyzer fails",
			ticker:  "AAPL",
			candles: candles,
			analyzeFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", ErrAPI
			},
			expectedErr: usecase.ErrAnalyzerFailed,
			wantCalls:   1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := &mockCandleReader{
				FindFunc: func(ctx context.Context, symbol, interval string, outputsize int) ([]candleentity.Candle, error) {
					assert.Equal(t, "AAPL", symbol)
					assert.Equal(t, candleusecase.DefaultInterval, interval)
					assert.Equal(t, usecase.CandleWindow, outputsize)
					return tc.candles, tc.candleErr
				},
			}
			analyzer := &mockAnalyzer{AnalyzeFunc: tc.analyzeFunc}
			uc := usecase.NewAnalysisUsecase(reader, analyzer)

			got, err := uc.AnalyzeStock(context.Background(), tc.ticker)

			assert.Equal(t, tc.wantCalls, analyzer.AnalyzeCalls)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "AAPL", got.Ticker)
			assert.Equal(t, "上昇傾向", got.Summary)
			assert.Equal(t, 2, got.CandleCount)
			assert.Equal(t, day(13), got.From)
			assert.Equal(t, day(14), got.To)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := usecase.BuildPrompt("AAPL", []candleentity.Candle{
		{Time: day(14), Close: 212.5},
		{Time: day(13), Close: 210},
	})

	assert.Equal(t, "日本語で、次のAAPLの直近2日分の終値から値動きの傾向とリスクを3点で要約して。\n2024-06-13: 210\n2024-06-14: 212.5\n", prompt)
}
