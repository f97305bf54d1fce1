// Package usecase は analysis フィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"invest_backend/internal/feature/analysis/domain/entity"
	candleentity "invest_backend/internal/feature/candles/domain/entity"
	candleusecase "invest_backend/internal/feature/candles/usecase"
)

const (
	// CandleWindow は分析に渡す日足の本数です。
	CandleWindow = 30
	// AnalysisPromptTemplate は銘柄分析のプロンプトです。%s はティッカー、%d は本数、最後の %s は日付と終値の一覧です。
	AnalysisPromptTemplate = "日本語で、次の%sの直近%d日分の終値から値動きの傾向とリスクを3点で要約して。\n%s"
)

// CandleReader は日足の参照です（新しい順）。
type CandleReader interface {
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]candleentity.Candle, error)
}

// Analyzer はプロンプトから分析文を生成します。
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

type AnalysisUsecase struct {
	candles  CandleReader
	analyzer Analyzer
}

func NewAnalysisUsecase(candles CandleReader, analyzer Analyzer) *AnalysisUsecase {
	return &AnalysisUsecase{candles: candles, analyzer: analyzer}
}

// AnalyzeStock は直近30日の日足をもとに分析サマリーを生成します。
func (u *AnalysisUsecase) AnalyzeStock(ctx context.Context, ticker string) (*entity.StockAnalysis, error) {
	t, err := candleusecase.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	cs, err := u.candles.Find(ctx, t, candleusecase.DefaultInterval, CandleWindow)
	if err != nil {
		return nil, fmt.Errorf("find candles %s: %w", t, err)
	}
	if len(cs) == 0 {
		return nil, candleusecase.ErrPriceUnavailable
	}

	summary, err := u.analyzer.Analyze(ctx, BuildPrompt(t, cs))
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrAnalyzerFailed, t, err)
	}

	return &entity.StockAnalysis{
		Ticker:      t,
		Summary:     summary,
		CandleCount: len(cs),
		From:        cs[len(cs)-1].Time,
		To:          cs[0].Time,
	}, nil
}

// BuildPrompt は日付の古い順に "YYYY-MM-DD: close" を並べたプロンプトを返します。
func BuildPrompt(ticker string, newestFirst []candleentity.Candle) string {
	var b strings.Builder
	for i := len(newestFirst) - 1; i >= 0; i-- {
		c := newestFirst[i]
		b.WriteString(c.Time.Format("2006-01-02"))
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(c.Close, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return fmt.Sprintf(AnalysisPromptTemplate, ticker, len(newestFirst), b.String())
}
