// Package usecase はローソク足・株価・取り込みのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"slices"

	"invest_backend/internal/feature/candles/domain/entity"
)

const (
	DefaultInterval   = "1day"
	DefaultOutputSize = 200
	MaxOutputSize     = 5000
)

// Intervals は取り込み・参照できる時間足です。
var Intervals = []string{"1day", "1week", "1month"}

// CandleRepository はローソク足の永続化を抽象化します。
type CandleRepository interface {
	// Find は新しい順に最大 outputsize 件を返します。
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	// UpsertBatch は (symbol, interval, time) をキーに一括で登録・更新します。
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// CandlesUsecase はチャート表示用のローソク足を提供します。
type CandlesUsecase struct {
	candle CandleRepository
}

func NewCandlesUsecase(candle CandleRepository) *CandlesUsecase {
	return &CandlesUsecase{candle: candle}
}

// GetCandles は銘柄コードを正規化し、時間足と件数を既定値で補ってから検索します。
// outputsize が 0 以下または MaxOutputSize 超の場合は DefaultOutputSize を使います。
func (u *CandlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	code, err := NormalizeTicker(symbol)
	if err != nil {
		return nil, err
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if !slices.Contains(Intervals, interval) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}
	return u.candle.Find(ctx, code, interval, outputsize)
}
