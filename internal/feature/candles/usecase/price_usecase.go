package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"invest_backend/internal/feature/candles/domain/entity"
	symboldomain "invest_backend/internal/feature/symbollist/domain"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"
	symbolusecase "invest_backend/internal/feature/symbollist/usecase"

	"github.com/shopspring/decimal"
)

// MaxTickerLength はティッカーの最大文字数です。
const MaxTickerLength = 10

// SymbolFinder は銘柄マスタの参照を抽象化します。
type SymbolFinder interface {
	FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error)
}

// PriceUsecase は直近の日足終値から現在値を提供します。
// ポートフォリオ評価・注文執行・ダッシュボードの価格ソースとしても使われます。
type PriceUsecase struct {
	candle  CandleRepository
	symbols SymbolFinder
	now     func() time.Time
}

// NewPriceUsecase は PriceUsecase を生成します。
func NewPriceUsecase(candle CandleRepository, symbols SymbolFinder) *PriceUsecase {
	return &PriceUsecase{candle: candle, symbols: symbols, now: time.Now}
}

// NormalizeTicker は前後の空白を除去して大文字化し、長さを検証します。
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" || utf8.RuneCountInString(t) > MaxTickerLength {
		return "", ErrInvalidTicker
	}
	return t, nil
}

// LatestPrice は直近の日足終値を返します。データが無い場合 ok は false です。
func (u *PriceUsecase) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	c, err := u.latest(ctx, symbol)
	if err != nil {
		return decimal.Zero, false, err
	}
	if c == nil {
		return decimal.Zero, false, nil
	}
	return decimal.NewFromFloat(c.Close), true, nil
}

func (u *PriceUsecase) latest(ctx context.Context, symbol string) (*entity.Candle, error) {
	cs, err := u.candle.Find(ctx, symbol, DefaultInterval, 1)
	if err != nil {
		return nil, fmt.Errorf("find latest candle %s: %w", symbol, err)
	}
	if len(cs) == 0 {
		return nil, nil
	}
	return &cs[0], nil
}

// GetStockPrice はティッカーの現在値・通貨・市場の開閉状態を返します。
func (u *PriceUsecase) GetStockPrice(ctx context.Context, ticker string) (*entity.StockPrice, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	c, err := u.latest(ctx, t)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrPriceUnavailable
	}

	currency, err := u.currencyOf(ctx, t)
	if err != nil {
		return nil, err
	}

	now := u.now()
	return &entity.StockPrice{
		Ticker:       t,
		CurrentPrice: math.Round(c.Close*100) / 100,
		Currency:     currency,
		MarketStatus: entity.ExchangeFor(t).Status(now),
		AsOf:         c.Time,
	}, nil
}

// currencyOf は銘柄マスタの通貨を返し、未登録ならサフィックスから推定します。
func (u *PriceUsecase) currencyOf(ctx context.Context, ticker string) (string, error) {
	if u.symbols != nil {
		s, err := u.symbols.FindByCode(ctx, ticker)
		switch {
		case err == nil && s.Currency != "":
			return s.Currency, nil
		case err != nil && !errors.Is(err, symboldomain.ErrSymbolNotFound):
			return "", err
		}
	}
	return symbolusecase.DefaultCurrencyFor(ticker), nil
}
