// Package dto は Twelve Data API のレスポンス形式を定義します。
package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"invest_backend/internal/feature/candles/domain/entity"
)

// 日足以上は日付のみ、分足は時刻付きで返ってきます。
var datetimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// TimeSeries は /time_series のレスポンスです。エラー時は status が "error" になり code と message が入ります。
type TimeSeries struct {
	Status  string        `json:"status"`
	Code    int           `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
	Meta    Meta          `json:"meta"`
	Values  []SeriesValue `json:"values"`
}

type Meta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
	Timezone string `json:"exchange_timezone"`
}

// SeriesValue は1本分の OHLCV です。数値はすべて文字列で届きます。
type SeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// Failed は API がエラーを返したかを判定します。
func (ts TimeSeries) Failed() bool {
	return ts.Status == "error"
}

// Err は API エラーを error に変換します。
func (ts TimeSeries) Err() error {
	if ts.Code != 0 {
		return fmt.Errorf("twelvedata %d: %s", ts.Code, ts.Message)
	}
	return fmt.Errorf("twelvedata: %s", ts.Message)
}

// Candles は values を新しい順のまま entity.Candle に変換します。
func (ts TimeSeries) Candles(symbol, interval string) ([]entity.Candle, error) {
	out := make([]entity.Candle, 0, len(ts.Values))
	for _, v := range ts.Values {
		c, err := v.Candle()
		if err != nil {
			return nil, err
		}
		c.Symbol = symbol
		c.Interval = interval
		out = append(out, c)
	}
	return out, nil
}

// Candle は1本分を変換します。出来高を持たない銘柄（為替など）は volume が空になるため 0 とします。
func (v SeriesValue) Candle() (entity.Candle, error) {
	var c entity.Candle
	t, err := parseDatetime(v.Datetime)
	if err != nil {
		return c, err
	}
	c.Time = t

	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"open", v.Open, &c.Open},
		{"high", v.High, &c.High},
		{"low", v.Low, &c.Low},
		{"close", v.Close, &c.Close},
	}
	for _, f := range fields {
		n, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return c, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = n
	}

	if vol := strings.TrimSpace(v.Volume); vol != "" {
		n, err := strconv.ParseInt(vol, 10, 64)
		if err != nil {
			return c, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
		c.Volume = n
	}
	return c, nil
}

func parseDatetime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse time %q: %w", s, lastErr)
}
