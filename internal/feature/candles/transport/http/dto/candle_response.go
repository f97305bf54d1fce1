// Package dto はcandlesフィーチャーのHTTP DTOを定義します。
package dto

import "invest_backend/internal/feature/candles/domain/entity"

// CandleResponse は GET /candles/:code の1要素です。time は UTC の日付（YYYY-MM-DD）です。
type CandleResponse struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// NewCandleResponses は取得順（新しい順）のまま変換します。
func NewCandleResponses(cs []entity.Candle) []CandleResponse {
	out := make([]CandleResponse, 0, len(cs))
	for _, x := range cs {
		out = append(out, CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	return out
}
