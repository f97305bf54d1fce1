package dto

import "invest_backend/internal/feature/candles/domain/entity"

// StockPriceRequest は株価APIのリクエストです。ティッカーは1〜10文字です。
type StockPriceRequest struct {
	Ticker string `json:"ticker" binding:"required,min=1,max=10"`
}

// StockPriceResponse は株価APIの data 部です。
type StockPriceResponse struct {
	Ticker       string  `json:"ticker"`
	CurrentPrice float64 `json:"current_price"`
	Currency     string  `json:"currency"`
	MarketStatus string  `json:"market_status"`
}

// NewStockPriceResponse はエンティティからレスポンスを組み立てます。
func NewStockPriceResponse(p *entity.StockPrice) StockPriceResponse {
	return StockPriceResponse{
		Ticker:       p.Ticker,
		CurrentPrice: p.CurrentPrice,
		Currency:     p.Currency,
		MarketStatus: p.MarketStatus,
	}
}

