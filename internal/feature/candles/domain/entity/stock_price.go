package entity

import "time"

// 市場の開閉状態
const (
	MarketOpen   = "open"
	MarketClosed = "closed"
)

// StockPrice は銘柄の現在値です。CurrentPrice は直近の日足終値です。
type StockPrice struct {
	Ticker       string
	CurrentPrice float64
	Currency     string
	MarketStatus string
	AsOf         time.Time
}
