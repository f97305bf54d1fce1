package entity

import "github.com/shopspring/decimal"

// HoldingValuation は保有1銘柄の評価です。
type HoldingValuation struct {
	Symbol        string
	Quantity      decimal.Decimal
	AvgPrice      decimal.Decimal
	LastPrice     decimal.Decimal
	PriceIsLatest bool // false の場合 LastPrice は平均取得単価で代用
	MarketValue   decimal.Decimal
	UnrealizedPL  decimal.Decimal
}

// Valuation はポートフォリオ全体の評価です。
type Valuation struct {
	Portfolio     Portfolio
	Holdings      []HoldingValuation
	HoldingsValue decimal.Decimal
	Cash          decimal.Decimal
	TotalValue    decimal.Decimal
}
