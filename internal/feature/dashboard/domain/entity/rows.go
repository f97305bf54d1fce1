package entity

import "github.com/shopspring/decimal"

// SymbolPosition は全ポートフォリオを合算した1銘柄の保有です。
// Cost は数量×平均取得単価の合計で、価格が取れない場合の評価に使います。
type SymbolPosition struct {
	Symbol   string
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// RecentOrder は「最近の取引」に表示する注文と顧客名の結合行です。
type RecentOrder struct {
	OrderNo       string
	ClientName    string
	Symbol        string
	Side          string
	Quantity      decimal.Decimal
	LimitPrice    *decimal.Decimal
	ExecutedPrice *decimal.Decimal
	Status        string
	Currency      string
}
