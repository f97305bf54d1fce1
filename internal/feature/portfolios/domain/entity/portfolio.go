// Package entity はportfoliosフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency はポートフォリオの既定通貨です。
const DefaultCurrency = "KRW"

// Portfolio は顧客の運用口座です。現金残高と保有銘柄を持ちます。
type Portfolio struct {
	ID          uint            `gorm:"primaryKey"`
	ClientID    uint            `gorm:"index;not null"`
	Name        string          `gorm:"size:100;not null"`
	Currency    string          `gorm:"size:3;not null;default:KRW"`
	CashBalance decimal.Decimal `gorm:"type:numeric(24,4);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Portfolio) TableName() string { return "portfolios" }

// Holding はポートフォリオ内の1銘柄の保有です。(portfolio_id, symbol) で一意です。
type Holding struct {
	ID          uint            `gorm:"primaryKey"`
	PortfolioID uint            `gorm:"uniqueIndex:idx_holding_portfolio_symbol;not null"`
	Symbol      string          `gorm:"uniqueIndex:idx_holding_portfolio_symbol;size:20;not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	AvgPrice    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	UpdatedAt   time.Time
}

func (Holding) TableName() string { return "holdings" }

// AddBuy は買付を反映し、加重平均で平均取得単価を更新します。
func (h *Holding) AddBuy(qty, price decimal.Decimal) {
	total := h.Quantity.Add(qty)
	if total.IsZero() {
		return
	}
	cost := h.Quantity.Mul(h.AvgPrice).Add(qty.Mul(price))
	h.AvgPrice = cost.Div(total).Round(4)
	h.Quantity = total
}
