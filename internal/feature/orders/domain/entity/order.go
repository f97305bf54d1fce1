// Package entity はordersフィーチャー（注文・取引）のドメインモデルを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side は売買区分です。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType は注文種別です。
type OrderType string

const (
	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"
)

// OrderStatus は注文状態です。
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusExecuted  OrderStatus = "EXECUTED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusRejected  OrderStatus = "REJECTED"
)

// Order は売買注文です。約定はバッチ（ORDER_EXECUTION）で行います。
type Order struct {
	ID            uint             `gorm:"primaryKey"`
	OrderNo       string           `gorm:"size:36;uniqueIndex;not null"`
	PortfolioID   uint             `gorm:"index;not null"`
	Symbol        string           `gorm:"size:20;not null;index"`
	Side          Side             `gorm:"size:8;not null"`
	Type          OrderType        `gorm:"size:8;not null"`
	Quantity      decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	LimitPrice    *decimal.Decimal `gorm:"type:numeric(20,4)"`
	Status        OrderStatus      `gorm:"size:16;not null;index"`
	ExecutedPrice *decimal.Decimal `gorm:"type:numeric(20,4)"`
	ExecutedAt    *time.Time
	RejectReason  string `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Order) TableName() string { return "orders" }

func (o *Order) IsPending() bool { return o.Status == StatusPending }

// Fillable は価格 price で約定可能かを返します。
// 指値買いは price ≤ 指値、指値売りは price ≥ 指値のときのみ約定します。
func (o *Order) Fillable(price decimal.Decimal) bool {
	if o.Type != TypeLimit || o.LimitPrice == nil {
		return true
	}
	if o.Side == SideBuy {
		return price.LessThanOrEqual(*o.LimitPrice)
	}
	return price.GreaterThanOrEqual(*o.LimitPrice)
}

// Execute は約定済みにします。
func (o *Order) Execute(price decimal.Decimal, at time.Time) {
	o.Status = StatusExecuted
	o.ExecutedPrice = &price
	o.ExecutedAt = &at
}

// Reject は約定できなかった注文を却下します。
func (o *Order) Reject(reason string) {
	o.Status = StatusRejected
	o.RejectReason = reason
}

// Cancel は取消済みにします。呼び出し側で IsPending を確認してください。
func (o *Order) Cancel() {
	o.Status = StatusCancelled
}
