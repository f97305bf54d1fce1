// Package dto は注文・取引 API のリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"invest_backend/internal/feature/orders/domain/entity"
)

// PlaceOrderRequest は POST /api/v1/orders のボディです。
type PlaceOrderRequest struct {
	PortfolioID uint             `json:"portfolio_id" binding:"required"`
	Symbol      string           `json:"symbol" binding:"required"`
	Side        string           `json:"side" binding:"required,oneof=BUY SELL"`
	Type        string           `json:"type" binding:"required,oneof=MARKET LIMIT"`
	Quantity    decimal.Decimal  `json:"quantity"`
	LimitPrice  *decimal.Decimal `json:"limit_price,omitempty"`
}

// ListOrdersQuery は GET /api/v1/orders のクエリです。
type ListOrdersQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING EXECUTED CANCELLED REJECTED"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type OrderResponse struct {
	ID            uint             `json:"id"`
	OrderNo       string           `json:"order_no"`
	PortfolioID   uint             `json:"portfolio_id"`
	Symbol        string           `json:"symbol"`
	Side          string           `json:"side"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	Status        string           `json:"status"`
	ExecutedPrice *decimal.Decimal `json:"executed_price,omitempty"`
	ExecutedAt    *time.Time       `json:"executed_at,omitempty"`
	RejectReason  string           `json:"reject_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		PortfolioID:   o.PortfolioID,
		Symbol:        o.Symbol,
		Side:          string(o.Side),
		Type:          string(o.Type),
		Quantity:      o.Quantity,
		LimitPrice:    o.LimitPrice,
		Status:        string(o.Status),
		ExecutedPrice: o.ExecutedPrice,
		ExecutedAt:    o.ExecutedAt,
		RejectReason:  o.RejectReason,
		CreatedAt:     o.CreatedAt,
	}
}

type TransactionResponse struct {
	ID          uint            `json:"id"`
	PortfolioID uint            `json:"portfolio_id"`
	ClientID    uint            `json:"client_id"`
	OrderID     *uint           `json:"order_id,omitempty"`
	Type        string          `json:"type"`
	Symbol      string          `json:"symbol,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		PortfolioID: t.PortfolioID,
		ClientID:    t.ClientID,
		OrderID:     t.OrderID,
		Type:        string(t.Type),
		Symbol:      t.Symbol,
		Quantity:    t.Quantity,
		Price:       t.Price,
		Amount:      t.Amount,
		CreatedAt:   t.CreatedAt,
	}
}
