// Package dto はポートフォリオ API のリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"invest_backend/internal/feature/portfolios/domain/entity"
)

// CreatePortfolioRequest は POST /api/v1/portfolios のボディです。
type CreatePortfolioRequest struct {
	ClientID uint   `json:"client_id" binding:"required"`
	Name     string `json:"name" binding:"required,max=100"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

// CashRequest は入出金のボディです。金額は文字列または数値で受け付け、正であることはユースケースで検証します。
type CashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PortfolioResponse struct {
	ID          uint            `json:"id"`
	ClientID    uint            `json:"client_id"`
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewPortfolioResponse(p *entity.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Currency:    p.Currency,
		CashBalance: p.CashBalance,
		CreatedAt:   p.CreatedAt,
	}
}

type HoldingResponse struct {
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	LastPrice     decimal.Decimal `json:"last_price"`
	PriceIsLatest bool            `json:"price_is_latest"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPL  decimal.Decimal `json:"unrealized_pl"`
}

// ValuationResponse は GET /api/v1/portfolios/:id のレスポンスです。
type ValuationResponse struct {
	PortfolioResponse
	Holdings      []HoldingResponse `json:"holdings"`
	HoldingsValue decimal.Decimal   `json:"holdings_value"`
	TotalValue    decimal.Decimal   `json:"total_value"`
}

func NewValuationResponse(v *entity.Valuation) ValuationResponse {
	out := ValuationResponse{
		PortfolioResponse: NewPortfolioResponse(&v.Portfolio),
		Holdings:          make([]HoldingResponse, 0, len(v.Holdings)),
		HoldingsValue:     v.HoldingsValue,
		TotalValue:        v.TotalValue,
	}
	for _, h := range v.Holdings {
		out.Holdings = append(out.Holdings, HoldingResponse(h))
	}
	return out
}
