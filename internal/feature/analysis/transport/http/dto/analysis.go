// Package dto は銘柄分析 API のリクエスト/レスポンス型を定義します。
package dto

import "invest_backend/internal/feature/analysis/domain/entity"

// StockAnalysisRequest は POST /api/v1/stocks/analysis のボディです。
type StockAnalysisRequest struct {
	Ticker string `json:"ticker" binding:"required,min=1,max=10"`
}

type StockAnalysisResponse struct {
	Ticker      string `json:"ticker"`
	Summary     string `json:"summary"`
	CandleCount int    `json:"candle_count"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func NewStockAnalysisResponse(a *entity.StockAnalysis) StockAnalysisResponse {
	return StockAnalysisResponse{
		Ticker:      a.Ticker,
		Summary:     a.Summary,
		CandleCount: a.CandleCount,
		From:        a.From.Format("2006-01-02"),
		To:          a.To.Format("2006-01-02"),
	}
}
