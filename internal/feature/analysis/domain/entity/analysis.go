// Package entity は analysis フィーチャーのドメインモデルを定義します。
package entity

import "time"

// StockAnalysis は AI が生成した銘柄分析です。
type StockAnalysis struct {
	Ticker      string
	Summary     string
	CandleCount int
	From        time.Time
	To          time.Time
}
