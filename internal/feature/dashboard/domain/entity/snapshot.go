package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot は日次のダッシュボード集計値です。前月比の計算に使います。
type Snapshot struct {
	ID              uint            `gorm:"primaryKey"`
	Date            time.Time       `gorm:"type:date;uniqueIndex;not null"`
	TotalAssets     decimal.Decimal `gorm:"type:numeric(24,4);not null;default:0"`
	TotalPortfolios int64           `gorm:"not null;default:0"`
	ActiveOrders    int64           `gorm:"not null;default:0"`
	Clients         int64           `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Snapshot) TableName() string { return "dashboard_snapshots" }

// Stats はある時点の集計値です。
type Stats struct {
	TotalAssets     decimal.Decimal
	TotalPortfolios int64
	ActiveOrders    int64
	Clients         int64
}
