// Package entity はdashboardフィーチャーのドメインモデルを定義します。
package entity

import "time"

// アクティビティ種別
const (
	ActivityClientCreated    = "CLIENT_CREATED"
	ActivityKYCApproved      = "KYC_APPROVED"
	ActivityKYCRejected      = "KYC_REJECTED"
	ActivityPortfolioUpdated = "PORTFOLIO_UPDATED"
	ActivityOrderExecuted    = "ORDER_EXECUTED"
)

// Activity はダッシュボードの「最近のアクティビティ」に表示されるイベントです。
type Activity struct {
	ID          uint      `gorm:"primaryKey"`
	Kind        string    `gorm:"size:32;not null;index"`
	Title       string    `gorm:"size:100;not null"`
	Description string    `gorm:"size:500"`
	OccurredAt  time.Time `gorm:"not null;index"`
}

func (Activity) TableName() string { return "activities" }
