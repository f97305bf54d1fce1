// Package entity はclientsフィーチャーのドメインモデルを定義します。
package entity

import "time"

// KYCStatus は顧客の本人確認状態です。
type KYCStatus string

const (
	KYCNone     KYCStatus = "NONE"
	KYCPending  KYCStatus = "PENDING"
	KYCApproved KYCStatus = "APPROVED"
	KYCRejected KYCStatus = "REJECTED"
)

// Client は投資顧客です。
type Client struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Phone     string    `gorm:"size:32"`
	KYCStatus KYCStatus `gorm:"column:kyc_status;size:16;not null;default:NONE;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Client) TableName() string { return "clients" }

// CanTrade は注文を出せる状態（KYC承認済み）かを返します。
func (c *Client) CanTrade() bool {
	return c.KYCStatus == KYCApproved
}
