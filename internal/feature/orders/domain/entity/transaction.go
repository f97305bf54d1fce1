package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType は取引種別です。
type TransactionType string

const (
	TxBuy        TransactionType = "BUY"
	TxSell       TransactionType = "SELL"
	TxDeposit    TransactionType = "DEPOSIT"
	TxWithdrawal TransactionType = "WITHDRAWAL"
)

// Transaction は資金・保有の移動記録です。約定と入出金で作成されます。
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	PortfolioID uint            `gorm:"index;not null"`
	ClientID    uint            `gorm:"index;not null"`
	OrderID     *uint           `gorm:"index"`
	Type        TransactionType `gorm:"size:16;not null"`
	Symbol      string          `gorm:"size:20"`
	Quantity    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	Price       decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:numeric(24,4);not null"`
	CreatedAt   time.Time       `gorm:"index"`
}

func (Transaction) TableName() string { return "transactions" }
