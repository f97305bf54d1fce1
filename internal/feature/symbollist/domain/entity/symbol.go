// Package entity はsymbollistフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Symbol は取引対象の銘柄を表します。
// Currency は価格の通貨コード（KRW, JPY, USD など）です。
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	Currency  string    `gorm:"size:3;not null;default:USD"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
