// Package entity は crawling フィーチャー（クローリング原本データ）のドメインモデルを定義します。
package entity

import (
	"time"
	"unicode/utf8"
)

// Status は原本データの処理状態です。
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
	StatusFailed     Status = "FAILED"
)

// Statuses は集計で使う全状態です。
var Statuses = []Status{StatusPending, StatusProcessing, StatusProcessed, StatusFailed}

// ContentType はレスポンス本文の種類です。
type ContentType string

const (
	ContentHTML ContentType = "HTML"
	ContentJSON ContentType = "JSON"
	ContentXML  ContentType = "XML"
	ContentText ContentType = "TEXT"
)

const (
	MaxTitleLength        = 500
	MaxErrorMessageLength = 2000
)

// RawCrawledData はクローリングで取得した原本です。SourceURL は一意です。
type RawCrawledData struct {
	ID           uint        `gorm:"primaryKey"`
	SourceURL    string      `gorm:"size:2048;uniqueIndex;not null"`
	Title        string      `gorm:"size:500"`
	Content      string      `gorm:"type:text;not null"`
	ContentType  ContentType `gorm:"size:50"`
	Status       Status      `gorm:"size:20;not null;index"`
	Symbols      string      `gorm:"size:500"`
	CrawledAt    time.Time   `gorm:"not null;index"`
	ProcessedAt  *time.Time
	ErrorMessage string `gorm:"size:2000"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RawCrawledData) TableName() string { return "raw_crawled_data" }

func (d *RawCrawledData) MarkAsProcessing() {
	d.Status = StatusProcessing
}

// MarkAsProcessed は抽出した銘柄コード（カンマ区切り）とともに処理済みにします。
func (d *RawCrawledData) MarkAsProcessed(symbols string, at time.Time) {
	d.Status = StatusProcessed
	d.Symbols = symbols
	d.ProcessedAt = &at
	d.ErrorMessage = ""
}

func (d *RawCrawledData) MarkAsFailed(msg string) {
	d.Status = StatusFailed
	d.ErrorMessage = Truncate(msg, MaxErrorMessageLength)
}

func (d *RawCrawledData) IsPending() bool { return d.Status == StatusPending }

func (d *RawCrawledData) IsProcessed() bool { return d.Status == StatusProcessed }

// Truncate は s を先頭 n 文字に切り詰めます。
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
