// Package dto はクローリング API のリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	"invest_backend/internal/feature/crawling/domain/entity"
)

// ListRawDataQuery は GET /api/v1/crawling/data のクエリです。
type ListRawDataQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING PROCESSING PROCESSED FAILED"`
	URL    string `form:"url" binding:"omitempty,url"`
	From   string `form:"from"`
	To     string `form:"to"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// RawDataResponse は本文を含まない原本データの要約です。
type RawDataResponse struct {
	ID            uint       `json:"id"`
	SourceURL     string     `json:"source_url"`
	Title         string     `json:"title,omitempty"`
	ContentType   string     `json:"content_type"`
	ContentLength int        `json:"content_length"`
	Status        string     `json:"status"`
	Symbols       []string   `json:"symbols"`
	CrawledAt     time.Time  `json:"crawled_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

func NewRawDataResponse(d *entity.RawCrawledData, symbols []string) RawDataResponse {
	return RawDataResponse{
		ID:            d.ID,
		SourceURL:     d.SourceURL,
		Title:         d.Title,
		ContentType:   string(d.ContentType),
		ContentLength: len(d.Content),
		Status:        string(d.Status),
		Symbols:       symbols,
		CrawledAt:     d.CrawledAt,
		ProcessedAt:   d.ProcessedAt,
		ErrorMessage:  d.ErrorMessage,
	}
}

type CrawlStatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Processed  int64 `json:"processed"`
	Failed     int64 `json:"failed"`
	Total      int64 `json:"total"`
	TodayCount int   `json:"today_count"`
}
