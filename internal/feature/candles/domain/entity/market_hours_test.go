package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExchangeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "KRX", ExchangeFor("005930.KS").Name)
	assert.Equal(t, "KRX", ExchangeFor("035720.kq").Name)
	assert.Equal(t, "TSE", ExchangeFor("7203.T").Name)
	assert.Equal(t, "NYSE", ExchangeFor("AAPL").Name)
}

func TestExchange_IsOpen(t *testing.T) {
	t.Parallel()

	seoul := ExchangeFor("005930.KS").Location
	newYork := ExchangeFor("AAPL").Location

	tests := []struct {
		name     string
		ticker   string
		now      time.Time
		expected bool
	}{
		// 2025-01-15 は水曜日
		{"success: KRX during session", "005930.KS", time.Date(2025, 1, 15, 10, 0, 0, 0, seoul), true},
		{"success: KRX before open", "005930.KS", time.Date(2025, 1, 15, 8, 59, 0, 0, seoul), false},
		{"edge case: KRX exactly at close", "005930.KS", time.Date(2025, 1, 15, 15, 30, 0, 0, seoul), false},
		{"edge case: KRX on saturday", "005930.KS", time.Date(2025, 1, 18, 10, 0, 0, 0, seoul), false},
		{"success: NYSE at open", "AAPL", time.Date(2025, 1, 15, 9, 30, 0, 0, newYork), true},
		{"success: NYSE before open", "AAPL", time.Date(2025, 1, 15, 9, 29, 0, 0, newYork), false},
		{"success: NYSE evaluated from UTC", "AAPL", time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ex := ExchangeFor(tt.ticker)
			assert.Equal(t, tt.expected, ex.IsOpen(tt.now))
			if tt.expected {
				assert.Equal(t, MarketOpen, ex.Status(tt.now))
			} else {
				assert.Equal(t, MarketClosed, ex.Status(tt.now))
			}
		})
	}
}
