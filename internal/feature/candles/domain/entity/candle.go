// Package entity はcandlesフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Candle は銘柄の時間足ごとのOHLCV（始値・高値・安値・終値・出来高）です。
type Candle struct {
	Symbol   string    // 銘柄コード（例: "AAPL", "7203.T", "005930.KS"）
	Interval string    // 時間足（"1day", "1week", "1month"）
	Time     time.Time // 足の開始時刻
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}
