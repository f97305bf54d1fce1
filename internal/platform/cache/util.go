package cache

import (
	"time"
)

// RefreshHour は日次株価の取り込みが完了している時刻（市場タイムゾーン）です。
const RefreshHour = 8

// marketLocation は日次データの基準タイムゾーン（韓国時間）を返します。
func marketLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// TimeUntilNext は now から次の hour 時（loc 基準）までの期間を返します。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	// 今日の該当時刻が既に過ぎている場合は翌日を使用
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
