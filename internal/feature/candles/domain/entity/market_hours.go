package entity

import (
	"strings"
	"time"
)

// Exchange は取引所の立会時間です。Open/Close は現地時刻の 0:00 からの経過分です。
type Exchange struct {
	Name     string
	Location *time.Location
	Open     int
	Close    int
}

var (
	krx  = Exchange{Name: "KRX", Location: loadLocation("Asia/Seoul", 9*60*60), Open: 9 * 60, Close: 15*60 + 30}
	tse  = Exchange{Name: "TSE", Location: loadLocation("Asia/Tokyo", 9*60*60), Open: 9 * 60, Close: 15*60 + 30}
	nyse = Exchange{Name: "NYSE", Location: loadLocation("America/New_York", -5*60*60), Open: 9*60 + 30, Close: 16 * 60}
)

// loadLocation は tzdata が無い環境では固定オフセットにフォールバックします。
func loadLocation(name string, offset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offset)
	}
	return loc
}

// ExchangeFor はティッカーのサフィックスから取引所を判定します。
// .KS/.KQ は KRX、.T は TSE、それ以外は NYSE です。
func ExchangeFor(ticker string) Exchange {
	t := strings.ToUpper(ticker)
	switch {
	case strings.HasSuffix(t, ".KS"), strings.HasSuffix(t, ".KQ"):
		return krx
	case strings.HasSuffix(t, ".T"):
		return tse
	default:
		return nyse
	}
}

// IsOpen は now が立会時間内（平日のみ）かを返します。祝日は考慮しません。
func (e Exchange) IsOpen(now time.Time) bool {
	local := now.In(e.Location)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	m := local.Hour()*60 + local.Minute()
	return m >= e.Open && m < e.Close
}

// Status は "open" または "closed" を返します。
func (e Exchange) Status(now time.Time) string {
	if e.IsOpen(now) {
		return MarketOpen
	}
	return MarketClosed
}
