// Package money は金額の表示整形と増減率の計算を提供します。
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
	// 小さい単位から順に並べる
	units = []struct {
		suffix string
		value  decimal.Decimal
	}{
		{"K", decimal.New(1, 3)},
		{"M", decimal.New(1, 6)},
		{"B", decimal.New(1, 9)},
		{"T", decimal.New(1, 12)},
	}
)

// currencyOf はコードに対応する通貨を返します。未知のコードは USD として扱います。
func currencyOf(code string) *gomoney.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if c := gomoney.GetCurrency(code); c != nil {
		return c
	}
	return gomoney.GetCurrency(gomoney.USD)
}

// Format は金額を通貨の小数桁で丸め、記号付きで整形します（例: ₩5,000,000, $1,234.50）。
func Format(amount decimal.Decimal, currency string) string {
	cur := currencyOf(currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}

// Abbreviate は大きな金額を K/M/B/T 単位で短縮表示します（例: ₩ 125.5B）。
// 1,000 未満の金額は Format と同じ表示になります。
// 丸めた結果が 1000 に達した場合は1つ上の単位を使います（999,950 は ₩ 1.0M）。
func Abbreviate(amount decimal.Decimal, currency string) string {
	if amount.Abs().LessThan(thousand) {
		return Format(amount, currency)
	}
	cur := currencyOf(currency)
	for i, u := range units {
		v := amount.Div(u.value).Round(1)
		if v.Abs().LessThan(thousand) || i == len(units)-1 {
			return fmt.Sprintf("%s %s%s", cur.Grapheme, v.StringFixed(1), u.suffix)
		}
	}
	return Format(amount, currency)
}

// PercentChange は prev から cur への増減率（%）を小数第1位で返します。prev がゼロの場合は nil です。
func PercentChange(cur, prev decimal.Decimal) *decimal.Decimal {
	if prev.IsZero() {
		return nil
	}
	p := cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(1)
	return &p
}

// FormatChange は増減率を "+12.5%" / "-2.3%" 形式で返します。nil は "0.0%" です。
func FormatChange(p *decimal.Decimal) string {
	if p == nil {
		return "0.0%"
	}
	if p.IsNegative() {
		return p.StringFixed(1) + "%"
	}
	return "+" + p.StringFixed(1) + "%"
}
