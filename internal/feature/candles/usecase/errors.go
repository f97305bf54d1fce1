package usecase

import "errors"

var (
	// ErrInvalidTicker はティッカーが空、または10文字を超えることを示します。
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrPriceUnavailable は銘柄の価格データが存在しないことを示します。
	ErrPriceUnavailable = errors.New("price data not available")

	// ErrUnsupportedInterval は取り込み対象外の時間足が指定されたことを示します。
	ErrUnsupportedInterval = errors.New("unsupported interval")
)
