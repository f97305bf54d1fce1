package usecase

import "errors"

var (
	// ErrInvalidPortfolio はポートフォリオ作成時の入力不備を示します。
	ErrInvalidPortfolio = errors.New("invalid portfolio")

	// ErrInvalidAmount は入出金額が正でないことを示します。
	ErrInvalidAmount = errors.New("amount must be positive")
)
