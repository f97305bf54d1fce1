// Package domain は他フィーチャー（orders）からも参照されるportfoliosのエラーを定義します。
package domain

import "errors"

var (
	// ErrPortfolioNotFound はポートフォリオが存在しないことを示します。
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound は保有が存在しないことを示します。
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrInsufficientFunds は現金残高の不足を示します。
	ErrInsufficientFunds = errors.New("insufficient funds")
)
