// Package domain は orders フィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrOrderNotFound は注文が存在しないことを示します。
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderStateChanged は条件付き更新の時点で注文が既に PENDING でなかったことを示します。
	ErrOrderStateChanged = errors.New("order state changed concurrently")
)
