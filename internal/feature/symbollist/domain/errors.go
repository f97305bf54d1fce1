// Package domain は symbollist フィーチャーのドメインエラーを定義します。
package domain

import "errors"

// ErrSymbolNotFound は指定コードの銘柄が存在しないことを示します。
// 他フィーチャー（candles, orders）からも参照されます。
var ErrSymbolNotFound = errors.New("symbol not found")
