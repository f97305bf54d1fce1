// Package domain は他フィーチャーからも参照されるclientsのエラーを定義します。
package domain

import "errors"

// ErrClientNotFound は顧客が存在しないことを示します。
var ErrClientNotFound = errors.New("client not found")
