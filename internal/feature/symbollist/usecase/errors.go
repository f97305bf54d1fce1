package usecase

import "errors"

// ErrInvalidSymbol は銘柄の入力値が不正であることを示します。
var ErrInvalidSymbol = errors.New("invalid symbol")
