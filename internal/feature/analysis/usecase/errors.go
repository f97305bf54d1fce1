package usecase

import "errors"

// ErrAnalyzerFailed は外部の分析APIが失敗したことを示します。
var ErrAnalyzerFailed = errors.New("stock analyzer failed")
