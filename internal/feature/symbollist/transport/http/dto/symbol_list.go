// Package dto は銘柄APIのリクエスト・レスポンスDTOを定義します。
package dto

// SymbolItem は一覧APIで返す銘柄です。公開する項目は code と name のみです。
type SymbolItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RegisterSymbolRequest は銘柄登録リクエストです。
type RegisterSymbolRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Market   string `json:"market"`
	Currency string `json:"currency"`
	SortKey  int    `json:"sort_key"`
}

// SymbolDetail は登録後の銘柄です。
type SymbolDetail struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Market   string `json:"market"`
	Currency string `json:"currency"`
}
