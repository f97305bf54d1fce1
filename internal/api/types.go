// Package api は HTTP API で共有するリクエスト/レスポンスの型を定義します。
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// MessageResponse は本文を持たない成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// BaseResponse は success/message を持つレスポンスです（ヘルスチェック・株価API）。
type BaseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse は BaseResponse にデータを付与したレスポンスです。
type DataResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// FailureResponse は株価API系のエラーレスポンスです。
type FailureResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ServiceInfoResponse は GET / のレスポンスです。
type ServiceInfoResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ReadinessResponse は readiness チェックのレスポンスです。
type ReadinessResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks"`
}

// SignupRequest は /signup のリクエストボディです。
type SignupRequest struct {
	Email    openapi_types.Email `json:"email" binding:"required,email"`
	Password string              `json:"password" binding:"required,min=8"`
}

// LoginRequest は /login のリクエストボディです。
type LoginRequest struct {
	Email    openapi_types.Email `json:"email" binding:"required,email"`
	Password string              `json:"password" binding:"required"`
}

// RefreshRequest は /refresh と /logout のリクエストボディです。
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse はログイン・リフレッシュ成功時のレスポンスです。
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// PageQuery は一覧APIの共通クエリです。
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ParseDate は YYYY-MM-DD 形式の文字列を Date に変換します。空文字列は nil を返します。
func ParseDate(s string) (*openapi_types.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &openapi_types.Date{Time: t}, nil
}
