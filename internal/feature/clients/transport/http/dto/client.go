// Package dto は顧客・KYC API のリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"invest_backend/internal/feature/clients/domain/entity"
)

// CreateClientRequest は POST /api/v1/clients のボディです。
type CreateClientRequest struct {
	Name  string              `json:"name" binding:"required,max=100"`
	Email openapi_types.Email `json:"email" binding:"required"`
	Phone string              `json:"phone" binding:"omitempty,max=32"`
}

type ClientResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	KYCStatus string    `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Total int64            `json:"total"`
}

func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		KYCStatus: string(c.KYCStatus),
		CreatedAt: c.CreatedAt,
	}
}

// SubmitKYCRequest は POST /api/v1/clients/:id/kyc のボディです。
type SubmitKYCRequest struct {
	DocumentType   string `json:"document_type" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required,max=64"`
}

// RejectKYCRequest は POST /api/v1/kyc/:id/reject のボディです。
type RejectKYCRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type KYCResponse struct {
	ID               uint       `json:"id"`
	ClientID         uint       `json:"client_id"`
	DocumentType     string     `json:"document_type"`
	DocumentNumber   string     `json:"document_number"`
	Status           string     `json:"status"`
	DocumentVerified bool       `json:"document_verified"`
	RejectReason     string     `json:"reject_reason,omitempty"`
	ReviewedBy       *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt      time.Time  `json:"submitted_at"`
}

func NewKYCResponse(r *entity.KYCRecord) KYCResponse {
	return KYCResponse{
		ID:               r.ID,
		ClientID:         r.ClientID,
		DocumentType:     string(r.DocumentType),
		DocumentNumber:   r.DocumentNumber,
		Status:           string(r.Status),
		DocumentVerified: r.DocumentVerified,
		RejectReason:     r.RejectReason,
		ReviewedBy:       r.ReviewedBy,
		ReviewedAt:       r.ReviewedAt,
		SubmittedAt:      r.SubmittedAt,
	}
}
