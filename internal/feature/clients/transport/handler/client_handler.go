// Package handler は顧客・KYC API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/clients/domain"
	"invest_backend/internal/feature/clients/domain/entity"
	"invest_backend/internal/feature/clients/transport/http/dto"
	"invest_backend/internal/feature/clients/usecase"
	jwtmw "invest_backend/internal/platform/jwt"
)

// ClientUsecase は顧客操作のユースケースです。
type ClientUsecase interface {
	CreateClient(ctx context.Context, name, email, phone string) (*entity.Client, error)
	GetClient(ctx context.Context, id uint) (*entity.Client, error)
	ListClients(ctx context.Context, limit, offset int) ([]entity.Client, int64, error)
}

// KYCUsecase はKYC操作のユースケースです。
type KYCUsecase interface {
	SubmitKYC(ctx context.Context, clientID uint, docType entity.DocumentType, docNumber string) (*entity.KYCRecord, error)
	AttachKYCDocument(ctx context.Context, kycID uint, image []byte) (*entity.KYCRecord, error)
	ApproveKYC(ctx context.Context, kycID, reviewerID uint) (*entity.KYCRecord, error)
	RejectKYC(ctx context.Context, kycID, reviewerID uint, reason string) (*entity.KYCRecord, error)
	ListKYC(ctx context.Context, clientID uint) ([]entity.KYCRecord, error)
}

// ClientHandler は /api/v1/clients と /api/v1/kyc を処理します。
type ClientHandler struct {
	clients ClientUsecase
	kyc     KYCUsecase
}

// NewClientHandler は ClientHandler を生成します。
func NewClientHandler(clients ClientUsecase, kyc KYCUsecase) *ClientHandler {
	return &ClientHandler{clients: clients, kyc: kyc}
}

// writeError はユースケースのエラーをHTTPステータスに変換します。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound), errors.Is(err, usecase.ErrKYCNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidClient), errors.Is(err, usecase.ErrInvalidKYCRequest):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrClientAlreadyExists),
		errors.Is(err, usecase.ErrKYCAlreadyPending),
		errors.Is(err, usecase.ErrKYCAlreadyApproved),
		errors.Is(err, usecase.ErrInvalidKYCTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrDocumentReaderUnavailable):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("clients request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

func badID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.ErrInvalidID.Error()})
}

// Create は POST /api/v1/clients を処理します。
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: map[string]any{"error": err.Error()}})
		return
	}
	client, err := h.clients.CreateClient(c.Request.Context(), req.Name, string(req.Email), req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewClientResponse(client))
}

// List は GET /api/v1/clients?limit=&offset= を処理します。
func (h *ClientHandler) List(c *gin.Context) {
	var q api.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query"})
		return
	}
	list, total, err := h.clients.ListClients(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	out := dto.ClientListResponse{Items: make([]dto.ClientResponse, 0, len(list)), Total: total}
	for i := range list {
		out.Items = append(out.Items, dto.NewClientResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /api/v1/clients/:id を処理します。
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		badID(c)
		return
	}
	client, err := h.clients.GetClient(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewClientResponse(client))
}

// SubmitKYC は POST /api/v1/clients/:id/kyc を処理します。
func (h *ClientHandler) SubmitKYC(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		badID(c)
		return
	}
	var req dto.SubmitKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	rec, err := h.kyc.SubmitKYC(c.Request.Context(), id, entity.DocumentType(req.DocumentType), req.DocumentNumber)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewKYCResponse(rec))
}

// ListKYC は GET /api/v1/clients/:id/kyc を処理します。
func (h *ClientHandler) ListKYC(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		badID(c)
		return
	}
	list, err := h.kyc.ListKYC(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.KYCResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewKYCResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// AttachDocument は書類画像をアップロードします。
//
// POST /api/v1/kyc/:id/document
// Content-Type: multipart/form-data
// フィールド: image（最大10MB）
func (h *ClientHandler) AttachDocument(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		badID(c)
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "image file is required"})
		return
	}
	if file.Size > usecase.MaxDocumentSize {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "image too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close uploaded file", "error", err)
		}
	}()
	image, err := io.ReadAll(io.LimitReader(f, usecase.MaxDocumentSize+1))
	if err != nil {
		slog.Error("failed to read uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}

	rec, err := h.kyc.AttachKYCDocument(c.Request.Context(), id, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewKYCResponse(rec))
}

// Approve は POST /api/v1/kyc/:id/approve を処理します。審査者はログインユーザーです。
func (h *ClientHandler) Approve(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		badID(c)
		return
	}
	reviewer, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	rec, err := h.kyc.ApproveKYC(c.Request.Context(), id, reviewer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewKYCResponse(rec))
}

// Reject は POST /api/v1/kyc/:id/reject を処理します。
func (h *ClientHandler) Reject(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		badID(c)
		return
	}
	reviewer, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.RejectKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "reason is required"})
		return
	}
	rec, err := h.kyc.RejectKYC(c.Request.Context(), id, reviewer, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewKYCResponse(rec))
}
