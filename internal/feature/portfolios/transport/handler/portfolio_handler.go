// Package handler はポートフォリオ API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"invest_backend/internal/api"
	clientsdomain "invest_backend/internal/feature/clients/domain"
	"invest_backend/internal/feature/portfolios/domain"
	"invest_backend/internal/feature/portfolios/domain/entity"
	"invest_backend/internal/feature/portfolios/transport/http/dto"
	"invest_backend/internal/feature/portfolios/usecase"
)

// PortfolioUsecase はポートフォリオ操作のユースケースです。
type PortfolioUsecase interface {
	CreatePortfolio(ctx context.Context, clientID uint, name, currency string) (*entity.Portfolio, error)
	GetPortfolio(ctx context.Context, id uint) (*entity.Valuation, error)
	ListPortfolios(ctx context.Context, clientID *uint) ([]entity.Portfolio, error)
	Deposit(ctx context.Context, id uint, amount decimal.Decimal) (*entity.Portfolio, error)
	Withdraw(ctx context.Context, id uint, amount decimal.Decimal) (*entity.Portfolio, error)
}

type PortfolioHandler struct {
	uc PortfolioUsecase
}

func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPortfolioNotFound), errors.Is(err, clientsdomain.ErrClientNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidPortfolio), errors.Is(err, usecase.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("portfolio request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// Create は POST /api/v1/portfolios を処理します。
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req dto.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: map[string]any{"error": err.Error()}})
		return
	}
	p, err := h.uc.CreatePortfolio(c.Request.Context(), req.ClientID, req.Name, req.Currency)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPortfolioResponse(p))
}

// List は GET /api/v1/portfolios?client_id= を処理します。
func (h *PortfolioHandler) List(c *gin.Context) {
	clientID, err := api.QueryID(c, "client_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	list, err := h.uc.ListPortfolios(c.Request.Context(), clientID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.PortfolioResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewPortfolioResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /api/v1/portfolios/:id を処理します。評価額を含みます。
func (h *PortfolioHandler) Get(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	v, err := h.uc.GetPortfolio(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewValuationResponse(v))
}

// Deposit は POST /api/v1/portfolios/:id/deposit を処理します。
func (h *PortfolioHandler) Deposit(c *gin.Context) {
	h.moveCash(c, h.uc.Deposit)
}

// Withdraw は POST /api/v1/portfolios/:id/withdraw を処理します。
func (h *PortfolioHandler) Withdraw(c *gin.Context) {
	h.moveCash(c, h.uc.Withdraw)
}

func (h *PortfolioHandler) moveCash(c *gin.Context, op func(context.Context, uint, decimal.Decimal) (*entity.Portfolio, error)) {
	id, err := api.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	p, err := op(c.Request.Context(), id, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPortfolioResponse(p))
}
