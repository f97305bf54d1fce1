// Package handler は注文・取引 API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"invest_backend/internal/api"
	clientsdomain "invest_backend/internal/feature/clients/domain"
	"invest_backend/internal/feature/orders/domain"
	"invest_backend/internal/feature/orders/domain/entity"
	"invest_backend/internal/feature/orders/transport/http/dto"
	"invest_backend/internal/feature/orders/usecase"
	portfoliodomain "invest_backend/internal/feature/portfolios/domain"
)

// OrderUsecase は注文・取引のユースケースです。
type OrderUsecase interface {
	PlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) (*entity.Order, error)
	CancelOrder(ctx context.Context, id uint) (*entity.Order, error)
	GetOrder(ctx context.Context, id uint) (*entity.Order, error)
	ListOrders(ctx context.Context, f usecase.OrderFilter) ([]entity.Order, error)
	ListTransactions(ctx context.Context, portfolioID *uint, limit int) ([]entity.Transaction, error)
}

type OrderHandler struct {
	uc OrderUsecase
}

func NewOrderHandler(uc OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, portfoliodomain.ErrPortfolioNotFound),
		errors.Is(err, clientsdomain.ErrClientNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrKYCNotApproved),
		errors.Is(err, usecase.ErrInsufficientHolding),
		errors.Is(err, usecase.ErrOrderNotCancellable):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("order request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// Place は POST /api/v1/orders を処理します。約定はバッチで行われるため 202 を返します。
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request", Details: map[string]any{"error": err.Error()}})
		return
	}
	o, err := h.uc.PlaceOrder(c.Request.Context(), usecase.PlaceOrderInput{
		PortfolioID: req.PortfolioID,
		Symbol:      req.Symbol,
		Side:        entity.Side(req.Side),
		Type:        entity.OrderType(req.Type),
		Quantity:    req.Quantity,
		LimitPrice:  req.LimitPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewOrderResponse(o))
}

// List は GET /api/v1/orders?portfolio_id=&status=&limit= を処理します。
func (h *OrderHandler) List(c *gin.Context) {
	pid, err := api.QueryID(c, "portfolio_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query"})
		return
	}
	list, err := h.uc.ListOrders(c.Request.Context(), usecase.OrderFilter{
		PortfolioID: pid,
		Status:      entity.OrderStatus(q.Status),
		Limit:       q.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewOrderResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /api/v1/orders/:id を処理します。
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	o, err := h.uc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(o))
}

// Cancel は POST /api/v1/orders/:id/cancel を処理します。
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	o, err := h.uc.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(o))
}

// ListTransactions は GET /api/v1/transactions?portfolio_id=&limit= を処理します。
func (h *OrderHandler) ListTransactions(c *gin.Context) {
	pid, err := api.QueryID(c, "portfolio_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	var q api.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query"})
		return
	}
	list, err := h.uc.ListTransactions(c.Request.Context(), pid, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewTransactionResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}
