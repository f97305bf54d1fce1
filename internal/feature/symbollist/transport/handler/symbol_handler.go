// Package handler は銘柄APIのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/symbollist/domain/entity"
	"invest_backend/internal/feature/symbollist/transport/http/dto"
	"invest_backend/internal/feature/symbollist/usecase"

	"github.com/gin-gonic/gin"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
	RegisterSymbol(ctx context.Context, s entity.Symbol) (*entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は有効な銘柄の一覧を code と name のみで返します。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		slog.Error("failed to list symbols", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list symbols"})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{Code: s.Code, Name: s.Name})
	}
	c.JSON(http.StatusOK, out)
}

// Register は銘柄を登録または更新します。
//
// POST /api/v1/symbols
func (h *SymbolHandler) Register(c *gin.Context) {
	var req dto.RegisterSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	s, err := h.uc.RegisterSymbol(c.Request.Context(), entity.Symbol{
		Code:     req.Code,
		Name:     req.Name,
		Market:   req.Market,
		Currency: req.Currency,
		IsActive: true,
		SortKey:  req.SortKey,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSymbol) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to register symbol", "code", req.Code, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to register symbol"})
		return
	}

	c.JSON(http.StatusOK, dto.SymbolDetail{
		Code:     s.Code,
		Name:     s.Name,
		Market:   s.Market,
		Currency: s.Currency,
	})
}
