// Package usecase は注文・取引のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	candleusecase "invest_backend/internal/feature/candles/usecase"
	clientsentity "invest_backend/internal/feature/clients/domain/entity"
	"invest_backend/internal/feature/orders/domain"
	"invest_backend/internal/feature/orders/domain/entity"
	portfoliodomain "invest_backend/internal/feature/portfolios/domain"
	portfolioentity "invest_backend/internal/feature/portfolios/domain/entity"
	symboldomain "invest_backend/internal/feature/symbollist/domain"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// OrderFilter は注文一覧の絞り込み条件です。
type OrderFilter struct {
	PortfolioID *uint
	Status      entity.OrderStatus // 空なら全状態
	Limit       int
}

// OrderRepository は注文の永続化を抽象化します。
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	FindByID(ctx context.Context, id uint) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]entity.Order, error)
	// ListPending は PENDING の注文を古い順に返します。
	ListPending(ctx context.Context) ([]entity.Order, error)
	// PendingSellQuantity は未約定の売り注文の数量合計を返します。
	PendingSellQuantity(ctx context.Context, portfolioID uint, symbol string) (decimal.Decimal, error)
	// UpdateFromPending は現在 PENDING の場合に限り o の状態を保存します。
	// 既に状態が変わっていれば domain.ErrOrderStateChanged です。
	UpdateFromPending(ctx context.Context, o *entity.Order) error
}

// TransactionRepository は取引記録の永続化を抽象化します。
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	List(ctx context.Context, portfolioID *uint, limit int) ([]entity.Transaction, error)
}

// PortfolioStore は約定時に使うポートフォリオ・保有の操作です。
type PortfolioStore interface {
	FindByID(ctx context.Context, id uint) (*portfolioentity.Portfolio, error)
	AdjustCash(ctx context.Context, id uint, delta decimal.Decimal) error
	FindHolding(ctx context.Context, portfolioID uint, symbol string) (*portfolioentity.Holding, error)
	SaveHolding(ctx context.Context, h *portfolioentity.Holding) error
	DeleteHolding(ctx context.Context, id uint) error
}

type ClientFinder interface {
	FindByID(ctx context.Context, id uint) (*clientsentity.Client, error)
}

type SymbolFinder interface {
	FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error)
}

type PriceProvider interface {
	LatestPrice(ctx context.Context, symbol string) (price decimal.Decimal, ok bool, err error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, kind, title, description string) error
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PlaceOrderInput は発注内容です。
type PlaceOrderInput struct {
	PortfolioID uint
	Symbol      string
	Side        entity.Side
	Type        entity.OrderType
	Quantity    decimal.Decimal
	LimitPrice  *decimal.Decimal
}

// ExecuteResult は ExecutePending の結果です。
type ExecuteResult struct {
	Success int
	Fail    int
}

// OrderUsecase は発注・取消・約定を提供します。
type OrderUsecase struct {
	orders       OrderRepository
	transactions TransactionRepository
	portfolios   PortfolioStore
	clients      ClientFinder
	symbols      SymbolFinder
	prices       PriceProvider
	activities   ActivityRecorder
	tx           TxManager
	now          func() time.Time
	newOrderNo   func() string
}

// NewOrderUsecase は OrderUsecase を生成します。
func NewOrderUsecase(
	orders OrderRepository,
	transactions TransactionRepository,
	portfolios PortfolioStore,
	clients ClientFinder,
	symbols SymbolFinder,
	prices PriceProvider,
	activities ActivityRecorder,
	tx TxManager,
) *OrderUsecase {
	return &OrderUsecase{
		orders:       orders,
		transactions: transactions,
		portfolios:   portfolios,
		clients:      clients,
		symbols:      symbols,
		prices:       prices,
		activities:   activities,
		tx:           tx,
		now:          time.Now,
		newOrderNo:   uuid.NewString,
	}
}

// PlaceOrder は注文を検証し PENDING で登録します。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*entity.Order, error) {
	symbol, err := candleusecase.NormalizeTicker(in.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: symbol must be 1-%d characters", ErrInvalidOrder, candleusecase.MaxTickerLength)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	sym, err := u.symbols.FindByCode(ctx, symbol)
	if errors.Is(err, symboldomain.ErrSymbolNotFound) || (err == nil && !sym.IsActive) {
		return nil, fmt.Errorf("%w: symbol %s is not tradable", ErrInvalidOrder, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("find symbol: %w", err)
	}

	p, err := u.portfolios.FindByID(ctx, in.PortfolioID)
	if err != nil {
		return nil, err
	}
	client, err := u.clients.FindByID(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.CanTrade() {
		return nil, ErrKYCNotApproved
	}

	if in.Side == entity.SideSell {
		if err := u.checkSellable(ctx, p.ID, symbol, in.Quantity); err != nil {
			return nil, err
		}
	}

	o := &entity.Order{
		OrderNo:     u.newOrderNo(),
		PortfolioID: p.ID,
		Symbol:      symbol,
		Side:        in.Side,
		Type:        in.Type,
		Quantity:    in.Quantity,
		LimitPrice:  in.LimitPrice,
		Status:      entity.StatusPending,
	}
	if err := u.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func validateInput(in PlaceOrderInput) error {
	if in.Side != entity.SideBuy && in.Side != entity.SideSell {
		return fmt.Errorf("%w: side must be BUY or SELL", ErrInvalidOrder)
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}
	switch in.Type {
	case entity.TypeLimit:
		if in.LimitPrice == nil || !in.LimitPrice.IsPositive() {
			return fmt.Errorf("%w: limit order requires a positive limit price", ErrInvalidOrder)
		}
	case entity.TypeMarket:
		if in.LimitPrice != nil {
			return fmt.Errorf("%w: market order must not have a limit price", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: type must be MARKET or LIMIT", ErrInvalidOrder)
	}
	return nil
}

// checkSellable は保有数量から他の未約定売り注文を差し引いた数量で判定します。
func (u *OrderUsecase) checkSellable(ctx context.Context, portfolioID uint, symbol string, qty decimal.Decimal) error {
	h, err := u.portfolios.FindHolding(ctx, portfolioID, symbol)
	if errors.Is(err, portfoliodomain.ErrHoldingNotFound) {
		return ErrInsufficientHolding
	}
	if err != nil {
		return fmt.Errorf("find holding: %w", err)
	}
	reserved, err := u.orders.PendingSellQuantity(ctx, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("pending sells: %w", err)
	}
	if h.Quantity.Sub(reserved).LessThan(qty) {
		return ErrInsufficientHolding
	}
	return nil
}

// CancelOrder は PENDING の注文を取り消します。
func (u *OrderUsecase) CancelOrder(ctx context.Context, id uint) (*entity.Order, error) {
	o, err := u.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsPending() {
		return nil, ErrOrderNotCancellable
	}
	o.Cancel()
	if err := u.orders.UpdateFromPending(ctx, o); err != nil {
		if errors.Is(err, domain.ErrOrderStateChanged) {
			return nil, ErrOrderNotCancellable
		}
		return nil, err
	}
	return o, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	return u.orders.FindByID(ctx, id)
}

func (u *OrderUsecase) ListOrders(ctx context.Context, f OrderFilter) ([]entity.Order, error) {
	f.Limit = clampLimit(f.Limit)
	return u.orders.List(ctx, f)
}

func (u *OrderUsecase) ListTransactions(ctx context.Context, portfolioID *uint, limit int) ([]entity.Transaction, error) {
	return u.transactions.List(ctx, portfolioID, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
