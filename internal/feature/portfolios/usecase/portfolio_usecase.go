// Package usecase はportfoliosフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	clientsentity "invest_backend/internal/feature/clients/domain/entity"
	dashboard "invest_backend/internal/feature/dashboard/domain/entity"
	orderentity "invest_backend/internal/feature/orders/domain/entity"
	"invest_backend/internal/feature/portfolios/domain/entity"
	"invest_backend/internal/shared/money"
)

// PortfolioRepository はポートフォリオと保有の永続化を抽象化します。
type PortfolioRepository interface {
	Create(ctx context.Context, p *entity.Portfolio) error
	// FindByID は存在しない場合 domain.ErrPortfolioNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Portfolio, error)
	List(ctx context.Context, clientID *uint) ([]entity.Portfolio, error)
	// AdjustCash は現金残高に delta を加算します。残高が負になる場合は domain.ErrInsufficientFunds です。
	AdjustCash(ctx context.Context, id uint, delta decimal.Decimal) error
	ListHoldings(ctx context.Context, portfolioID uint) ([]entity.Holding, error)
}

// ClientFinder は顧客の存在確認に使います。
type ClientFinder interface {
	FindByID(ctx context.Context, id uint) (*clientsentity.Client, error)
}

// TransactionWriter は入出金の取引記録を書き込みます。
type TransactionWriter interface {
	Create(ctx context.Context, t *orderentity.Transaction) error
}

// PriceProvider は銘柄の直近価格を返します。価格が無い場合 ok は false です。
type PriceProvider interface {
	LatestPrice(ctx context.Context, symbol string) (price decimal.Decimal, ok bool, err error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, kind, title, description string) error
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PortfolioUsecase はポートフォリオの作成・評価・入出金を提供します。
type PortfolioUsecase struct {
	portfolios   PortfolioRepository
	clients      ClientFinder
	transactions TransactionWriter
	prices       PriceProvider
	activities   ActivityRecorder
	tx           TxManager
}

// NewPortfolioUsecase は PortfolioUsecase を生成します。
func NewPortfolioUsecase(
	portfolios PortfolioRepository,
	clients ClientFinder,
	transactions TransactionWriter,
	prices PriceProvider,
	activities ActivityRecorder,
	tx TxManager,
) *PortfolioUsecase {
	return &PortfolioUsecase{
		portfolios:   portfolios,
		clients:      clients,
		transactions: transactions,
		prices:       prices,
		activities:   activities,
		tx:           tx,
	}
}

// CreatePortfolio は顧客にポートフォリオを作成します。通貨の既定は KRW です。
func (u *PortfolioUsecase) CreatePortfolio(ctx context.Context, clientID uint, name, currency string) (*entity.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return nil, fmt.Errorf("%w: name is required (max 100 characters)", ErrInvalidPortfolio)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidPortfolio)
	}
	if _, err := u.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	p := &entity.Portfolio{ClientID: clientID, Name: name, Currency: currency, CashBalance: decimal.Zero}
	if err := u.portfolios.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create portfolio: %w", err)
	}
	return p, nil
}

// ListPortfolios は clientID が nil の場合すべてを返します。
func (u *PortfolioUsecase) ListPortfolios(ctx context.Context, clientID *uint) ([]entity.Portfolio, error) {
	return u.portfolios.List(ctx, clientID)
}

// GetPortfolio は保有銘柄を直近価格で評価したポートフォリオを返します。
// 価格が取得できない銘柄は平均取得単価で評価します。
func (u *PortfolioUsecase) GetPortfolio(ctx context.Context, id uint) (*entity.Valuation, error) {
	p, err := u.portfolios.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	holdings, err := u.portfolios.ListHoldings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}

	v := &entity.Valuation{
		Portfolio:     *p,
		Holdings:      make([]entity.HoldingValuation, 0, len(holdings)),
		HoldingsValue: decimal.Zero,
		Cash:          p.CashBalance,
	}
	for _, h := range holdings {
		last, ok, err := u.prices.LatestPrice(ctx, h.Symbol)
		if err != nil {
			slog.Warn("price lookup failed, using average price", "symbol", h.Symbol, "error", err)
		}
		if err != nil || !ok {
			last = h.AvgPrice
		}
		mv := h.Quantity.Mul(last)
		v.Holdings = append(v.Holdings, entity.HoldingValuation{
			Symbol:        h.Symbol,
			Quantity:      h.Quantity,
			AvgPrice:      h.AvgPrice,
			LastPrice:     last,
			PriceIsLatest: err == nil && ok,
			MarketValue:   mv,
			UnrealizedPL:  last.Sub(h.AvgPrice).Mul(h.Quantity),
		})
		v.HoldingsValue = v.HoldingsValue.Add(mv)
	}
	v.TotalValue = v.HoldingsValue.Add(v.Cash)
	return v, nil
}

// Deposit は入金します。
func (u *PortfolioUsecase) Deposit(ctx context.Context, id uint, amount decimal.Decimal) (*entity.Portfolio, error) {
	return u.moveCash(ctx, id, amount, orderentity.TxDeposit)
}

// Withdraw は出金します。残高を超える場合は domain.ErrInsufficientFunds です。
func (u *PortfolioUsecase) Withdraw(ctx context.Context, id uint, amount decimal.Decimal) (*entity.Portfolio, error) {
	return u.moveCash(ctx, id, amount, orderentity.TxWithdrawal)
}

// moveCash は残高更新・取引記録・アクティビティ記録を1トランザクションで行います。
func (u *PortfolioUsecase) moveCash(ctx context.Context, id uint, amount decimal.Decimal, kind orderentity.TransactionType) (*entity.Portfolio, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	delta := amount
	verb := "deposit"
	if kind == orderentity.TxWithdrawal {
		delta = amount.Neg()
		verb = "withdrawal"
	}

	var out *entity.Portfolio
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := u.portfolios.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := u.portfolios.AdjustCash(ctx, id, delta); err != nil {
			return err
		}
		if err := u.transactions.Create(ctx, &orderentity.Transaction{
			PortfolioID: p.ID,
			ClientID:    p.ClientID,
			Type:        kind,
			Amount:      amount,
		}); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		desc := fmt.Sprintf("%s %s of %s", p.Name, verb, money.Format(amount, p.Currency))
		if err := u.activities.Record(ctx, dashboard.ActivityPortfolioUpdated, "Portfolio Updated", desc); err != nil {
			return err
		}
		out, err = u.portfolios.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
