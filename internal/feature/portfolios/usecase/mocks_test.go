package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	clientsdomain "invest_backend/internal/feature/clients/domain"
	clientsentity "invest_backend/internal/feature/clients/domain/entity"
	orderentity "invest_backend/internal/feature/orders/domain/entity"
	"invest_backend/internal/feature/portfolios/domain"
	"invest_backend/internal/feature/portfolios/domain/entity"
)

var errDB = errors.New("db error")

// memoryPortfolios はテスト用のインメモリ PortfolioRepository です。
type memoryPortfolios struct {
	items    map[uint]*entity.Portfolio
	holdings map[uint][]entity.Holding
	nextID   uint
	ListErr  error
}

func newMemoryPortfolios(ps ...entity.Portfolio) *memoryPortfolios {
	m := &memoryPortfolios{items: map[uint]*entity.Portfolio{}, holdings: map[uint][]entity.Holding{}, nextID: 1}
	for i := range ps {
		p := ps[i]
		m.items[p.ID] = &p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *memoryPortfolios) Create(ctx context.Context, p *entity.Portfolio) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memoryPortfolios) FindByID(ctx context.Context, id uint) (*entity.Portfolio, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPortfolios) List(ctx context.Context, clientID *uint) ([]entity.Portfolio, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []entity.Portfolio
	for _, p := range m.items {
		if clientID == nil || p.ClientID == *clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryPortfolios) AdjustCash(ctx context.Context, id uint, delta decimal.Decimal) error {
	p, ok := m.items[id]
	if !ok {
		return domain.ErrPortfolioNotFound
	}
	next := p.CashBalance.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	p.CashBalance = next
	return nil
}

func (m *memoryPortfolios) ListHoldings(ctx context.Context, portfolioID uint) ([]entity.Holding, error) {
	return m.holdings[portfolioID], nil
}

type mockClientFinder struct {
	FindByIDFunc func(ctx context.Context, id uint) (*clientsentity.Client, error)
}

func (m *mockClientFinder) FindByID(ctx context.Context, id uint) (*clientsentity.Client, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	if id == 1 {
		return &clientsentity.Client{ID: 1, Name: "John Doe"}, nil
	}
	return nil, clientsdomain.ErrClientNotFound
}

type mockTransactionWriter struct {
	Created []orderentity.Transaction
	Err     error
}

func (m *mockTransactionWriter) Create(ctx context.Context, t *orderentity.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, *t)
	return nil
}

type mockPriceProvider struct {
	Prices map[string]decimal.Decimal
	Err    error
}

func (m *mockPriceProvider) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	if m.Err != nil {
		return decimal.Zero, false, m.Err
	}
	p, ok := m.Prices[symbol]
	return p, ok, nil
}

type recordedActivity struct {
	Kind, Title, Description string
}

type mockActivityRecorder struct {
	Recorded []recordedActivity
	Err      error
}

func (m *mockActivityRecorder) Record(ctx context.Context, kind, title, description string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Recorded = append(m.Recorded, recordedActivity{kind, title, description})
	return nil
}

type passThroughTx struct{}

func (passThroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
