package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	clientsdomain "invest_backend/internal/feature/clients/domain"
	clientsentity "invest_backend/internal/feature/clients/domain/entity"
	"invest_backend/internal/feature/orders/domain"
	"invest_backend/internal/feature/orders/domain/entity"
	portfoliodomain "invest_backend/internal/feature/portfolios/domain"
	portfolioentity "invest_backend/internal/feature/portfolios/domain/entity"
	symboldomain "invest_backend/internal/feature/symbollist/domain"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"
)

var errDB = errors.New("db error")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type memoryOrders struct {
	items     map[uint]*entity.Order
	nextID    uint
	UpdateErr error
}

func newMemoryOrders(os ...entity.Order) *memoryOrders {
	m := &memoryOrders{items: map[uint]*entity.Order{}, nextID: 1}
	for i := range os {
		o := os[i]
		if o.ID == 0 {
			o.ID = m.nextID
		}
		m.items[o.ID] = &o
		if o.ID >= m.nextID {
			m.nextID = o.ID + 1
		}
	}
	return m
}

func (m *memoryOrders) Create(ctx context.Context, o *entity.Order) error {
	o.ID = m.nextID
	m.nextID++
	cp := *o
	m.items[o.ID] = &cp
	return nil
}

func (m *memoryOrders) FindByID(ctx context.Context, id uint) (*entity.Order, error) {
	o, ok := m.items[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryOrders) sorted() []entity.Order {
	out := make([]entity.Order, 0, len(m.items))
	for _, o := range m.items {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryOrders) List(ctx context.Context, f OrderFilter) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range m.sorted() {
		if f.PortfolioID != nil && o.PortfolioID != *f.PortfolioID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memoryOrders) ListPending(ctx context.Context) ([]entity.Order, error) {
	return m.List(ctx, OrderFilter{Status: entity.StatusPending})
}

func (m *memoryOrders) PendingSellQuantity(ctx context.Context, portfolioID uint, symbol string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range m.items {
		if o.PortfolioID == portfolioID && o.Symbol == symbol && o.Side == entity.SideSell && o.IsPending() {
			total = total.Add(o.Quantity)
		}
	}
	return total, nil
}

func (m *memoryOrders) UpdateFromPending(ctx context.Context, o *entity.Order) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cur, ok := m.items[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if !cur.IsPending() {
		return domain.ErrOrderStateChanged
	}
	cp := *o
	m.items[o.ID] = &cp
	return nil
}

type memoryTransactions struct {
	items []entity.Transaction
}

func (m *memoryTransactions) Create(ctx context.Context, t *entity.Transaction) error {
	t.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *t)
	return nil
}

func (m *memoryTransactions) List(ctx context.Context, portfolioID *uint, limit int) ([]entity.Transaction, error) {
	var out []entity.Transaction
	for _, t := range m.items {
		if portfolioID == nil || t.PortfolioID == *portfolioID {
			out = append(out, t)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memoryPortfolios は現金と保有をメモリで保持する PortfolioStore です。
type memoryPortfolios struct {
	portfolios map[uint]*portfolioentity.Portfolio
	holdings   map[string]*portfolioentity.Holding
	nextID     uint
}

func newMemoryPortfolios(ps ...portfolioentity.Portfolio) *memoryPortfolios {
	m := &memoryPortfolios{portfolios: map[uint]*portfolioentity.Portfolio{}, holdings: map[string]*portfolioentity.Holding{}, nextID: 1}
	for i := range ps {
		p := ps[i]
		m.portfolios[p.ID] = &p
	}
	return m
}

func holdingKey(portfolioID uint, symbol string) string {
	return fmt.Sprintf("%d/%s", portfolioID, symbol)
}

func (m *memoryPortfolios) addHolding(h portfolioentity.Holding) {
	h.ID = m.nextID
	m.nextID++
	m.holdings[holdingKey(h.PortfolioID, h.Symbol)] = &h
}

func (m *memoryPortfolios) FindByID(ctx context.Context, id uint) (*portfolioentity.Portfolio, error) {
	p, ok := m.portfolios[id]
	if !ok {
		return nil, portfoliodomain.ErrPortfolioNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPortfolios) AdjustCash(ctx context.Context, id uint, delta decimal.Decimal) error {
	p, ok := m.portfolios[id]
	if !ok {
		return portfoliodomain.ErrPortfolioNotFound
	}
	next := p.CashBalance.Add(delta)
	if next.IsNegative() {
		return portfoliodomain.ErrInsufficientFunds
	}
	p.CashBalance = next
	return nil
}

func (m *memoryPortfolios) FindHolding(ctx context.Context, portfolioID uint, symbol string) (*portfolioentity.Holding, error) {
	h, ok := m.holdings[holdingKey(portfolioID, symbol)]
	if !ok {
		return nil, portfoliodomain.ErrHoldingNotFound
	}
	cp := *h
	return &cp, nil
}

func (m *memoryPortfolios) SaveHolding(ctx context.Context, h *portfolioentity.Holding) error {
	if h.ID == 0 {
		h.ID = m.nextID
		m.nextID++
	}
	cp := *h
	m.holdings[holdingKey(h.PortfolioID, h.Symbol)] = &cp
	return nil
}

func (m *memoryPortfolios) DeleteHolding(ctx context.Context, id uint) error {
	for k, h := range m.holdings {
		if h.ID == id {
			delete(m.holdings, k)
		}
	}
	return nil
}

type mockClientFinder struct {
	Clients map[uint]clientsentity.Client
}

func (m *mockClientFinder) FindByID(ctx context.Context, id uint) (*clientsentity.Client, error) {
	c, ok := m.Clients[id]
	if !ok {
		return nil, clientsdomain.ErrClientNotFound
	}
	return &c, nil
}

type mockSymbolFinder struct {
	Symbols map[string]symbolentity.Symbol
	Err     error
}

func (m *mockSymbolFinder) FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Symbols[code]
	if !ok {
		return nil, symboldomain.ErrSymbolNotFound
	}
	return &s, nil
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
}

func (m *mockActivityRecorder) Record(ctx context.Context, kind, title, description string) error {
	m.Recorded = append(m.Recorded, recordedActivity{kind, title, description})
	return nil
}

type passThroughTx struct{}

func (passThroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
