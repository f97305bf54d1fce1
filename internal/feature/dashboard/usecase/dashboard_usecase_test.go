package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest_backend/internal/feature/dashboard/domain/entity"
	"invest_backend/internal/platform/cache"
)

var errDB = errors.New("db error")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type mockStatsRepository struct {
	CountsFunc        func(ctx context.Context) (entity.Stats, error)
	Cash              decimal.Decimal
	PositionList      []entity.SymbolPosition
	Orders            []entity.RecentOrder
	Snapshot          *entity.Snapshot
	SnapshotQueriedAt time.Time
	Upserted          []entity.Snapshot
	Calls             int
}

func (m *mockStatsRepository) Counts(ctx context.Context) (entity.Stats, error) {
	m.Calls++
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return entity.Stats{TotalPortfolios: 4, ActiveOrders: 2, Clients: 3}, nil
}

func (m *mockStatsRepository) TotalCash(ctx context.Context) (decimal.Decimal, error) {
	return m.Cash, nil
}

func (m *mockStatsRepository) Positions(ctx context.Context) ([]entity.SymbolPosition, error) {
	return m.PositionList, nil
}

func (m *mockStatsRepository) RecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error) {
	return m.Orders, nil
}

func (m *mockStatsRepository) SnapshotOnOrBefore(ctx context.Context, date time.Time) (*entity.Snapshot, error) {
	m.SnapshotQueriedAt = date
	return m.Snapshot, nil
}

func (m *mockStatsRepository) UpsertSnapshot(ctx context.Context, s *entity.Snapshot) error {
	m.Upserted = append(m.Upserted, *s)
	return nil
}

type mockActivityReader struct {
	Items []entity.Activity
}

func (m *mockActivityReader) Recent(ctx context.Context, limit int) ([]entity.Activity, error) {
	return m.Items, nil
}

type mockPriceProvider struct {
	Prices map[string]decimal.Decimal
}

func (m *mockPriceProvider) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	p, ok := m.Prices[symbol]
	return p, ok, nil
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestUsecase(stats *mockStatsRepository, acts *mockActivityReader, cm *cache.Manager) *DashboardUsecase {
	prices := &mockPriceProvider{Prices: map[string]decimal.Decimal{"AAPL": d("150")}}
	uc := NewDashboardUsecase(stats, acts, prices, cm, "KRW")
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func newStats() *mockStatsRepository {
	return &mockStatsRepository{
		Cash: d("1000000"),
		PositionList: []entity.SymbolPosition{
			{Symbol: "AAPL", Quantity: d("10"), Cost: d("1000")},
			{Symbol: "TSLA", Quantity: d("2"), Cost: d("400")},
		},
	}
}

func TestDashboardUsecase_CurrentStats(t *testing.T) {
	uc := newTestUsecase(newStats(), &mockActivityReader{}, cache.NewManager(nil))

	s, err := uc.CurrentStats(context.Background())

	require.NoError(t, err)
	// 1,000,000 + 10×150 + TSLA は価格が無いので取得原価 400
	assert.True(t, d("1001900").Equal(s.TotalAssets), "got %s", s.TotalAssets)
	assert.Equal(t, int64(3), s.Clients)
}

func TestDashboardUsecase_GetSummary(t *testing.T) {
	t.Run("success: no snapshot yields flat changes", func(t *testing.T) {
		stats := newStats()
		acts := &mockActivityReader{Items: []entity.Activity{
			{Kind: entity.ActivityClientCreated, Title: "New Client", Description: "John Doe registered", OccurredAt: fixedNow.Add(-5 * time.Minute)},
			{Kind: entity.ActivityOrderExecuted, Title: "Order Executed", Description: "Buy 10 shares of AAPL", OccurredAt: fixedNow.Add(-30 * time.Second)},
		}}
		stats.Orders = []entity.RecentOrder{
			{OrderNo: "o1", ClientName: "John Doe", Symbol: "AAPL", Side: "BUY", Quantity: d("10"), ExecutedPrice: dp("150"), Status: "EXECUTED", Currency: "USD"},
			{OrderNo: "o2", ClientName: "Jane Smith", Symbol: "TSLA", Side: "BUY", Quantity: d("1"), Status: "PENDING", Currency: "USD"},
			{OrderNo: "o3", ClientName: "Mike Johnson", Symbol: "005930.KS", Side: "SELL", Quantity: d("1"), LimitPrice: dp("70000"), Status: "CANCELLED", Currency: "KRW"},
		}
		uc := newTestUsecase(stats, acts, cache.NewManager(nil))

		s, err := uc.GetSummary(context.Background())

		require.NoError(t, err)
		require.Len(t, s.Stats, 4)
		assert.Equal(t, entity.StatCard{Title: "Total Assets", Value: "₩ 1.0M", Raw: "1001900", Change: "0.0%", IsPositive: true}, s.Stats[0])
		assert.Equal(t, "Clients", s.Stats[3].Title)
		assert.Equal(t, "3", s.Stats[3].Value)
		assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), stats.SnapshotQueriedAt)

		require.Len(t, s.RecentActivities, 2)
		assert.Equal(t, "5 minutes ago", s.RecentActivities[0].Time)
		assert.Equal(t, "just now", s.RecentActivities[1].Time)

		require.Len(t, s.RecentTransactions, 3)
		assert.Equal(t, entity.TransactionItem{OrderNo: "o1", Client: "John Doe", Asset: "AAPL", Type: "Buy", Amount: "$1,500.00", Status: "Completed"}, s.RecentTransactions[0])
		assert.Equal(t, "-", s.RecentTransactions[1].Amount)
		assert.Equal(t, "Pending", s.RecentTransactions[1].Status)
		assert.Equal(t, "Sell", s.RecentTransactions[2].Type)
		assert.Equal(t, "₩70,000", s.RecentTransactions[2].Amount)
		assert.Equal(t, "Cancelled", s.RecentTransactions[2].Status)
		assert.Equal(t, "2024-06-15T12:00:00Z", s.GeneratedAt)
	})

	t.Run("success: compares against month-old snapshot", func(t *testing.T) {
		stats := newStats()
		stats.Snapshot = &entity.Snapshot{TotalAssets: d("2003800"), TotalPortfolios: 4, ActiveOrders: 0, Clients: 2}
		uc := newTestUsecase(stats, &mockActivityReader{}, cache.NewManager(nil))

		s, err := uc.GetSummary(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "-50.0%", s.Stats[0].Change)
		assert.False(t, s.Stats[0].IsPositive)
		assert.Equal(t, "+0.0%", s.Stats[1].Change)
		assert.Equal(t, "0.0%", s.Stats[2].Change, "previous zero has no ratio")
		assert.True(t, s.Stats[2].IsPositive)
		assert.Equal(t, "+50.0%", s.Stats[3].Change)
	})

	t.Run("error: stats failure", func(t *testing.T) {
		stats := newStats()
		stats.CountsFunc = func(ctx context.Context) (entity.Stats, error) { return entity.Stats{}, errDB }
		uc := newTestUsecase(stats, &mockActivityReader{}, cache.NewManager(nil))

		_, err := uc.GetSummary(context.Background())

		assert.ErrorIs(t, err, errDB)
	})
}

func TestDashboardUsecase_GetSummary_Cached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	stats := newStats()
	uc := newTestUsecase(stats, &mockActivityReader{}, cache.NewManager(rdb))
	ctx := context.Background()

	first, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	second, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Calls, "second call should be served from cache")
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("marketSummary:summary"))
	assert.Equal(t, 15*time.Minute, mr.TTL("marketSummary:summary"))

	snap, err := uc.TakeSnapshot(ctx, fixedNow.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), snap.Date)
	assert.False(t, mr.Exists("marketSummary:summary"), "snapshot should evict summary cache")
	require.Len(t, stats.Upserted, 1)
	assert.True(t, d("1001900").Equal(stats.Upserted[0].TotalAssets))
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{name: "edge case: seconds", ago: 10 * time.Second, want: "just now"},
		{name: "success: one minute", ago: 90 * time.Second, want: "1 minute ago"},
		{name: "success: minutes", ago: 5 * time.Minute, want: "5 minutes ago"},
		{name: "success: hours", ago: 3 * time.Hour, want: "3 hours ago"},
		{name: "success: days", ago: 72 * time.Hour, want: "3 days ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(fixedNow.Add(-tt.ago), fixedNow))
		})
	}
}

func TestDisplayStatus(t *testing.T) {
	assert.Equal(t, "Completed", displayStatus("EXECUTED"))
	assert.Equal(t, "Rejected", displayStatus("REJECTED"))
	assert.Equal(t, "UNKNOWN", displayStatus("UNKNOWN"))
}
