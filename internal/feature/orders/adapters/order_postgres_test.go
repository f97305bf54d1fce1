package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invest_backend/internal/feature/orders/domain"
	"invest_backend/internal/feature/orders/domain/entity"
	"invest_backend/internal/feature/orders/usecase"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Order{}, &entity.Transaction{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, o entity.Order) *entity.Order {
	t.Helper()
	if o.OrderNo == "" {
		o.OrderNo = time.Now().Format("150405.000000000")
	}
	if o.Status == "" {
		o.Status = entity.StatusPending
	}
	if o.Type == "" {
		o.Type = entity.TypeMarket
	}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func TestOrderPostgres_CreateAndFind(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	limit := decimal.RequireFromString("150.5")
	o := &entity.Order{
		OrderNo: "0b5c", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideBuy, Type: entity.TypeLimit,
		Quantity: decimal.NewFromInt(3), LimitPrice: &limit, Status: entity.StatusPending,
	}

	require.NoError(t, repo.Create(context.Background(), o))

	found, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LimitPrice)
	assert.True(t, limit.Equal(*found.LimitPrice))
	assert.Nil(t, found.ExecutedPrice)

	_, err = repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderPostgres_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	seedOrder(t, db, entity.Order{OrderNo: "a", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1)})
	seedOrder(t, db, entity.Order{OrderNo: "b", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1), Status: entity.StatusExecuted})
	seedOrder(t, db, entity.Order{OrderNo: "c", PortfolioID: 2, Symbol: "TSLA", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1)})
	pid := uint(1)

	tests := []struct {
		name   string
		filter usecase.OrderFilter
		want   []string
	}{
		{name: "success: all newest first", filter: usecase.OrderFilter{}, want: []string{"c", "b", "a"}},
		{name: "success: by portfolio", filter: usecase.OrderFilter{PortfolioID: &pid}, want: []string{"b", "a"}},
		{name: "success: by status", filter: usecase.OrderFilter{Status: entity.StatusPending}, want: []string{"c", "a"}},
		{name: "success: limited", filter: usecase.OrderFilter{Limit: 1}, want: []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			var got []string
			for _, o := range list {
				got = append(got, o.OrderNo)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderPostgres_ListPendingOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	now := time.Now()
	seedOrder(t, db, entity.Order{OrderNo: "new", Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1), CreatedAt: now})
	seedOrder(t, db, entity.Order{OrderNo: "old", Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1), CreatedAt: now.Add(-time.Hour)})
	seedOrder(t, db, entity.Order{OrderNo: "done", Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1), Status: entity.StatusCancelled})

	list, err := repo.ListPending(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "old", list[0].OrderNo)
	assert.Equal(t, "new", list[1].OrderNo)
}

func TestOrderPostgres_PendingSellQuantity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	seedOrder(t, db, entity.Order{OrderNo: "s1", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideSell, Quantity: decimal.RequireFromString("2.5")})
	seedOrder(t, db, entity.Order{OrderNo: "s2", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideSell, Quantity: decimal.NewFromInt(3)})
	seedOrder(t, db, entity.Order{OrderNo: "s3", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideSell, Quantity: decimal.NewFromInt(7), Status: entity.StatusExecuted})
	seedOrder(t, db, entity.Order{OrderNo: "b1", PortfolioID: 1, Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(9)})

	total, err := repo.PendingSellQuantity(context.Background(), 1, "AAPL")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.5").Equal(total), "got %s", total)

	total, err = repo.PendingSellQuantity(context.Background(), 2, "AAPL")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestOrderPostgres_UpdateFromPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	o := seedOrder(t, db, entity.Order{OrderNo: "x", Symbol: "AAPL", Side: entity.SideBuy, Quantity: decimal.NewFromInt(1)})

	o.Execute(decimal.NewFromInt(150), time.Now())
	require.NoError(t, repo.UpdateFromPending(context.Background(), o))

	found, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusExecuted, found.Status)
	require.NotNil(t, found.ExecutedAt)

	// 既に約定済みなので取消は失敗する
	found.Cancel()
	assert.ErrorIs(t, repo.UpdateFromPending(context.Background(), found), domain.ErrOrderStateChanged)

	missing := &entity.Order{ID: 404, Status: entity.StatusCancelled}
	assert.ErrorIs(t, repo.UpdateFromPending(context.Background(), missing), domain.ErrOrderNotFound)
}

func TestTransactionPostgres_List(t *testing.T) {
	repo := NewTransactionRepository(setupTestDB(t))
	ctx := context.Background()
	orderID := uint(1)
	require.NoError(t, repo.Create(ctx, &entity.Transaction{PortfolioID: 1, ClientID: 1, Type: entity.TxDeposit, Amount: decimal.NewFromInt(1000)}))
	require.NoError(t, repo.Create(ctx, &entity.Transaction{PortfolioID: 1, ClientID: 1, OrderID: &orderID, Type: entity.TxBuy, Symbol: "AAPL", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(150), Amount: decimal.NewFromInt(150)}))
	require.NoError(t, repo.Create(ctx, &entity.Transaction{PortfolioID: 2, ClientID: 2, Type: entity.TxDeposit, Amount: decimal.NewFromInt(5)}))

	all, err := repo.List(ctx, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pid := uint(1)
	mine, err := repo.List(ctx, &pid, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, entity.TxBuy, mine[0].Type)
	require.NotNil(t, mine[0].OrderID)
}
