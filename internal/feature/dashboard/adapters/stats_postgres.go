package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invest_backend/internal/feature/dashboard/domain/entity"
	"invest_backend/internal/feature/dashboard/usecase"
	"invest_backend/internal/platform/db"
)

type statsPostgres struct {
	db *gorm.DB
}

var _ usecase.StatsRepository = (*statsPostgres)(nil)

// NewStatsRepository は集計クエリとスナップショットのリポジトリを生成します。
func NewStatsRepository(gdb *gorm.DB) *statsPostgres {
	return &statsPostgres{db: gdb}
}

// Counts は現金合計を含まない件数系の集計を返します。
func (r *statsPostgres) Counts(ctx context.Context) (entity.Stats, error) {
	var s entity.Stats
	conn := db.Conn(ctx, r.db)
	if err := conn.Table("portfolios").Count(&s.TotalPortfolios).Error; err != nil {
		return s, err
	}
	if err := conn.Table("orders").Where("status = ?", "PENDING").Count(&s.ActiveOrders).Error; err != nil {
		return s, err
	}
	if err := conn.Table("clients").Count(&s.Clients).Error; err != nil {
		return s, err
	}
	return s, nil
}

func (r *statsPostgres) TotalCash(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Conn(ctx, r.db).Table("portfolios").
		Select("COALESCE(SUM(cash_balance), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *statsPostgres) Positions(ctx context.Context) ([]entity.SymbolPosition, error) {
	var out []entity.SymbolPosition
	err := db.Conn(ctx, r.db).Table("holdings").
		Select("symbol, SUM(quantity) AS quantity, SUM(quantity * avg_price) AS cost").
		Group("symbol").
		Order("symbol").
		Scan(&out).Error
	return out, err
}

func (r *statsPostgres) RecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error) {
	var out []entity.RecentOrder
	err := db.Conn(ctx, r.db).Table("orders").
		Select("orders.order_no, clients.name AS client_name, orders.symbol, orders.side, orders.quantity, " +
			"orders.limit_price, orders.executed_price, orders.status, portfolios.currency").
		Joins("JOIN portfolios ON portfolios.id = orders.portfolio_id").
		Joins("JOIN clients ON clients.id = portfolios.client_id").
		Order("orders.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// SnapshotOnOrBefore は date 以前で最新のスナップショットを返します。無ければ nil です。
func (r *statsPostgres) SnapshotOnOrBefore(ctx context.Context, date time.Time) (*entity.Snapshot, error) {
	var s entity.Snapshot
	err := db.Conn(ctx, r.db).Where("date <= ?", date).Order("date DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSnapshot は同じ日付の行があれば集計値を上書きします。
func (r *statsPostgres) UpsertSnapshot(ctx context.Context, s *entity.Snapshot) error {
	return db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_assets", "total_portfolios", "active_orders", "clients", "updated_at"}),
	}).Create(s).Error
}
