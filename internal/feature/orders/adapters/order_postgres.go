// Package adapters は orders フィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest_backend/internal/feature/orders/domain"
	"invest_backend/internal/feature/orders/domain/entity"
	"invest_backend/internal/feature/orders/usecase"
	"invest_backend/internal/platform/db"
)

type orderPostgres struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.OrderRepository = (*orderPostgres)(nil)

func NewOrderRepository(gdb *gorm.DB) *orderPostgres {
	return &orderPostgres{db: gdb, now: time.Now}
}

func (r *orderPostgres) Create(ctx context.Context, o *entity.Order) error {
	return db.Conn(ctx, r.db).Create(o).Error
}

func (r *orderPostgres) FindByID(ctx context.Context, id uint) (*entity.Order, error) {
	var o entity.Order
	err := db.Conn(ctx, r.db).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List は新しい順に返します。
func (r *orderPostgres) List(ctx context.Context, f usecase.OrderFilter) ([]entity.Order, error) {
	q := db.Conn(ctx, r.db).Order("id DESC")
	if f.PortfolioID != nil {
		q = q.Where("portfolio_id = ?", *f.PortfolioID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []entity.Order
	err := q.Find(&out).Error
	return out, err
}

func (r *orderPostgres) ListPending(ctx context.Context) ([]entity.Order, error) {
	var out []entity.Order
	err := db.Conn(ctx, r.db).
		Where("status = ?", entity.StatusPending).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *orderPostgres) PendingSellQuantity(ctx context.Context, portfolioID uint, symbol string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Conn(ctx, r.db).Model(&entity.Order{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("portfolio_id = ? AND symbol = ? AND side = ? AND status = ?",
			portfolioID, symbol, entity.SideSell, entity.StatusPending).
		Row().Scan(&total)
	return total, err
}

// UpdateFromPending は status = PENDING を条件に更新します。取消と約定が競合しても片方しか成功しません。
func (r *orderPostgres) UpdateFromPending(ctx context.Context, o *entity.Order) error {
	res := db.Conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ? AND status = ?", o.ID, entity.StatusPending).
		Updates(map[string]any{
			"status":         o.Status,
			"executed_price": o.ExecutedPrice,
			"executed_at":    o.ExecutedAt,
			"reject_reason":  o.RejectReason,
			"updated_at":     r.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, o.ID); err != nil {
			return err
		}
		return domain.ErrOrderStateChanged
	}
	return nil
}
