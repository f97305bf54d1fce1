package adapters

import (
	"context"

	"gorm.io/gorm"

	"invest_backend/internal/feature/orders/domain/entity"
	"invest_backend/internal/feature/orders/usecase"
	"invest_backend/internal/platform/db"
)

type transactionPostgres struct {
	db *gorm.DB
}

var _ usecase.TransactionRepository = (*transactionPostgres)(nil)

// NewTransactionRepository は取引記録のリポジトリを生成します。入出金（portfolios）からも使われます。
func NewTransactionRepository(gdb *gorm.DB) *transactionPostgres {
	return &transactionPostgres{db: gdb}
}

func (r *transactionPostgres) Create(ctx context.Context, t *entity.Transaction) error {
	return db.Conn(ctx, r.db).Create(t).Error
}

func (r *transactionPostgres) List(ctx context.Context, portfolioID *uint, limit int) ([]entity.Transaction, error) {
	q := db.Conn(ctx, r.db).Order("id DESC")
	if portfolioID != nil {
		q = q.Where("portfolio_id = ?", *portfolioID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []entity.Transaction
	err := q.Find(&out).Error
	return out, err
}
