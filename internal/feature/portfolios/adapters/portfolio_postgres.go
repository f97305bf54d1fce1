// Package adapters はportfoliosフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest_backend/internal/feature/portfolios/domain"
	"invest_backend/internal/feature/portfolios/domain/entity"
	"invest_backend/internal/feature/portfolios/usecase"
	"invest_backend/internal/platform/db"
)

type portfolioPostgres struct {
	db *gorm.DB
}

var _ usecase.PortfolioRepository = (*portfolioPostgres)(nil)

// NewPortfolioRepository は portfolioPostgres を生成します。
// orders の約定処理が使う保有の更新メソッドもここで実装します。
func NewPortfolioRepository(gdb *gorm.DB) *portfolioPostgres {
	return &portfolioPostgres{db: gdb}
}

func (r *portfolioPostgres) Create(ctx context.Context, p *entity.Portfolio) error {
	return db.Conn(ctx, r.db).Create(p).Error
}

func (r *portfolioPostgres) FindByID(ctx context.Context, id uint) (*entity.Portfolio, error) {
	var p entity.Portfolio
	err := db.Conn(ctx, r.db).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioPostgres) List(ctx context.Context, clientID *uint) ([]entity.Portfolio, error) {
	q := db.Conn(ctx, r.db).Order("id ASC")
	if clientID != nil {
		q = q.Where(&entity.Portfolio{ClientID: *clientID})
	}
	var out []entity.Portfolio
	err := q.Find(&out).Error
	return out, err
}

// AdjustCash は条件付き UPDATE で残高を更新します。
// 出金時は cash_balance >= |delta| の行だけを更新するため、同時実行でも残高は負になりません。
func (r *portfolioPostgres) AdjustCash(ctx context.Context, id uint, delta decimal.Decimal) error {
	q := db.Conn(ctx, r.db).Model(&entity.Portfolio{}).Where("id = ?", id)
	if delta.IsNegative() {
		q = q.Where("cash_balance >= ?", delta.Neg())
	}
	res := q.Update("cash_balance", gorm.Expr("cash_balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrInsufficientFunds
}

func (r *portfolioPostgres) ListHoldings(ctx context.Context, portfolioID uint) ([]entity.Holding, error) {
	var out []entity.Holding
	err := db.Conn(ctx, r.db).
		Where(&entity.Holding{PortfolioID: portfolioID}).
		Order("symbol ASC").
		Find(&out).Error
	return out, err
}

// FindHolding は存在しない場合 domain.ErrHoldingNotFound を返します。
func (r *portfolioPostgres) FindHolding(ctx context.Context, portfolioID uint, symbol string) (*entity.Holding, error) {
	var h entity.Holding
	err := db.Conn(ctx, r.db).Where(&entity.Holding{PortfolioID: portfolioID, Symbol: symbol}).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrHoldingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SaveHolding は ID が 0 なら作成、それ以外は更新します。
func (r *portfolioPostgres) SaveHolding(ctx context.Context, h *entity.Holding) error {
	return db.Conn(ctx, r.db).Save(h).Error
}

func (r *portfolioPostgres) DeleteHolding(ctx context.Context, id uint) error {
	return db.Conn(ctx, r.db).Delete(&entity.Holding{}, id).Error
}
