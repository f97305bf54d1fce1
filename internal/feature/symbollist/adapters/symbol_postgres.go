// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"invest_backend/internal/feature/symbollist/domain"
	"invest_backend/internal/feature/symbollist/domain/entity"
	"invest_backend/internal/feature/symbollist/usecase"
	"invest_backend/internal/platform/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// symbolPostgres はSymbolRepositoryインターフェースのgorm実装です。
type symbolPostgres struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolPostgres)(nil)

// NewSymbolRepository は指定されたDB接続でリポジトリを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolPostgres {
	return &symbolPostgres{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolPostgres) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := db.Conn(ctx, r.db).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolPostgres) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := db.Conn(ctx, r.db).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCode はコードに一致する銘柄を返します。存在しない場合は domain.ErrSymbolNotFound です。
func (r *symbolPostgres) FindByCode(ctx context.Context, code string) (*entity.Symbol, error) {
	var s entity.Symbol
	if err := db.Conn(ctx, r.db).Where("code = ?", code).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSymbolNotFound
		}
		return nil, fmt.Errorf("find symbol %s: %w", code, err)
	}
	return &s, nil
}

// Upsert はコードをキーに銘柄を登録または更新します。
func (r *symbolPostgres) Upsert(ctx context.Context, s *entity.Symbol) error {
	return db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "market", "currency", "is_active", "sort_key", "updated_at"}),
	}).Create(s).Error
}
