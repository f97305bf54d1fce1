// Package usecase は銘柄に関するビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"invest_backend/internal/feature/symbollist/domain/entity"
)

// SymbolRepository は銘柄データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (*entity.Symbol, error)
	Upsert(ctx context.Context, s *entity.Symbol) error
}

// SymbolUsecase は銘柄操作のビジネスロジックを提供します。
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase は指定されたリポジトリでSymbolUsecaseを生成します。
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols は有効な銘柄をsort_key順で返します。
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ListActiveCodes は有効な銘柄コードのみを返します。インジェストバッチが利用します。
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// RegisterSymbol は銘柄を登録または更新します。コードと通貨は大文字に正規化されます。
func (u *SymbolUsecase) RegisterSymbol(ctx context.Context, s entity.Symbol) (*entity.Symbol, error) {
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	s.Name = strings.TrimSpace(s.Name)
	if s.Code == "" || s.Name == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrInvalidSymbol)
	}
	if s.Currency == "" {
		s.Currency = DefaultCurrencyFor(s.Code)
	}
	if len(s.Currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidSymbol)
	}
	if err := u.repo.Upsert(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultCurrencyFor は銘柄コードのサフィックスから通貨を推定します。
// .KS/.KQ は KRW、.T は JPY、それ以外は USD です。
func DefaultCurrencyFor(code string) string {
	c := strings.ToUpper(code)
	switch {
	case strings.HasSuffix(c, ".KS"), strings.HasSuffix(c, ".KQ"):
		return "KRW"
	case strings.HasSuffix(c, ".T"):
		return "JPY"
	default:
		return "USD"
	}
}
