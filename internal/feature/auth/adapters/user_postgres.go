// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"invest_backend/internal/feature/auth/domain/entity"
	"invest_backend/internal/feature/auth/usecase"
	"invest_backend/internal/platform/db"
)

// userPostgres はUserRepositoryのPostgreSQL実装です。
type userPostgres struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserRepository は userPostgres を生成します。
func NewUserRepository(gdb *gorm.DB) *userPostgres {
	return &userPostgres{db: gdb}
}

var errNilUser = errors.New("user must not be nil")

// Create はユーザーを追加します。
// メールアドレスが重複した場合は usecase.ErrEmailAlreadyExists を返します。
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errNilUser
	}
	if err := db.Conn(ctx, r.db).Create(u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userPostgres) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userPostgres) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// first は条件に一致する最初のユーザーを返します。見つからなければ usecase.ErrUserNotFound です。
func (r *userPostgres) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := db.Conn(ctx, r.db).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
