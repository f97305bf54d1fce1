package usecase

import (
	"context"

	"invest_backend/internal/feature/auth/domain/entity"
)

// SessionRepository はセッションの永続化レイヤーを抽象化します。
// Redis 実装（platform/session）と SQL 実装（adapters）があります。
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error

	// FindByID はリフレッシュトークン値でセッションを取得します。
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// FindByUserID はユーザーの有効なセッションを返します。
	FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error)

	// Revoke は RevokedAt を設定してセッションを失効させます。
	Revoke(ctx context.Context, id string) error

	RevokeAllByUserID(ctx context.Context, userID uint) error

	// DeleteExpired は期限切れセッションを削除し、削除件数を返します。
	DeleteExpired(ctx context.Context) (int64, error)

	// CountByUserID はユーザーの有効なセッション数を返します。
	CountByUserID(ctx context.Context, userID uint) (int64, error)

	// DeleteOldestByUserID はユーザーの最も古い有効セッションを削除します。
	DeleteOldestByUserID(ctx context.Context, userID uint) error
}
