package adapters

import (
	"context"
	"errors"
	"time"

	"invest_backend/internal/feature/auth/domain/entity"
	"invest_backend/internal/feature/auth/usecase"
	"invest_backend/internal/platform/db"

	"gorm.io/gorm"
)

// sessionPostgres は Redis が使えない環境向けの SessionRepository の SQL 実装です。
type sessionPostgres struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.SessionRepository = (*sessionPostgres)(nil)

// NewSessionRepository は sessionPostgres を生成します。
func NewSessionRepository(gdb *gorm.DB) *sessionPostgres {
	return &sessionPostgres{db: gdb, now: time.Now}
}

// active は有効なセッション（未失効かつ期限内）に絞り込みます。
func (r *sessionPostgres) active(ctx context.Context, userID uint) *gorm.DB {
	return db.Conn(ctx, r.db).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, r.now())
}

func (r *sessionPostgres) Create(ctx context.Context, s *entity.Session) error {
	return db.Conn(ctx, r.db).Create(sessionToModel(s)).Error
}

// FindByID は失効済み・期限切れも含めて返します。判定は呼び出し側で行います。
func (r *sessionPostgres) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var m SessionModel
	err := db.Conn(ctx, r.db).Where(&SessionModel{ID: id}).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toEntity(), nil
}

func (r *sessionPostgres) FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	var models []SessionModel
	if err := r.active(ctx, userID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Session, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

func (r *sessionPostgres) Revoke(ctx context.Context, id string) error {
	res := db.Conn(ctx, r.db).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", r.now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

func (r *sessionPostgres) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return db.Conn(ctx, r.db).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", r.now()).Error
}

func (r *sessionPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	res := db.Conn(ctx, r.db).Where("expires_at < ?", r.now()).Delete(&SessionModel{})
	return res.RowsAffected, res.Error
}

func (r *sessionPostgres) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.active(ctx, userID).Count(&n).Error
	return n, err
}

// DeleteOldestByUserID は有効セッションがなければ何もしません。
func (r *sessionPostgres) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest SessionModel
	err := r.active(ctx, userID).Order("created_at ASC").First(&oldest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.Conn(ctx, r.db).Delete(&SessionModel{}, "id = ?", oldest.ID).Error
}
