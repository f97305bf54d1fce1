package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"invest_backend/internal/feature/clients/domain/entity"
	"invest_backend/internal/feature/clients/usecase"
	"invest_backend/internal/platform/db"
)

type kycPostgres struct {
	db *gorm.DB
}

var _ usecase.KYCRepository = (*kycPostgres)(nil)

// NewKYCRepository は kycPostgres を生成します。
func NewKYCRepository(gdb *gorm.DB) *kycPostgres {
	return &kycPostgres{db: gdb}
}

func (r *kycPostgres) Create(ctx context.Context, rec *entity.KYCRecord) error {
	return db.Conn(ctx, r.db).Create(rec).Error
}

func (r *kycPostgres) FindByID(ctx context.Context, id uint) (*entity.KYCRecord, error) {
	var rec entity.KYCRecord
	err := db.Conn(ctx, r.db).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrKYCNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *kycPostgres) ExistsPending(ctx context.Context, clientID uint) (bool, error) {
	var n int64
	err := db.Conn(ctx, r.db).
		Model(&entity.KYCRecord{}).
		Where(&entity.KYCRecord{ClientID: clientID, Status: entity.ReviewPending}).
		Count(&n).Error
	return n > 0, err
}

func (r *kycPostgres) ListByClient(ctx context.Context, clientID uint) ([]entity.KYCRecord, error) {
	var out []entity.KYCRecord
	err := db.Conn(ctx, r.db).
		Where(&entity.KYCRecord{ClientID: clientID}).
		Order("submitted_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// Update は全カラムを保存します。
func (r *kycPostgres) Update(ctx context.Context, rec *entity.KYCRecord) error {
	return db.Conn(ctx, r.db).Save(rec).Error
}
