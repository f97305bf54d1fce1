// Package adapters はclientsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"invest_backend/internal/feature/clients/domain"
	"invest_backend/internal/feature/clients/domain/entity"
	"invest_backend/internal/feature/clients/usecase"
	"invest_backend/internal/platform/db"
)

type clientPostgres struct {
	db *gorm.DB
}

var _ usecase.ClientRepository = (*clientPostgres)(nil)

// NewClientRepository は clientPostgres を生成します。
func NewClientRepository(gdb *gorm.DB) *clientPostgres {
	return &clientPostgres{db: gdb}
}

func (r *clientPostgres) Create(ctx context.Context, c *entity.Client) error {
	if err := db.Conn(ctx, r.db).Create(c).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrClientAlreadyExists
		}
		return err
	}
	return nil
}

func (r *clientPostgres) FindByID(ctx context.Context, id uint) (*entity.Client, error) {
	var c entity.Client
	err := db.Conn(ctx, r.db).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List は登録の新しい順に返します。
func (r *clientPostgres) List(ctx context.Context, limit, offset int) ([]entity.Client, int64, error) {
	conn := db.Conn(ctx, r.db)
	var total int64
	if err := conn.Model(&entity.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entity.Client
	if err := conn.Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *clientPostgres) UpdateKYCStatus(ctx context.Context, id uint, status entity.KYCStatus) error {
	res := db.Conn(ctx, r.db).Model(&entity.Client{ID: id}).Update("kyc_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
