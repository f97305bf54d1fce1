// Package adapters は crawling フィーチャーのリポジトリと取得クライアントを提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"invest_backend/internal/feature/crawling/domain"
	"invest_backend/internal/feature/crawling/domain/entity"
	"invest_backend/internal/feature/crawling/usecase"
	"invest_backend/internal/platform/db"

	"gorm.io/gorm"
)

type rawDataPostgres struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

var _ usecase.RawDataRepository = (*rawDataPostgres)(nil)

func NewRawDataRepository(gdb *gorm.DB, loc *time.Location) *rawDataPostgres {
	if loc == nil {
		loc = time.UTC
	}
	return &rawDataPostgres{db: gdb, loc: loc, now: time.Now}
}

func (r *rawDataPostgres) Create(ctx context.Context, d *entity.RawCrawledData) error {
	if err := db.Conn(ctx, r.db).Create(d).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return domain.ErrRawDataAlreadyExists
		}
		return err
	}
	return nil
}

func (r *rawDataPostgres) Update(ctx context.Context, d *entity.RawCrawledData) error {
	return db.Conn(ctx, r.db).Save(d).Error
}

func (r *rawDataPostgres) FindBySourceURL(ctx context.Context, url string) (*entity.RawCrawledData, error) {
	var d entity.RawCrawledData
	err := db.Conn(ctx, r.db).Where("source_url = ?", url).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRawDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *rawDataPostgres) ExistsBySourceURL(ctx context.Context, url string) (bool, error) {
	var n int64
	err := db.Conn(ctx, r.db).Model(&entity.RawCrawledData{}).
		Where("source_url = ?", url).
		Count(&n).Error
	return n > 0, err
}

// FindByStatus は取得が古い順に返します。limit<=0 は無制限です。
func (r *rawDataPostgres) FindByStatus(ctx context.Context, status entity.Status, limit int) ([]entity.RawCrawledData, error) {
	var rows []entity.RawCrawledData
	q := db.Conn(ctx, r.db).
		Where("status = ?", status).
		Order("crawled_at ASC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// FindBetween は取得時刻が [from, to) の行を新しい順に返します。
func (r *rawDataPostgres) FindBetween(ctx context.Context, from, to time.Time) ([]entity.RawCrawledData, error) {
	var rows []entity.RawCrawledData
	err := db.Conn(ctx, r.db).
		Where("crawled_at >= ? AND crawled_at < ?", from, to).
		Order("crawled_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *rawDataPostgres) CountByStatus(ctx context.Context, status entity.Status) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.db).Model(&entity.RawCrawledData{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

// FindOldPending は threshold より前に取得されて status のままの行を古い順に返します。
func (r *rawDataPostgres) FindOldPending(ctx context.Context, status entity.Status, threshold time.Time) ([]entity.RawCrawledData, error) {
	var rows []entity.RawCrawledData
	err := db.Conn(ctx, r.db).
		Where("status = ? AND crawled_at < ?", status, threshold).
		Order("crawled_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *rawDataPostgres) FindToday(ctx context.Context) ([]entity.RawCrawledData, error) {
	now := r.now().In(r.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	return r.FindBetween(ctx, start, start.AddDate(0, 0, 1))
}
