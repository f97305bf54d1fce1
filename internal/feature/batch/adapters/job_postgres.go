// Package adapters は batch フィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"invest_backend/internal/feature/batch/domain/entity"
	"invest_backend/internal/feature/batch/usecase"
	"invest_backend/internal/platform/db"

	"gorm.io/gorm"
)

type jobPostgres struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

var _ usecase.JobRepository = (*jobPostgres)(nil)

// NewJobRepository は gorm を使った JobRepository を生成します。
// loc は FindToday の「今日」の境界に使います。
func NewJobRepository(gdb *gorm.DB, loc *time.Location) *jobPostgres {
	if loc == nil {
		loc = time.UTC
	}
	return &jobPostgres{db: gdb, loc: loc, now: time.Now}
}

func (r *jobPostgres) Create(ctx context.Context, j *entity.Job) error {
	return db.Conn(ctx, r.db).Create(j).Error
}

func (r *jobPostgres) Update(ctx context.Context, j *entity.Job) error {
	return db.Conn(ctx, r.db).Save(j).Error
}

func (r *jobPostgres) FindLatest(ctx context.Context) (*entity.Job, error) {
	return r.first(db.Conn(ctx, r.db))
}

func (r *jobPostgres) FindLatestByName(ctx context.Context, name string) (*entity.Job, error) {
	return r.first(db.Conn(ctx, r.db).Where("job_name = ?", name))
}

func (r *jobPostgres) first(q *gorm.DB) (*entity.Job, error) {
	var j entity.Job
	err := q.Order("started_at DESC").Order("id DESC").First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobPostgres) FindByStatus(ctx context.Context, status entity.JobStatus) ([]entity.Job, error) {
	var jobs []entity.Job
	err := db.Conn(ctx, r.db).
		Where("status = ?", status).
		Order("started_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// FindByNameAndStatus は空の name / status を条件に含めません。
func (r *jobPostgres) FindByNameAndStatus(ctx context.Context, name string, status entity.JobStatus, limit int) ([]entity.Job, error) {
	var jobs []entity.Job
	q := db.Conn(ctx, r.db).
		Where(&entity.Job{JobName: name, Status: status}).
		Order("started_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&jobs).Error
	return jobs, err
}

// FindBetween は開始時刻が [from, to) のジョブを新しい順に返します。
func (r *jobPostgres) FindBetween(ctx context.Context, from, to time.Time) ([]entity.Job, error) {
	var jobs []entity.Job
	err := db.Conn(ctx, r.db).
		Where("started_at >= ? AND started_at < ?", from, to).
		Order("started_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobPostgres) FindToday(ctx context.Context) ([]entity.Job, error) {
	now := r.now().In(r.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	return r.FindBetween(ctx, start, start.AddDate(0, 0, 1))
}

func (r *jobPostgres) ExistsRunning(ctx context.Context, name string) (bool, error) {
	var n int64
	err := db.Conn(ctx, r.db).Model(&entity.Job{}).
		Where("job_name = ? AND status = ?", name, entity.JobRunning).
		Count(&n).Error
	return n > 0, err
}

// AverageSuccessRate は total>0 の SUCCESS ジョブの成功率（%）の平均です。対象が無ければ nil。
func (r *jobPostgres) AverageSuccessRate(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	err := db.Conn(ctx, r.db).Model(&entity.Job{}).
		Select("AVG(success_count * 100.0 / total_count)").
		Where("status = ? AND total_count > 0", entity.JobSuccess).
		Row().Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// FailStaleRunning は before より前に開始して RUNNING のままの行を FAILED にします。
func (r *jobPostgres) FailStaleRunning(ctx context.Context, before time.Time, msg string) (int64, error) {
	res := db.Conn(ctx, r.db).Model(&entity.Job{}).
		Where("status = ? AND started_at < ?", entity.JobRunning, before).
		Updates(map[string]any{
			"status":        entity.JobFailed,
			"completed_at":  r.now(),
			"error_message": msg,
		})
	return res.RowsAffected, res.Error
}
