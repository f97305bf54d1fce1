package usecase

import (
	"context"
	"errors"
	"time"

	"invest_backend/internal/feature/batch/domain/entity"
)

var errDB = errors.New("db down")

// mockJobRepository は関数フィールドで振る舞いを差し替えるモックです。未設定のメソッドはゼロ値を返します。
type mockJobRepository struct {
	CreateFunc              func(ctx context.Context, j *entity.Job) error
	UpdateFunc              func(ctx context.Context, j *entity.Job) error
	FindLatestFunc          func(ctx context.Context) (*entity.Job, error)
	FindLatestByNameFunc    func(ctx context.Context, name string) (*entity.Job, error)
	FindByStatusFunc        func(ctx context.Context, status entity.JobStatus) ([]entity.Job, error)
	FindByNameAndStatusFunc func(ctx context.Context, name string, status entity.JobStatus, limit int) ([]entity.Job, error)
	FindBetweenFunc         func(ctx context.Context, from, to time.Time) ([]entity.Job, error)
	FindTodayFunc           func(ctx context.Context) ([]entity.Job, error)
	ExistsRunningFunc       func(ctx context.Context, name string) (bool, error)
	AverageSuccessRateFunc  func(ctx context.Context) (*float64, error)
	FailStaleRunningFunc    func(ctx context.Context, before time.Time, msg string) (int64, error)
}

func (m *mockJobRepository) Create(ctx context.Context, j *entity.Job) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, j)
	}
	return nil
}

func (m *mockJobRepository) Update(ctx context.Context, j *entity.Job) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, j)
	}
	return nil
}

func (m *mockJobRepository) FindLatest(ctx context.Context) (*entity.Job, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx)
	}
	return nil, ErrJobNotFound
}

func (m *mockJobRepository) FindLatestByName(ctx context.Context, name string) (*entity.Job, error) {
	if m.FindLatestByNameFunc != nil {
		return m.FindLatestByNameFunc(ctx, name)
	}
	return nil, ErrJobNotFound
}

func (m *mockJobRepository) FindByStatus(ctx context.Context, status entity.JobStatus) ([]entity.Job, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockJobRepository) FindByNameAndStatus(ctx context.Context, name string, status entity.JobStatus, limit int) ([]entity.Job, error) {
	if m.FindByNameAndStatusFunc != nil {
		return m.FindByNameAndStatusFunc(ctx, name, status, limit)
	}
	return nil, nil
}

func (m *mockJobRepository) FindBetween(ctx context.Context, from, to time.Time) ([]entity.Job, error) {
	if m.FindBetweenFunc != nil {
		return m.FindBetweenFunc(ctx, from, to)
	}
	return nil, nil
}

func (m *mockJobRepository) FindToday(ctx context.Context) ([]entity.Job, error) {
	if m.FindTodayFunc != nil {
		return m.FindTodayFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobRepository) ExistsRunning(ctx context.Context, name string) (bool, error) {
	if m.ExistsRunningFunc != nil {
		return m.ExistsRunningFunc(ctx, name)
	}
	return false, nil
}

func (m *mockJobRepository) AverageSuccessRate(ctx context.Context) (*float64, error) {
	if m.AverageSuccessRateFunc != nil {
		return m.AverageSuccessRateFunc(ctx)
	}
	return nil, nil
}

func (m *mockJobRepository) FailStaleRunning(ctx context.Context, before time.Time, msg string) (int64, error) {
	if m.FailStaleRunningFunc != nil {
		return m.FailStaleRunningFunc(ctx, before, msg)
	}
	return 0, nil
}
