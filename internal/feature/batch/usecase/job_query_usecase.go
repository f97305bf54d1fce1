package usecase

import (
	"context"
	"time"

	"invest_backend/internal/feature/batch/domain/entity"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// JobFilter は履歴一覧の絞り込み条件です。ゼロ値の項目は条件に含めません。
type JobFilter struct {
	Name   string
	Status entity.JobStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

// JobStats は GET /batch/jobs/stats の集計値です。
type JobStats struct {
	AverageSuccessRate *float64
	TodayCount         int
	Running            []string
}

type JobQueryUsecase struct {
	repo JobRepository
	now  func() time.Time
}

func NewJobQueryUsecase(repo JobRepository) *JobQueryUsecase {
	return &JobQueryUsecase{repo: repo, now: time.Now}
}

// ListJobs は新しい順に履歴を返します。期間指定がある場合は開始時刻で絞り込みます。
func (u *JobQueryUsecase) ListJobs(ctx context.Context, f JobFilter) ([]entity.Job, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	if f.From == nil && f.To == nil {
		return u.repo.FindByNameAndStatus(ctx, f.Name, f.Status, limit)
	}

	from := time.Time{}
	if f.From != nil {
		from = *f.From
	}
	to := u.now()
	if f.To != nil {
		to = *f.To
	}
	jobs, err := u.repo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Name != "" && j.JobName != f.Name {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Latest は最新の履歴を返します。name が空なら全ジョブから探します。
func (u *JobQueryUsecase) Latest(ctx context.Context, name string) (*entity.Job, error) {
	if name == "" {
		return u.repo.FindLatest(ctx)
	}
	return u.repo.FindLatestByName(ctx, name)
}

func (u *JobQueryUsecase) Stats(ctx context.Context) (*JobStats, error) {
	rate, err := u.repo.AverageSuccessRate(ctx)
	if err != nil {
		return nil, err
	}
	today, err := u.repo.FindToday(ctx)
	if err != nil {
		return nil, err
	}
	running, err := u.repo.FindByStatus(ctx, entity.JobRunning)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(running))
	for _, j := range running {
		names = append(names, j.JobName)
	}
	return &JobStats{AverageSuccessRate: rate, TodayCount: len(today), Running: names}, nil
}
