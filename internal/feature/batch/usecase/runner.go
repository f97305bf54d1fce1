// Package usecase はバッチジョブの実行管理と履歴参照を提供します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"invest_backend/internal/feature/batch/domain/entity"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "invest_backend/batch"

// DefaultStaleAfter を超えて RUNNING のままの行は異常終了とみなします。
const DefaultStaleAfter = 6 * time.Hour

// JobRepository はジョブ履歴の永続化を表します。
type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	Update(ctx context.Context, j *entity.Job) error
	FindLatest(ctx context.Context) (*entity.Job, error)
	FindLatestByName(ctx context.Context, name string) (*entity.Job, error)
	FindByStatus(ctx context.Context, status entity.JobStatus) ([]entity.Job, error)
	FindByNameAndStatus(ctx context.Context, name string, status entity.JobStatus, limit int) ([]entity.Job, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]entity.Job, error)
	FindToday(ctx context.Context) ([]entity.Job, error)
	ExistsRunning(ctx context.Context, name string) (bool, error)
	AverageSuccessRate(ctx context.Context) (*float64, error)
	FailStaleRunning(ctx context.Context, before time.Time, msg string) (int64, error)
}

// Result はジョブ処理の件数です。
type Result struct {
	Success int
	Fail    int
}

// JobFunc は Runner が実行する処理本体です。
type JobFunc func(ctx context.Context) (Result, error)

// Runner はジョブの実行履歴を記録しながら処理を実行します。
type Runner struct {
	repo       JobRepository
	staleAfter time.Duration
	now        func() time.Time
}

func NewRunner(repo JobRepository) *Runner {
	return &Runner{repo: repo, staleAfter: DefaultStaleAfter, now: time.Now}
}

// Run は対象URLなしでジョブを実行します。
func (r *Runner) Run(ctx context.Context, name string, fn JobFunc) (*entity.Job, error) {
	return r.RunTarget(ctx, name, "", fn)
}

// RunTarget はジョブを1回実行し、完了した履歴行を返します。
// 同名のジョブが RUNNING の場合は ErrJobAlreadyRunning を返し、行を作りません。
func (r *Runner) RunTarget(ctx context.Context, name, target string, fn JobFunc) (*entity.Job, error) {
	if n, err := r.repo.FailStaleRunning(ctx, r.now().Add(-r.staleAfter), "stale run"); err != nil {
		return nil, fmt.Errorf("fail stale jobs: %w", err)
	} else if n > 0 {
		slog.Warn("marked stale batch jobs as failed", "count", n)
	}

	running, err := r.repo.ExistsRunning(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check running job: %w", err)
	}
	if running {
		slog.Warn("batch job skipped: already running", "job", name)
		return nil, ErrJobAlreadyRunning
	}

	job := &entity.Job{
		RunID:     uuid.NewString(),
		JobName:   name,
		TargetURL: target,
		Status:    entity.JobRunning,
		StartedAt: r.now(),
	}
	if err := r.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "batch."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("batch.job", name),
			attribute.String("batch.run_id", job.RunID),
		),
	)
	defer span.End()

	slog.Info("batch job started", "job", name, "run_id", job.RunID)

	res, runErr := invoke(ctx, fn)
	if runErr != nil {
		job.Fail(runErr.Error(), r.now())
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	} else {
		job.Complete(res.Success, res.Fail, r.now())
		span.SetAttributes(
			attribute.Int("batch.success", res.Success),
			attribute.Int("batch.fail", res.Fail),
		)
	}

	// 呼び出し元がキャンセル済みでも履歴は閉じる
	if err := r.repo.Update(context.WithoutCancel(ctx), job); err != nil {
		return job, errors.Join(runErr, fmt.Errorf("update job: %w", err))
	}

	elapsed := job.ExecutionTime()
	if runErr != nil {
		slog.Error("batch job failed",
			"job", name, "run_id", job.RunID, "duration", *elapsed, "error", runErr)
		return job, runErr
	}
	slog.Info("batch job completed",
		"job", name,
		"run_id", job.RunID,
		"success", job.SuccessCount,
		"fail", job.FailCount,
		"duration", *elapsed,
	)
	return job, nil
}

// invoke は fn の panic をエラーに変換します。
func invoke(ctx context.Context, fn JobFunc) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}
