package di

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invest_backend/internal/feature/batch/domain/entity"
	batchusecase "invest_backend/internal/feature/batch/usecase"
	"invest_backend/internal/platform/scheduler"
)

// ジョブ名
const (
	JobMarketIngest      = "DAILY_MARKET_INGEST"
	JobOrderExecution    = "ORDER_EXECUTION"
	JobNewsCrawling      = "DAILY_NEWS_CRAWLING"
	JobRawDataProcessing = "RAW_DATA_PROCESSING"
	JobSessionCleanup    = "SESSION_CLEANUP"
	JobDashboardSnapshot = "DASHBOARD_SNAPSHOT"
)

// Job はスケジュール登録するバッチ処理の定義です。
type Job struct {
	Name   string
	Spec   string
	Target string
	Fn     batchusecase.JobFunc
}

// Jobs は登録対象のジョブを返します。
func (a *App) Jobs() []Job {
	b := a.cfg.Batch
	return []Job{
		{Name: JobMarketIngest, Spec: b.MarketIngestSchedule, Fn: a.ingestMarket},
		{Name: JobOrderExecution, Spec: b.OrderExecSchedule, Fn: a.executeOrders},
		{Name: JobNewsCrawling, Spec: b.NewsCrawlSchedule, Target: crawlTarget(a.cfg.CrawlTargetURLs), Fn: a.crawlNews},
		{Name: JobRawDataProcessing, Spec: b.RawDataSchedule, Fn: a.processRawData},
		{Name: JobSessionCleanup, Spec: b.SessionSchedule, Fn: a.cleanupSessions},
		{Name: JobDashboardSnapshot, Spec: b.SnapshotSchedule, Fn: a.takeSnapshot},
	}
}

// FindJob は名前からジョブを探します。
func (a *App) FindJob(name string) (Job, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, j := range a.Jobs() {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

// ExecJob はジョブを1回だけ Runner 経由で実行します。
func (a *App) ExecJob(ctx context.Context, j Job) (*entity.Job, error) {
	return a.Runner.RunTarget(ctx, j.Name, j.Target, j.Fn)
}

// RegisterJobs は全ジョブを Runner 経由でスケジューラーに登録します。
func (a *App) RegisterJobs(s *scheduler.Scheduler) error {
	for _, j := range a.Jobs() {
		if err := s.Register(j.Name, j.Spec, func(ctx context.Context) error {
			_, err := a.ExecJob(ctx, j)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) ingestMarket(ctx context.Context) (batchusecase.Result, error) {
	codes, err := a.symbolRepo.ListActiveCodes(ctx)
	if err != nil {
		return batchusecase.Result{}, fmt.Errorf("list active symbols: %w", err)
	}
	res, err := a.Ingest.IngestAll(ctx, codes)
	return batchusecase.Result{Success: res.Success, Fail: res.Fail}, err
}

func (a *App) executeOrders(ctx context.Context) (batchusecase.Result, error) {
	res, err := a.Orders.ExecutePending(ctx)
	return batchusecase.Result{Success: res.Success, Fail: res.Fail}, err
}

func (a *App) crawlNews(ctx context.Context) (batchusecase.Result, error) {
	if len(a.cfg.CrawlTargetURLs) == 0 {
		slog.Info("no crawl targets configured")
		return batchusecase.Result{}, nil
	}
	res, err := a.Crawl.Crawl(ctx, a.cfg.CrawlTargetURLs)
	return batchusecase.Result{Success: res.Success, Fail: res.Fail}, err
}

func (a *App) processRawData(ctx context.Context) (batchusecase.Result, error) {
	res, err := a.Crawl.ProcessPending(ctx, a.cfg.Batch.RawDataBatchSize)
	return batchusecase.Result{Success: res.Success, Fail: res.Fail}, err
}

func (a *App) cleanupSessions(ctx context.Context) (batchusecase.Result, error) {
	n, err := a.Auth.CleanupSessions(ctx)
	return batchusecase.Result{Success: int(n)}, err
}

func (a *App) takeSnapshot(ctx context.Context) (batchusecase.Result, error) {
	if _, err := a.Dashboard.TakeSnapshot(ctx, time.Now().In(a.infra.Location)); err != nil {
		return batchusecase.Result{Fail: 1}, err
	}
	return batchusecase.Result{Success: 1}, nil
}

// crawlTarget は job 履歴の target_url 列に収まるよう URL を連結します。
func crawlTarget(urls []string) string {
	return entity.TruncateTargetURL(strings.Join(urls, ","))
}
