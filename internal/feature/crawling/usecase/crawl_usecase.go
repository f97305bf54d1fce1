// Package usecase はクローリング（取得・加工）のユースケースを提供します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invest_backend/internal/feature/crawling/domain"
	"invest_backend/internal/feature/crawling/domain/entity"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"
)

const (
	// MaxBodyBytes を超える本文は切り捨てます。
	MaxBodyBytes = 5 << 20

	DefaultProcessLimit = 100
	// StalePendingAfter を過ぎても PENDING の行は WARN で報告します。
	StalePendingAfter = 24 * time.Hour
)

// RawDataRepository は原本データの永続化を表します。
type RawDataRepository interface {
	Create(ctx context.Context, d *entity.RawCrawledData) error
	Update(ctx context.Context, d *entity.RawCrawledData) error
	FindBySourceURL(ctx context.Context, url string) (*entity.RawCrawledData, error)
	ExistsBySourceURL(ctx context.Context, url string) (bool, error)
	FindByStatus(ctx context.Context, status entity.Status, limit int) ([]entity.RawCrawledData, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]entity.RawCrawledData, error)
	CountByStatus(ctx context.Context, status entity.Status) (int64, error)
	FindOldPending(ctx context.Context, status entity.Status, threshold time.Time) ([]entity.RawCrawledData, error)
	FindToday(ctx context.Context) ([]entity.RawCrawledData, error)
}

// Page は1回の取得結果です。
type Page struct {
	StatusCode  int
	ContentType string
	Body        string
}

// Fetcher は URL の本文を取得します。
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// SymbolLister は照合対象の有効銘柄を返します。
type SymbolLister interface {
	ListActive(ctx context.Context) ([]symbolentity.Symbol, error)
}

// Result は Crawl / ProcessPending の件数です。
type Result struct {
	Success int
	Fail    int
	Skipped int
}

// Stats は GET /crawling/stats の集計値です。
type Stats struct {
	ByStatus   map[entity.Status]int64
	TodayCount int
}

type CrawlUsecase struct {
	repo    RawDataRepository
	fetcher Fetcher
	symbols SymbolLister
	now     func() time.Time
}

func NewCrawlUsecase(repo RawDataRepository, fetcher Fetcher, symbols SymbolLister) *CrawlUsecase {
	return &CrawlUsecase{repo: repo, fetcher: fetcher, symbols: symbols, now: time.Now}
}

// Crawl は各 URL を取得して PENDING で保存します。保存済みの URL はスキップします。
func (u *CrawlUsecase) Crawl(ctx context.Context, urls []string) (Result, error) {
	var res Result
	for _, raw := range urls {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}

		exists, err := u.repo.ExistsBySourceURL(ctx, url)
		if err != nil {
			return res, fmt.Errorf("check %s: %w", url, err)
		}
		if exists {
			slog.Debug("crawl skipped: already stored", "url", url)
			res.Skipped++
			continue
		}

		page, err := u.fetcher.Fetch(ctx, url)
		if err != nil {
			slog.Warn("crawl fetch failed", "url", url, "error", err)
			res.Fail++
			continue
		}
		if page.StatusCode >= 400 {
			slog.Warn("crawl fetch returned error status", "url", url, "status", page.StatusCode)
			res.Fail++
			continue
		}

		ct := DetectContentType(page.ContentType)
		d := &entity.RawCrawledData{
			SourceURL:   url,
			Content:     page.Body,
			ContentType: ct,
			Status:      entity.StatusPending,
			CrawledAt:   u.now(),
		}
		if ct == entity.ContentHTML {
			d.Title = entity.Truncate(ExtractTitle(page.Body), entity.MaxTitleLength)
		}
		if err := u.repo.Create(ctx, d); err != nil {
			if errors.Is(err, domain.ErrRawDataAlreadyExists) {
				res.Skipped++
				continue
			}
			slog.Error("failed to store crawled data", "url", url, "error", err)
			res.Fail++
			continue
		}
		res.Success++
	}
	slog.Info("crawl finished", "success", res.Success, "fail", res.Fail, "skipped", res.Skipped)
	return res, nil
}

// ProcessPending は古い順に最大 limit 件の PENDING 行からテキストと銘柄を抽出します。
func (u *CrawlUsecase) ProcessPending(ctx context.Context, limit int) (Result, error) {
	if limit <= 0 {
		limit = DefaultProcessLimit
	}
	var res Result

	old, err := u.repo.FindOldPending(ctx, entity.StatusPending, u.now().Add(-StalePendingAfter))
	if err != nil {
		return res, fmt.Errorf("find old pending: %w", err)
	}
	if len(old) > 0 {
		slog.Warn("crawled data pending for over 24h", "count", len(old), "oldest_url", old[0].SourceURL)
	}

	rows, err := u.repo.FindByStatus(ctx, entity.StatusPending, limit)
	if err != nil {
		return res, fmt.Errorf("find pending: %w", err)
	}
	if len(rows) == 0 {
		return res, nil
	}

	symbols, err := u.symbols.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("list symbols: %w", err)
	}
	matchers := newSymbolMatchers(symbols)

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if u.process(ctx, &rows[i], matchers) {
			res.Success++
		} else {
			res.Fail++
		}
	}
	slog.Info("crawled data processed", "success", res.Success, "fail", res.Fail)
	return res, nil
}

func (u *CrawlUsecase) process(ctx context.Context, d *entity.RawCrawledData, matchers []symbolMatcher) bool {
	d.MarkAsProcessing()
	if err := u.repo.Update(ctx, d); err != nil {
		slog.Error("failed to mark crawled data processing", "id", d.ID, "error", err)
		return false
	}

	text := ExtractText(d.ContentType, d.Content)
	if text == "" {
		d.MarkAsFailed("empty content")
		if err := u.repo.Update(ctx, d); err != nil {
			slog.Error("failed to mark crawled data failed", "id", d.ID, "error", err)
		}
		return false
	}

	codes := matchSymbols(matchers, text)
	d.MarkAsProcessed(entity.Truncate(strings.Join(codes, ","), 500), u.now())
	if err := u.repo.Update(ctx, d); err != nil {
		slog.Error("failed to mark crawled data processed", "id", d.ID, "error", err)
		return false
	}
	return true
}

// List は status 指定時はその状態の行を、未指定時は今日取得した行を返します。
func (u *CrawlUsecase) List(ctx context.Context, status entity.Status, limit int) ([]entity.RawCrawledData, error) {
	if status != "" {
		return u.repo.FindByStatus(ctx, status, limit)
	}
	return u.repo.FindToday(ctx)
}

// Get は URL で1件取得します。
func (u *CrawlUsecase) Get(ctx context.Context, url string) (*entity.RawCrawledData, error) {
	return u.repo.FindBySourceURL(ctx, url)
}

// Between は取得時刻が [from, to) の行を返します。
func (u *CrawlUsecase) Between(ctx context.Context, from, to time.Time) ([]entity.RawCrawledData, error) {
	return u.repo.FindBetween(ctx, from, to)
}

func (u *CrawlUsecase) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByStatus: make(map[entity.Status]int64, len(entity.Statuses))}
	for _, s := range entity.Statuses {
		n, err := u.repo.CountByStatus(ctx, s)
		if err != nil {
			return nil, err
		}
		st.ByStatus[s] = n
	}
	today, err := u.repo.FindToday(ctx)
	if err != nil {
		return nil, err
	}
	st.TodayCount = len(today)
	return st, nil
}
