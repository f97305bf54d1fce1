// Package usecase はダッシュボードの集計と表示用の整形を行います。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"invest_backend/internal/feature/dashboard/domain/entity"
	"invest_backend/internal/platform/cache"
	"invest_backend/internal/shared/money"
)

const (
	// RecentLimit は最近のアクティビティ・取引の表示件数です。
	RecentLimit = 10

	summaryKey = "summary"
)

// StatsRepository は集計クエリとスナップショットの永続化を抽象化します。
type StatsRepository interface {
	Counts(ctx context.Context) (entity.Stats, error)
	TotalCash(ctx context.Context) (decimal.Decimal, error)
	Positions(ctx context.Context) ([]entity.SymbolPosition, error)
	RecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error)
	SnapshotOnOrBefore(ctx context.Context, date time.Time) (*entity.Snapshot, error)
	UpsertSnapshot(ctx context.Context, s *entity.Snapshot) error
}

// ActivityReader は最近のアクティビティを返します。
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]entity.Activity, error)
}

type PriceProvider interface {
	LatestPrice(ctx context.Context, symbol string) (price decimal.Decimal, ok bool, err error)
}

// DashboardUsecase はダッシュボードのサマリーと日次スナップショットを提供します。
type DashboardUsecase struct {
	stats      StatsRepository
	activities ActivityReader
	prices     PriceProvider
	cache      *cache.Manager
	currency   string
	now        func() time.Time
}

// NewDashboardUsecase は DashboardUsecase を生成します。currency は総資産の表示通貨です。
func NewDashboardUsecase(stats StatsRepository, activities ActivityReader, prices PriceProvider, cm *cache.Manager, currency string) *DashboardUsecase {
	return &DashboardUsecase{
		stats:      stats,
		activities: activities,
		prices:     prices,
		cache:      cm,
		currency:   currency,
		now:        time.Now,
	}
}

// GetSummary はサマリーを marketSummary キャッシュ経由で返します。
func (u *DashboardUsecase) GetSummary(ctx context.Context) (*entity.Summary, error) {
	s, err := cache.ReadThrough(ctx, u.cache, cache.CacheMarketSummary, cache.Key(cache.CacheMarketSummary, summaryKey), u.buildSummary)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CurrentStats は現時点の集計値を計算します。総資産 = 現金合計 + Σ(保有数量 × 直近価格) です。
func (u *DashboardUsecase) CurrentStats(ctx context.Context) (entity.Stats, error) {
	s, err := u.stats.Counts(ctx)
	if err != nil {
		return s, fmt.Errorf("count stats: %w", err)
	}
	cash, err := u.stats.TotalCash(ctx)
	if err != nil {
		return s, fmt.Errorf("total cash: %w", err)
	}
	positions, err := u.stats.Positions(ctx)
	if err != nil {
		return s, fmt.Errorf("positions: %w", err)
	}

	total := cash
	for _, p := range positions {
		price, ok, err := u.prices.LatestPrice(ctx, p.Symbol)
		if err != nil {
			slog.Warn("price lookup failed, using cost basis", "symbol", p.Symbol, "error", err)
		}
		if err != nil || !ok {
			total = total.Add(p.Cost)
			continue
		}
		total = total.Add(p.Quantity.Mul(price))
	}
	s.TotalAssets = total.Round(4)
	return s, nil
}

// TakeSnapshot は date の集計値を保存し、サマリーのキャッシュを破棄します。
func (u *DashboardUsecase) TakeSnapshot(ctx context.Context, date time.Time) (*entity.Snapshot, error) {
	s, err := u.CurrentStats(ctx)
	if err != nil {
		return nil, err
	}
	snap := &entity.Snapshot{
		Date:            truncateDay(date),
		TotalAssets:     s.TotalAssets,
		TotalPortfolios: s.TotalPortfolios,
		ActiveOrders:    s.ActiveOrders,
		Clients:         s.Clients,
	}
	if err := u.stats.UpsertSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("upsert snapshot: %w", err)
	}
	if err := u.cache.EvictAll(ctx, cache.CacheMarketSummary); err != nil {
		slog.Warn("failed to evict summary cache", "error", err)
	}
	slog.Info("dashboard snapshot saved", "date", snap.Date.Format(time.DateOnly), "total_assets", snap.TotalAssets.String())
	return snap, nil
}

func (u *DashboardUsecase) buildSummary(ctx context.Context) (entity.Summary, error) {
	now := u.now()

	cur, err := u.CurrentStats(ctx)
	if err != nil {
		return entity.Summary{}, err
	}
	prev, err := u.stats.SnapshotOnOrBefore(ctx, truncateDay(now.AddDate(0, -1, 0)))
	if err != nil {
		return entity.Summary{}, fmt.Errorf("find snapshot: %w", err)
	}

	acts, err := u.activities.Recent(ctx, RecentLimit)
	if err != nil {
		return entity.Summary{}, fmt.Errorf("recent activities: %w", err)
	}
	orders, err := u.stats.RecentOrders(ctx, RecentLimit)
	if err != nil {
		return entity.Summary{}, fmt.Errorf("recent orders: %w", err)
	}

	out := entity.Summary{
		Stats:              u.statCards(cur, prev),
		RecentActivities:   make([]entity.ActivityItem, 0, len(acts)),
		RecentTransactions: make([]entity.TransactionItem, 0, len(orders)),
		GeneratedAt:        now.UTC().Format(time.RFC3339),
	}
	for _, a := range acts {
		out.RecentActivities = append(out.RecentActivities, entity.ActivityItem{
			Kind:        a.Kind,
			Title:       a.Title,
			Description: a.Description,
			Time:        RelativeTime(a.OccurredAt, now),
		})
	}
	for _, o := range orders {
		out.RecentTransactions = append(out.RecentTransactions, u.transactionItem(ctx, o))
	}
	return out, nil
}

func (u *DashboardUsecase) statCards(cur entity.Stats, prev *entity.Snapshot) []entity.StatCard {
	hasPrev := prev != nil
	if !hasPrev {
		prev = &entity.Snapshot{}
	}
	count := func(title string, v, p int64) entity.StatCard {
		return card(title, humanize.Comma(v), decimal.NewFromInt(v), decimal.NewFromInt(p), hasPrev)
	}
	return []entity.StatCard{
		card("Total Assets", money.Abbreviate(cur.TotalAssets, u.currency), cur.TotalAssets, prev.TotalAssets, hasPrev),
		count("Total Portfolios", cur.TotalPortfolios, prev.TotalPortfolios),
		count("Active Orders", cur.ActiveOrders, prev.ActiveOrders),
		count("Clients", cur.Clients, prev.Clients),
	}
}

// card は前月比付きの統計カードを作ります。比較対象が無い場合は "0.0%" です。
func card(title, display string, cur, prev decimal.Decimal, hasPrev bool) entity.StatCard {
	c := entity.StatCard{Title: title, Value: display, Raw: cur.String(), Change: money.FormatChange(nil), IsPositive: true}
	if !hasPrev {
		return c
	}
	if p := money.PercentChange(cur, prev); p != nil {
		c.Change = money.FormatChange(p)
		c.IsPositive = !p.IsNegative()
	}
	return c
}

func (u *DashboardUsecase) transactionItem(ctx context.Context, o entity.RecentOrder) entity.TransactionItem {
	item := entity.TransactionItem{
		OrderNo: o.OrderNo,
		Client:  o.ClientName,
		Asset:   o.Symbol,
		Type:    "Buy",
		Status:  displayStatus(o.Status),
	}
	if o.Side == "SELL" {
		item.Type = "Sell"
	}

	var price decimal.Decimal
	switch {
	case o.ExecutedPrice != nil:
		price = *o.ExecutedPrice
	case o.LimitPrice != nil:
		price = *o.LimitPrice
	default:
		last, ok, err := u.prices.LatestPrice(ctx, o.Symbol)
		if err != nil || !ok {
			item.Amount = "-"
			return item
		}
		price = last
	}
	item.Amount = money.Format(price.Mul(o.Quantity), o.Currency)
	return item
}

func displayStatus(s string) string {
	switch s {
	case "EXECUTED":
		return "Completed"
	case "PENDING":
		return "Pending"
	case "CANCELLED":
		return "Cancelled"
	case "REJECTED":
		return "Rejected"
	default:
		return s
	}
}

// RelativeTime は "5 minutes ago" 形式の相対時刻を返します。
func RelativeTime(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
