package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"invest_backend/internal/app/router"
	analysisgemini "invest_backend/internal/feature/analysis/adapters/gemini"
	analysishandler "invest_backend/internal/feature/analysis/transport/handler"
	analysisusecase "invest_backend/internal/feature/analysis/usecase"
	authadapters "invest_backend/internal/feature/auth/adapters"
	authhandler "invest_backend/internal/feature/auth/transport/handler"
	authusecase "invest_backend/internal/feature/auth/usecase"
	batchadapters "invest_backend/internal/feature/batch/adapters"
	batchhandler "invest_backend/internal/feature/batch/transport/handler"
	batchusecase "invest_backend/internal/feature/batch/usecase"
	candleadapters "invest_backend/internal/feature/candles/adapters"
	candlehandler "invest_backend/internal/feature/candles/transport/handler"
	candleusecase "invest_backend/internal/feature/candles/usecase"
	clientadapters "invest_backend/internal/feature/clients/adapters"
	"invest_backend/internal/feature/clients/adapters/vision"
	clienthandler "invest_backend/internal/feature/clients/transport/handler"
	clientusecase "invest_backend/internal/feature/clients/usecase"
	crawlingadapters "invest_backend/internal/feature/crawling/adapters"
	crawlinghandler "invest_backend/internal/feature/crawling/transport/handler"
	crawlingusecase "invest_backend/internal/feature/crawling/usecase"
	dashboardadapters "invest_backend/internal/feature/dashboard/adapters"
	dashboardhandler "invest_backend/internal/feature/dashboard/transport/handler"
	dashboardusecase "invest_backend/internal/feature/dashboard/usecase"
	orderadapters "invest_backend/internal/feature/orders/adapters"
	orderhandler "invest_backend/internal/feature/orders/transport/handler"
	orderusecase "invest_backend/internal/feature/orders/usecase"
	portfolioadapters "invest_backend/internal/feature/portfolios/adapters"
	portfoliohandler "invest_backend/internal/feature/portfolios/transport/handler"
	portfoliousecase "invest_backend/internal/feature/portfolios/usecase"
	symboladapters "invest_backend/internal/feature/symbollist/adapters"
	symbolhandler "invest_backend/internal/feature/symbollist/transport/handler"
	symbolusecase "invest_backend/internal/feature/symbollist/usecase"
	"invest_backend/internal/platform/cache"
	"invest_backend/internal/platform/db"
	"invest_backend/internal/platform/externalapi/twelvedata"
	platformhttp "invest_backend/internal/platform/http"
	statushandler "invest_backend/internal/platform/http/handler"
	jwtmw "invest_backend/internal/platform/jwt"
	"invest_backend/internal/platform/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infra はプロセスが所有する外部リソースです。Redis は nil の場合があります。
type Infra struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Cache    *cache.Manager
	Location *time.Location
}

// AuthService は handler が使う操作とセッション掃除ジョブを合わせたものです。
type AuthService interface {
	authhandler.AuthUsecase
	CleanupSessions(ctx context.Context) (int64, error)
}

// App は全フィーチャーの usecase を保持するコンテナです。
type App struct {
	cfg   Config
	jwt   jwtmw.Config
	infra Infra

	Auth      AuthService
	Symbols   *symbolusecase.SymbolUsecase
	Candles   candlehandler.CandlesUsecase
	Prices    *candleusecase.PriceUsecase
	Ingest    *candleusecase.IngestUsecase
	Clients   *clientusecase.ClientUsecase
	KYC       *clientusecase.KYCUsecase
	Portfolio *portfoliousecase.PortfolioUsecase
	Orders    *orderusecase.OrderUsecase
	Dashboard *dashboardusecase.DashboardUsecase
	Runner    *batchusecase.Runner
	JobQuery  *batchusecase.JobQueryUsecase
	Crawl     *crawlingusecase.CrawlUsecase
	// Analysis は AI_ENABLED=false または初期化失敗時に nil です。
	Analysis *analysisusecase.AnalysisUsecase

	symbolRepo symbolusecase.SymbolRepository
	closers    []func() error
}

// NewApp はリポジトリ・usecase を組み立てます。
// 外部AI（Gemini / Vision）の初期化に失敗した場合は WARN を出して該当機能を無効にします。
func NewApp(ctx context.Context, cfg Config, jwtCfg jwtmw.Config, marketCfg twelvedata.Config, infra Infra) (*App, error) {
	if infra.DB == nil {
		return nil, errors.New("di: database is required")
	}
	if infra.Cache == nil {
		infra.Cache = cache.NewManager(infra.Redis)
	}
	if infra.Location == nil {
		infra.Location = time.UTC
	}
	gdb := infra.DB
	tx := db.NewTxManager(gdb)
	a := &App{cfg: cfg, jwt: jwtCfg, infra: infra}

	// Repository
	users := authadapters.NewUserRepository(gdb)
	sessions := sessionStore(infra.Redis, gdb)
	symbols := symboladapters.NewSymbolRepository(gdb)
	candles := cache.NewCachingCandleRepository(infra.Cache, candleadapters.NewCandleRepository(gdb))
	clients := clientadapters.NewClientRepository(gdb)
	kycRecords := clientadapters.NewKYCRepository(gdb)
	portfolios := portfolioadapters.NewPortfolioRepository(gdb)
	orders := orderadapters.NewOrderRepository(gdb)
	transactions := orderadapters.NewTransactionRepository(gdb)
	activities := dashboardadapters.NewActivityRepository(gdb)
	stats := dashboardadapters.NewStatsRepository(gdb)
	jobs := batchadapters.NewJobRepository(gdb, infra.Location)
	rawData := crawlingadapters.NewRawDataRepository(gdb, infra.Location)
	a.symbolRepo = symbols

	// Usecase
	jwtGenerator := jwtmw.NewGenerator(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.AccessTTL)
	a.Auth = authusecase.NewAuthUsecase(users, sessions, jwtGenerator, jwtCfg.RefreshTTL)
	a.Symbols = symbolusecase.NewSymbolUsecase(symbols)
	a.Candles = candleusecase.NewCandlesUsecase(candles)
	a.Prices = candleusecase.NewPriceUsecase(candles, symbols)
	market, limiter := NewMarket(marketCfg)
	a.Ingest = candleusecase.NewIngestUsecase(market, candles, limiter)

	var reader clientusecase.DocumentReader
	if cfg.VisionEnabled {
		r, err := vision.NewDocumentReader(ctx)
		if err != nil {
			slog.Warn("vision document reader unavailable, KYC document attach disabled", "error", err)
		} else {
			reader = r
			a.closers = append(a.closers, r.Close)
		}
	}
	a.Clients = clientusecase.NewClientUsecase(clients, activities, tx)
	a.KYC = clientusecase.NewKYCUsecase(clients, kycRecords, reader, activities, tx)
	a.Portfolio = portfoliousecase.NewPortfolioUsecase(portfolios, clients, transactions, a.Prices, activities, tx)
	a.Orders = orderusecase.NewOrderUsecase(orders, transactions, portfolios, clients, symbols, a.Prices, activities, tx)
	a.Dashboard = dashboardusecase.NewDashboardUsecase(stats, activities, a.Prices, infra.Cache, cfg.DashboardCurrency)

	a.Runner = batchusecase.NewRunner(jobs)
	a.JobQuery = batchusecase.NewJobQueryUsecase(jobs)
	fetcher := crawlingadapters.NewHTTPFetcher(platformhttp.NewHTTPClient(cfg.CrawlTimeout, platformhttp.WithUserAgent(cfg.AppName+"/"+cfg.AppVersion)))
	a.Crawl = crawlingusecase.NewCrawlUsecase(rawData, fetcher, symbols)

	if cfg.AIEnabled {
		analyzer, err := analysisgemini.NewGeminiAnalyzer(ctx, cfg.GeminiModel)
		if err != nil {
			slog.Warn("gemini analyzer unavailable, stock analysis disabled", "error", err)
		} else {
			a.Analysis = analysisusecase.NewAnalysisUsecase(candles, analyzer)
		}
	}
	return a, nil
}

// Infra は組み立てに使った外部リソースを返します。
// sessionStore は Redis があれば Redis を、無ければ sessions テーブルを使います。
func sessionStore(rdb *redis.Client, gdb *gorm.DB) authusecase.SessionRepository {
	if rdb == nil {
		slog.Info("session store: database")
		return authadapters.NewSessionRepository(gdb)
	}
	slog.Info("session store: redis")
	return session.NewSessionRedis(rdb, "session")
}

func (a *App) Infra() Infra {
	return a.infra
}

// Handlers は HTTP ハンドラーを生成します。
func (a *App) Handlers() router.Handlers {
	checks := []statushandler.Check{{
		Name: "database",
		Fn: func(ctx context.Context) error {
			sqlDB, err := a.infra.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if a.infra.Redis != nil {
		checks = append(checks, statushandler.Check{
			Name: "redis",
			Fn:   func(ctx context.Context) error { return a.infra.Redis.Ping(ctx).Err() },
		})
	}

	h := router.Handlers{
		Status:    statushandler.NewStatusHandler(statushandler.AppInfo{Name: a.cfg.AppName, Version: a.cfg.AppVersion, Environment: a.cfg.AppEnv}, checks...),
		Auth:      authhandler.NewAuthHandler(a.Auth),
		Symbols:   symbolhandler.NewSymbolHandler(a.Symbols),
		Candles:   candlehandler.NewCandlesHandler(a.Candles),
		Stocks:    candlehandler.NewStockHandler(a.Prices),
		Clients:   clienthandler.NewClientHandler(a.Clients, a.KYC),
		Portfolio: portfoliohandler.NewPortfolioHandler(a.Portfolio),
		Orders:    orderhandler.NewOrderHandler(a.Orders),
		Dashboard: dashboardhandler.NewDashboardHandler(a.Dashboard),
		Jobs:      batchhandler.NewJobHandler(a.JobQuery),
		Crawling:  crawlinghandler.NewCrawlingHandler(a.Crawl),
	}
	if a.Analysis != nil {
		h.Analysis = analysishandler.NewAnalysisHandler(a.Analysis)
	}
	return h
}

// JWTSecret は AuthRequired ミドルウェアに渡す署名鍵です。
func (a *App) JWTSecret() string {
	return a.jwt.Secret
}

// Close は外部AIクライアントを閉じます。DB と Redis は呼び出し側が閉じます。
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
