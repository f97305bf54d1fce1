// Package router は HTTP ルーティングを定義します。
package router

import (
	"log/slog"

	analysishandler "invest_backend/internal/feature/analysis/transport/handler"
	authhandler "invest_backend/internal/feature/auth/transport/handler"
	batchhandler "invest_backend/internal/feature/batch/transport/handler"
	candlehandler "invest_backend/internal/feature/candles/transport/handler"
	clienthandler "invest_backend/internal/feature/clients/transport/handler"
	crawlinghandler "invest_backend/internal/feature/crawling/transport/handler"
	dashboardhandler "invest_backend/internal/feature/dashboard/transport/handler"
	orderhandler "invest_backend/internal/feature/orders/transport/handler"
	portfoliohandler "invest_backend/internal/feature/portfolios/transport/handler"
	symbolhandler "invest_backend/internal/feature/symbollist/transport/handler"
	"invest_backend/internal/platform/http/handler"
	"invest_backend/internal/platform/http/middleware"
	jwtmw "invest_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handlers はルーターに登録するハンドラーの一覧です。Analysis は nil の場合ルートを登録しません。
type Handlers struct {
	Status    *handler.StatusHandler
	Auth      *authhandler.AuthHandler
	Symbols   *symbolhandler.SymbolHandler
	Candles   *candlehandler.CandlesHandler
	Stocks    *candlehandler.StockHandler
	Clients   *clienthandler.ClientHandler
	Portfolio *portfoliohandler.PortfolioHandler
	Orders    *orderhandler.OrderHandler
	Dashboard *dashboardhandler.DashboardHandler
	Jobs      *batchhandler.JobHandler
	Crawling  *crawlinghandler.CrawlingHandler
	Analysis  *analysishandler.AnalysisHandler
}

// NewRouter は gin エンジンを組み立てます。
func NewRouter(h Handlers, jwtSecret, serviceName string, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(serviceName), middleware.AccessLog(logger))

	// 認証不要
	r.GET("/", h.Status.Root)
	r.GET("/healthz", h.Status.Liveness)
	r.HEAD("/healthz", h.Status.Liveness)
	r.GET("/api/v1/health", h.Status.Health)
	r.GET("/api/v1/health/ready", h.Status.Ready)

	r.POST("/signup", h.Auth.Signup)
	r.POST("/login", h.Auth.Login)
	r.POST("/refresh", h.Auth.Refresh)
	r.POST("/logout", h.Auth.Logout)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.GET("/candles/:code", h.Candles.GetCandlesHandler)
		auth.GET("/symbols", h.Symbols.List)
	}

	v1 := r.Group("/api/v1")
	v1.Use(jwtmw.AuthRequired(jwtSecret))
	{
		v1.POST("/symbols", h.Symbols.Register)
		v1.POST("/stocks/price", h.Stocks.GetPrice)
		if h.Analysis != nil {
			v1.POST("/stocks/analysis", h.Analysis.Analyze)
		}

		v1.POST("/clients", h.Clients.Create)
		v1.GET("/clients", h.Clients.List)
		v1.GET("/clients/:id", h.Clients.Get)
		v1.POST("/clients/:id/kyc", h.Clients.SubmitKYC)
		v1.GET("/clients/:id/kyc", h.Clients.ListKYC)
		v1.POST("/kyc/:id/document", h.Clients.AttachDocument)
		v1.POST("/kyc/:id/approve", h.Clients.Approve)
		v1.POST("/kyc/:id/reject", h.Clients.Reject)

		v1.POST("/portfolios", h.Portfolio.Create)
		v1.GET("/portfolios", h.Portfolio.List)
		v1.GET("/portfolios/:id", h.Portfolio.Get)
		v1.POST("/portfolios/:id/deposit", h.Portfolio.Deposit)
		v1.POST("/portfolios/:id/withdraw", h.Portfolio.Withdraw)

		v1.POST("/orders", h.Orders.Place)
		v1.GET("/orders", h.Orders.List)
		v1.GET("/orders/:id", h.Orders.Get)
		v1.POST("/orders/:id/cancel", h.Orders.Cancel)
		v1.GET("/transactions", h.Orders.ListTransactions)

		v1.GET("/dashboard/summary", h.Dashboard.Summary)

		v1.GET("/batch/jobs", h.Jobs.List)
		v1.GET("/batch/jobs/latest", h.Jobs.Latest)
		v1.GET("/batch/jobs/stats", h.Jobs.Stats)

		v1.GET("/crawling/data", h.Crawling.List)
		v1.GET("/crawling/stats", h.Crawling.Stats)
	}

	return r
}
