package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	clientusecase "invest_backend/internal/feature/clients/usecase"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"

	"github.com/shopspring/decimal"
)

// SeedResult は seed で新規作成した件数です。既存データはスキップします。
type SeedResult struct {
	Symbols    int
	Clients    int
	Portfolios int
}

var seedSymbols = []symbolentity.Symbol{
	{Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", Currency: "USD", IsActive: true, SortKey: 1},
	{Code: "TSLA", Name: "Tesla, Inc.", Market: "NASDAQ", Currency: "USD", IsActive: true, SortKey: 2},
	{Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ", Currency: "USD", IsActive: true, SortKey: 3},
	{Code: "005930.KS", Name: "Samsung Electronics", Market: "KRX", Currency: "KRW", IsActive: true, SortKey: 4},
}

var seedClients = []struct {
	name, email, phone string
	deposit            int64
}{
	{"John Doe", "john.doe@example.com", "010-1234-5678", 50_000_000},
	{"Jane Smith", "jane.smith@example.com", "010-2345-6789", 30_000_000},
	{"Mike Johnson", "mike.johnson@example.com", "010-3456-7890", 10_000_000},
}

// Seed はデモ用の銘柄・顧客・ポートフォリオを投入します。
func (a *App) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	for _, s := range seedSymbols {
		if _, err := a.Symbols.RegisterSymbol(ctx, s); err != nil {
			return res, fmt.Errorf("seed symbol %s: %w", s.Code, err)
		}
		res.Symbols++
	}

	for _, sc := range seedClients {
		c, err := a.Clients.CreateClient(ctx, sc.name, sc.email, sc.phone)
		if errors.Is(err, clientusecase.ErrClientAlreadyExists) {
			slog.Info("seed client already exists", "email", sc.email)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed client %s: %w", sc.email, err)
		}
		res.Clients++

		p, err := a.Portfolio.CreatePortfolio(ctx, c.ID, sc.name+" Main", "KRW")
		if err != nil {
			return res, fmt.Errorf("seed portfolio for %s: %w", sc.email, err)
		}
		if _, err := a.Portfolio.Deposit(ctx, p.ID, decimal.NewFromInt(sc.deposit)); err != nil {
			return res, fmt.Errorf("seed deposit for %s: %w", sc.email, err)
		}
		res.Portfolios++
	}
	slog.Info("seed finished", "symbols", res.Symbols, "clients", res.Clients, "portfolios", res.Portfolios)
	return res, nil
}
