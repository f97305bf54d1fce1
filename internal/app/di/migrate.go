package di

import (
	"fmt"

	authadapters "invest_backend/internal/feature/auth/adapters"
	authentity "invest_backend/internal/feature/auth/domain/entity"
	batchentity "invest_backend/internal/feature/batch/domain/entity"
	candleadapters "invest_backend/internal/feature/candles/adapters"
	clientsentity "invest_backend/internal/feature/clients/domain/entity"
	crawlingentity "invest_backend/internal/feature/crawling/domain/entity"
	dashboardentity "invest_backend/internal/feature/dashboard/domain/entity"
	orderentity "invest_backend/internal/feature/orders/domain/entity"
	portfolioentity "invest_backend/internal/feature/portfolios/domain/entity"
	symbolentity "invest_backend/internal/feature/symbollist/domain/entity"

	"gorm.io/gorm"
)

// Models は AutoMigrate の対象モデルです。
func Models() []any {
	return []any{
		&authentity.User{},
		&authadapters.SessionModel{},
		&symbolentity.Symbol{},
		&candleadapters.CandleModel{},
		&clientsentity.Client{},
		&clientsentity.KYCRecord{},
		&portfolioentity.Portfolio{},
		&portfolioentity.Holding{},
		&orderentity.Order{},
		&orderentity.Transaction{},
		&dashboardentity.Activity{},
		&dashboardentity.Snapshot{},
		&batchentity.Job{},
		&crawlingentity.RawCrawledData{},
	}
}

// Migrate は全テーブルを AutoMigrate します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
