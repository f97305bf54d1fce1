package usecase

import (
	"context"
	"log/slog"

	"invest_backend/internal/feature/candles/domain/entity"
	"invest_backend/internal/shared/ratelimiter"
)

// ingestOutputSize は1リクエストで取得する本数です。
const ingestOutputSize = 200

// MarketRepository は株価データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// IngestResult は IngestAll の処理件数です。銘柄×時間足の単位で数えます。
type IngestResult struct {
	Success int
	Fail    int
}

// IngestUsecase は外部APIからデータを取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	market      MarketRepository
	candle      CandleRepository
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, candle CandleRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{market: market, candle: candle, rateLimiter: rateLimiter}
}

// ingestOne は指定された銘柄と時間足の時系列データを外部リポジトリから取得し、
// データベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol, interval string, outputsize int) error {
	cs, err := iu.market.GetTimeSeries(ctx, symbol, interval, outputsize)
	if err != nil {
		return err
	}

	// 取得したデータに銘柄コードと時間足を設定
	for i := range cs {
		cs[i].Symbol = symbol
		cs[i].Interval = interval
	}
	return iu.candle.UpsertBatch(ctx, cs)
}

// IngestAll は全銘柄の日足・週足・月足を取得して永続化します。
// 各リクエストの前にレートリミッターで待機し、1件の失敗では処理を止めません。
// ctx がキャンセルされた場合はそれまでの件数とエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestResult, error) {
	var res IngestResult
	for _, s := range symbols {
		for _, interval := range Intervals {
			if err := iu.rateLimiter.Wait(ctx); err != nil {
				return res, err
			}
			if err := iu.ingestOne(ctx, s, interval, ingestOutputSize); err != nil {
				slog.Error("failed to ingest data", "symbol", s, "interval", interval, "error", err)
				res.Fail++
				continue
			}
			res.Success++
		}
	}
	slog.Info("ingest finished", "symbols", len(symbols), "success", res.Success, "fail", res.Fail)
	return res, nil
}
