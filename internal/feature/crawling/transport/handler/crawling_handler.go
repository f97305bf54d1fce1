// Package handler はクローリング API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/crawling/domain"
	"invest_backend/internal/feature/crawling/domain/entity"
	"invest_backend/internal/feature/crawling/transport/http/dto"
	"invest_backend/internal/feature/crawling/usecase"

	"github.com/gin-gonic/gin"
)

// CrawlingUsecase はクローリング結果の参照ユースケースです。
type CrawlingUsecase interface {
	List(ctx context.Context, status entity.Status, limit int) ([]entity.RawCrawledData, error)
	Get(ctx context.Context, url string) (*entity.RawCrawledData, error)
	Between(ctx context.Context, from, to time.Time) ([]entity.RawCrawledData, error)
	Stats(ctx context.Context) (*usecase.Stats, error)
}

type CrawlingHandler struct {
	uc CrawlingUsecase
}

func NewCrawlingHandler(uc CrawlingUsecase) *CrawlingHandler {
	return &CrawlingHandler{uc: uc}
}

func toResponse(d *entity.RawCrawledData) dto.RawDataResponse {
	symbols := []string{}
	if d.Symbols != "" {
		symbols = strings.Split(d.Symbols, ",")
	}
	return dto.NewRawDataResponse(d, symbols)
}

// List は GET /api/v1/crawling/data を処理します。
// url 指定時は1件、from/to 指定時は期間、それ以外は status（未指定なら今日分）で返します。
func (h *CrawlingHandler) List(c *gin.Context) {
	var q dto.ListRawDataQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query", Details: map[string]any{"error": err.Error()}})
		return
	}
	ctx := c.Request.Context()

	if q.URL != "" {
		d, err := h.uc.Get(ctx, q.URL)
		if err != nil {
			if errors.Is(err, domain.ErrRawDataNotFound) {
				c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
				return
			}
			h.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, []dto.RawDataResponse{toResponse(d)})
		return
	}

	from, err := api.ParseDate(q.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from date"})
		return
	}
	to, err := api.ParseDate(q.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid to date"})
		return
	}

	var rows []entity.RawCrawledData
	if from != nil || to != nil {
		start, end := time.Time{}, time.Now()
		if from != nil {
			start = from.Time
		}
		if to != nil {
			end = to.Time.Add(24 * time.Hour)
		}
		rows, err = h.uc.Between(ctx, start, end)
	} else {
		rows, err = h.uc.List(ctx, entity.Status(q.Status), q.Limit)
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	out := make([]dto.RawDataResponse, 0, len(rows))
	for i := range rows {
		if q.Status != "" && rows[i].Status != entity.Status(q.Status) {
			continue
		}
		out = append(out, toResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Stats は GET /api/v1/crawling/stats を処理します。
func (h *CrawlingHandler) Stats(c *gin.Context) {
	st, err := h.uc.Stats(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	res := dto.CrawlStatsResponse{
		Pending:    st.ByStatus[entity.StatusPending],
		Processing: st.ByStatus[entity.StatusProcessing],
		Processed:  st.ByStatus[entity.StatusProcessed],
		Failed:     st.ByStatus[entity.StatusFailed],
		TodayCount: st.TodayCount,
	}
	res.Total = res.Pending + res.Processing + res.Processed + res.Failed
	c.JSON(http.StatusOK, res)
}

func (h *CrawlingHandler) internalError(c *gin.Context, err error) {
	slog.Error("crawling request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
}
