// Package handler はバッチ履歴 API のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/batch/domain/entity"
	"invest_backend/internal/feature/batch/transport/http/dto"
	"invest_backend/internal/feature/batch/usecase"

	"github.com/gin-gonic/gin"
)

// JobUsecase はバッチ履歴の参照ユースケースです。
type JobUsecase interface {
	ListJobs(ctx context.Context, f usecase.JobFilter) ([]entity.Job, error)
	Latest(ctx context.Context, name string) (*entity.Job, error)
	Stats(ctx context.Context) (*usecase.JobStats, error)
}

type JobHandler struct {
	uc JobUsecase
}

func NewJobHandler(uc JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// List は GET /api/v1/batch/jobs?name=&status=&from=&to= を処理します。
func (h *JobHandler) List(c *gin.Context) {
	var q dto.ListJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query", Details: map[string]any{"error": err.Error()}})
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

	f := usecase.JobFilter{Name: q.Name, Status: entity.JobStatus(q.Status), Limit: q.Limit}
	if from != nil {
		f.From = &from.Time
	}
	if to != nil {
		end := to.Time.Add(24 * time.Hour)
		f.To = &end
	}

	jobs, err := h.uc.ListJobs(c.Request.Context(), f)
	if err != nil {
		slog.Error("failed to list batch jobs", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list batch jobs"})
		return
	}
	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, dto.NewJobResponse(&jobs[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Latest は GET /api/v1/batch/jobs/latest?name= を処理します。
func (h *JobHandler) Latest(c *gin.Context) {
	j, err := h.uc.Latest(c.Request.Context(), c.Query("name"))
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to get latest batch job", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get latest batch job"})
		return
	}
	c.JSON(http.StatusOK, dto.NewJobResponse(j))
}

// Stats は GET /api/v1/batch/jobs/stats を処理します。
func (h *JobHandler) Stats(c *gin.Context) {
	st, err := h.uc.Stats(c.Request.Context())
	if err != nil {
		slog.Error("failed to aggregate batch jobs", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to aggregate batch jobs"})
		return
	}
	c.JSON(http.StatusOK, dto.JobStatsResponse{
		AverageSuccessRate: st.AverageSuccessRate,
		TodayCount:         st.TodayCount,
		Running:            st.Running,
	})
}
