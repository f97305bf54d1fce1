// Package dto はバッチ履歴 API のリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	"invest_backend/internal/feature/batch/domain/entity"
)

// ListJobsQuery は GET /api/v1/batch/jobs のクエリです。from/to は YYYY-MM-DD（to を含む）。
type ListJobsQuery struct {
	Name   string `form:"name" binding:"omitempty,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=RUNNING SUCCESS FAILED"`
	From   string `form:"from"`
	To     string `form:"to"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type JobResponse struct {
	ID                   uint       `json:"id"`
	RunID                string     `json:"run_id"`
	JobName              string     `json:"job_name"`
	TargetURL            string     `json:"target_url,omitempty"`
	Status               string     `json:"status"`
	StartedAt            time.Time  `json:"started_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	TotalCount           int        `json:"total_count"`
	SuccessCount         int        `json:"success_count"`
	FailCount            int        `json:"fail_count"`
	ErrorMessage         string     `json:"error_message,omitempty"`
	ExecutionTimeSeconds *float64   `json:"execution_time_seconds,omitempty"`
}

func NewJobResponse(j *entity.Job) JobResponse {
	res := JobResponse{
		ID:           j.ID,
		RunID:        j.RunID,
		JobName:      j.JobName,
		TargetURL:    j.TargetURL,
		Status:       string(j.Status),
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
		TotalCount:   j.TotalCount,
		SuccessCount: j.SuccessCount,
		FailCount:    j.FailCount,
		ErrorMessage: j.ErrorMessage,
	}
	if d := j.ExecutionTime(); d != nil {
		s := d.Seconds()
		res.ExecutionTimeSeconds = &s
	}
	return res
}

type JobStatsResponse struct {
	AverageSuccessRate *float64 `json:"average_success_rate"`
	TodayCount         int      `json:"today_count"`
	Running            []string `json:"running"`
}
