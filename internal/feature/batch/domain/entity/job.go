// Package entity は batch フィーチャー（ジョブ実行履歴）のドメインモデルを定義します。
package entity

import (
	"time"
	"unicode/utf8"
)

// JobStatus はジョブ実行の状態です。
type JobStatus string

const (
	JobRunning JobStatus = "RUNNING"
	JobSuccess JobStatus = "SUCCESS"
	JobFailed  JobStatus = "FAILED"
)

// MaxErrorMessageLength は ErrorMessage に保存する最大文字数です。
const MaxErrorMessageLength = 2000

// MaxTargetURLLength は TargetURL 列の最大文字数です。
const MaxTargetURLLength = 2048

// Job はバッチジョブ1回分の実行履歴です。
type Job struct {
	ID           uint      `gorm:"primaryKey"`
	RunID        string    `gorm:"size:36;uniqueIndex;not null"`
	JobName      string    `gorm:"size:100;not null;index"`
	TargetURL    string    `gorm:"size:2048"`
	Status       JobStatus `gorm:"size:20;not null;index"`
	StartedAt    time.Time `gorm:"not null;index"`
	CompletedAt  *time.Time
	TotalCount   int    `gorm:"not null;default:0"`
	SuccessCount int    `gorm:"not null;default:0"`
	FailCount    int    `gorm:"not null;default:0"`
	ErrorMessage string `gorm:"size:2000"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Job) TableName() string { return "batch_jobs" }

// Complete は成功として完了させます。合計件数は success+fail です。
func (j *Job) Complete(success, fail int, at time.Time) {
	j.Status = JobSuccess
	j.CompletedAt = &at
	j.SuccessCount = success
	j.FailCount = fail
	j.TotalCount = success + fail
}

// Fail は失敗として完了させます。メッセージは MaxErrorMessageLength 文字で切り詰めます。
func (j *Job) Fail(msg string, at time.Time) {
	j.Status = JobFailed
	j.CompletedAt = &at
	j.ErrorMessage = truncate(msg, MaxErrorMessageLength)
}

func (j *Job) IsRunning() bool { return j.Status == JobRunning }

func (j *Job) IsSuccess() bool { return j.Status == JobSuccess }

// ExecutionTime は実行時間を返します。未完了の場合は nil です。
func (j *Job) ExecutionTime() *time.Duration {
	if j.CompletedAt == nil {
		return nil
	}
	d := j.CompletedAt.Sub(j.StartedAt)
	return &d
}

// TruncateTargetURL は s を TargetURL 列に収まる長さに切り詰めます。
func TruncateTargetURL(s string) string {
	return truncate(s, MaxTargetURLLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
