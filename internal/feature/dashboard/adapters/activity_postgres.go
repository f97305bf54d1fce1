// Package adapters は dashboard フィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"invest_backend/internal/feature/dashboard/domain/entity"
	"invest_backend/internal/platform/db"
)

type activityPostgres struct {
	db  *gorm.DB
	now func() time.Time
}

// NewActivityRepository はアクティビティの記録・参照を行うリポジトリを生成します。
// 各フィーチャーの ActivityRecorder としてそのまま渡せます。
func NewActivityRepository(gdb *gorm.DB) *activityPostgres {
	return &activityPostgres{db: gdb, now: time.Now}
}

// Record はアクティビティを1件追加します。呼び出し元のトランザクションに参加します。
func (r *activityPostgres) Record(ctx context.Context, kind, title, description string) error {
	return db.Conn(ctx, r.db).Create(&entity.Activity{
		Kind:        kind,
		Title:       title,
		Description: description,
		OccurredAt:  r.now(),
	}).Error
}

func (r *activityPostgres) Recent(ctx context.Context, limit int) ([]entity.Activity, error) {
	var out []entity.Activity
	err := db.Conn(ctx, r.db).Order("occurred_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}
