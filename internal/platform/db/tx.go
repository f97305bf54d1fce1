package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager はコンテキストにトランザクションを載せて複数リポジトリの操作を束ねます。
type TxManager struct {
	db *gorm.DB
}

// NewTxManager は TxManager を生成します。
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx は fn をトランザクション内で実行します。fn がエラーを返すとロールバックされます。
// 既にトランザクション中のコンテキストで呼ばれた場合は外側のトランザクションに参加します。
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn はコンテキストにトランザクションがあればそれを、なければ fallback を返します。
// リポジトリ実装はクエリ発行時に必ずこの関数を経由します。
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
