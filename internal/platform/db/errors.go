package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation は PostgreSQL の一意制約違反の SQLSTATE です。
const pgUniqueViolation = "23505"

// IsDuplicateKey は err が一意制約違反を表すかどうかを判定します。
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// TranslateError を使わない SQLite 接続向け
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
