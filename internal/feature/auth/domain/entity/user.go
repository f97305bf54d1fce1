// Package entity はauthフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// User はバックオフィスにログインする運用ユーザーです。
type User struct {
	ID uint `gorm:"primaryKey"`

	// Email はログインに使うメールアドレスです。全ユーザーで一意です。
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password は bcrypt ハッシュです。平文は保存しません。
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
