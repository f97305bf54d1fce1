// Package domain は crawling フィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	ErrRawDataNotFound      = errors.New("crawled data not found")
	ErrRawDataAlreadyExists = errors.New("crawled data already exists")
)
