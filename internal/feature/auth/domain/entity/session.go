package entity

import "time"

// Session はリフレッシュトークンに対応する認証セッションです。
// トークン管理と監査のためにクライアント情報を保持します。
type Session struct {
	ID        string     // リフレッシュトークン値（64文字の16進文字列）
	UserID    uint       // 所有ユーザーID
	UserAgent string     // クライアントの User-Agent
	IPAddress string     // クライアントのIPアドレス
	CreatedAt time.Time  // 作成日時
	ExpiresAt time.Time  // 有効期限
	RevokedAt *time.Time // 失効日時（有効な間は nil）
}

// IsExpired は有効期限を過ぎているかを返します。
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked は失効済みかを返します。
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid は期限切れでも失効済みでもない場合に true を返します。
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

// SessionMeta はログイン・リフレッシュ時のクライアント情報です。
type SessionMeta struct {
	UserAgent string
	IPAddress string
}
