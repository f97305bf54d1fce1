package usecase

import "errors"

var (
	// ErrUserNotFound はメールアドレスまたはIDでユーザーが見つからないことを示します。
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists は既に登録済みのメールアドレスでの登録を示します。
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrWeakPassword はパスワードが要件を満たさないことを示します。
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrInvalidCredentials はメールアドレスまたはパスワードの誤りを示します。
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotFound はセッションが存在しないことを示します。
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked は失効済みセッションの利用を示します。
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired は期限切れセッションの利用を示します。
	ErrSessionExpired = errors.New("session has expired")

	// ErrInvalidRefreshToken はリフレッシュトークンが不正であることを示します。
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
