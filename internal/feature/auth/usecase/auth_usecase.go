// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invest_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
	// MaxSessionsPerUser はユーザーごとの有効セッション上限です。超えた場合は古い順に削除します。
	MaxSessionsPerUser = 5
	// refreshTokenBytes はリフレッシュトークンのバイト長です（16進で64文字）。
	refreshTokenBytes = 32
	// tokenType はアクセストークンの種別です。
	tokenType = "Bearer"
)

// dummyHash はユーザーが存在しない場合にも bcrypt 比較を行うためのハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。メール重複時は ErrEmailAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスでユーザーを取得します。存在しない場合は ErrUserNotFound です。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はIDでユーザーを取得します。存在しない場合は ErrUserNotFound です。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator はアクセストークン生成のインターフェースを定義します。
type JWTGenerator interface {
	GenerateToken(userID uint, email string) (string, error)
	// ExpiresIn はアクセストークンの有効秒数です。
	ExpiresIn() int64
}

// TokenPair はログイン・リフレッシュの結果です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	refreshTTL   time.Duration
	now          func() time.Time
	newToken     func() (string, error)
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, refreshTTL time.Duration) *authUsecase {
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		refreshTTL:   refreshTTL,
		now:          time.Now,
		newToken:     newRefreshToken,
	}
}

// newRefreshToken は暗号論的乱数から64文字の16進トークンを生成します。
func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *authUsecase) Signup(ctx context.Context, email, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Email: normalizeEmail(email), Password: string(hashed)}
	return u.users.Create(ctx, user)
}

// Login はユーザーを認証し、アクセストークンとリフレッシュトークンを返します。
// ユーザーが存在しない場合でもbcrypt比較を実行し、応答時間の差から存在を推測させません。
func (u *authUsecase) Login(ctx context.Context, email, password string, meta entity.SessionMeta) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	if err := u.enforceSessionLimit(ctx, user.ID); err != nil {
		return nil, err
	}
	return u.issue(ctx, user, meta)
}

// enforceSessionLimit は新しいセッションを作る前に上限未満になるまで古いセッションを削除します。
func (u *authUsecase) enforceSessionLimit(ctx context.Context, userID uint) error {
	count, err := u.sessions.CountByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}
	for ; count >= MaxSessionsPerUser; count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
			return fmt.Errorf("delete oldest session: %w", err)
		}
		slog.Info("session limit reached, oldest session removed", "user_id", userID)
	}
	return nil
}

// issue はアクセストークンを生成し、新しいセッションを保存します。
func (u *authUsecase) issue(ctx context.Context, user *entity.User, meta entity.SessionMeta) (*TokenPair, error) {
	access, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := u.newToken()
	if err != nil {
		return nil, err
	}

	now := u.now()
	s := &entity.Session{
		ID:        refresh,
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.refreshTTL),
	}
	if err := u.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresIn:    u.jwtGenerator.ExpiresIn(),
	}, nil
}

// Refresh はリフレッシュトークンをローテーションします。古いセッションは失効させます。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta entity.SessionMeta) (*TokenPair, error) {
	s, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if s.IsRevoked() {
		// 失効済みトークンの再利用は漏洩の可能性があるため警告を残す
		slog.Warn("revoked refresh token reused", "user_id", s.UserID, "ip", meta.IPAddress)
		return nil, ErrSessionRevoked
	}
	if !u.now().Before(s.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if err := u.sessions.Revoke(ctx, s.ID); err != nil {
		return nil, fmt.Errorf("revoke session: %w", err)
	}
	return u.issue(ctx, user, meta)
}

// Logout はセッションを失効させます。未知のトークンはエラーにしません。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// CleanupSessions は期限切れセッションを削除します。SESSION_CLEANUP ジョブから呼ばれます。
func (u *authUsecase) CleanupSessions(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return n, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
