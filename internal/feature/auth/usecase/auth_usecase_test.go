package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"invest_backend/internal/feature/auth/domain/entity"
)

type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "mock-jwt-token", nil
}

func (m *mockJWTGenerator) ExpiresIn() int64 { return 900 }

// memorySessions はテスト用のインメモリ SessionRepository です。
type memorySessions struct {
	items     map[string]*entity.Session
	now       func() time.Time
	createErr error
}

func newMemorySessions(now func() time.Time) *memorySessions {
	return &memorySessions{items: map[string]*entity.Session{}, now: now}
}

func (m *memorySessions) Create(_ context.Context, s *entity.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memorySessions) FindByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessions) FindByUserID(_ context.Context, userID uint) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, s := range m.items {
		if s.UserID == userID && s.RevokedAt == nil && m.now().Before(s.ExpiresAt) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySessions) Revoke(_ context.Context, id string) error {
	s, ok := m.items[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := m.now()
	s.RevokedAt = &now
	return nil
}

func (m *memorySessions) RevokeAllByUserID(ctx context.Context, userID uint) error {
	for id, s := range m.items {
		if s.UserID == userID {
			_ = m.Revoke(ctx, id)
		}
	}
	return nil
}

func (m *memorySessions) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, s := range m.items {
		if s.ExpiresAt.Before(m.now()) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *memorySessions) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	active, _ := m.FindByUserID(ctx, userID)
	return int64(len(active)), nil
}

func (m *memorySessions) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	active, _ := m.FindByUserID(ctx, userID)
	var oldest *entity.Session
	for _, s := range active {
		if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(m.items, oldest.ID)
	}
	return nil
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// newTestUsecase は時計とトークン生成を固定した authUsecase を返します。
func newTestUsecase(users UserRepository, now *time.Time) (*authUsecase, *memorySessions) {
	clock := func() time.Time { return *now }
	sessions := newMemorySessions(clock)
	uc := NewAuthUsecase(users, sessions, &mockJWTGenerator{}, 7*24*time.Hour)
	uc.now = clock
	seq := 0
	uc.newToken = func() (string, error) {
		seq++
		return "token-" + string(rune('a'+seq-1)), nil
	}
	return uc, sessions
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Run("success: password is hashed and email normalized", func(t *testing.T) {
		var created *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = user
				return nil
			},
		}
		uc := NewAuthUsecase(repo, newMemorySessions(time.Now), &mockJWTGenerator{}, time.Hour)

		err := uc.Signup(context.Background(), " Test@Example.com ", "password123")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "test@example.com", created.Email)
		assert.NotEqual(t, "password123", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	})

	t.Run("error: weak password", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Fatal("Create must not be called")
				return nil
			},
		}
		uc := NewAuthUsecase(repo, newMemorySessions(time.Now), &mockJWTGenerator{}, time.Hour)

		err := uc.Signup(context.Background(), "test@example.com", "short")

		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("error: duplicate email", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error { return ErrEmailAlreadyExists },
		}
		uc := NewAuthUsecase(repo, newMemorySessions(time.Now), &mockJWTGenerator{}, time.Hour)

		err := uc.Signup(context.Background(), "dup@example.com", "password123")

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	user := &entity.User{ID: 7, Email: "test@example.com", Password: hashed(t, "password123")}
	users := &mockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, ErrUserNotFound
		},
	}

	t.Run("success: issues access and refresh tokens", func(t *testing.T) {
		now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
		uc, sessions := newTestUsecase(users, &now)

		pair, err := uc.Login(context.Background(), "TEST@example.com", "password123", entity.SessionMeta{UserAgent: "ua", IPAddress: "10.0.0.1"})

		require.NoError(t, err)
		assert.Equal(t, "mock-jwt-token", pair.AccessToken)
		assert.Equal(t, "token-a", pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, int64(900), pair.ExpiresIn)

		s, err := sessions.FindByID(context.Background(), "token-a")
		require.NoError(t, err)
		assert.Equal(t, uint(7), s.UserID)
		assert.Equal(t, "10.0.0.1", s.IPAddress)
		assert.Equal(t, now.Add(7*24*time.Hour), s.ExpiresAt)
	})

	t.Run("error: wrong password", func(t *testing.T) {
		now := time.Now()
		uc, _ := newTestUsecase(users, &now)

		_, err := uc.Login(context.Background(), "test@example.com", "wrong-password", entity.SessionMeta{})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("error: unknown user returns the same error", func(t *testing.T) {
		now := time.Now()
		uc, _ := newTestUsecase(users, &now)

		_, err := uc.Login(context.Background(), "nobody@example.com", "password123", entity.SessionMeta{})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("error: repository failure is propagated", func(t *testing.T) {
		now := time.Now()
		dbErr := errors.New("db down")
		uc, _ := newTestUsecase(&mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) { return nil, dbErr },
		}, &now)

		_, err := uc.Login(context.Background(), "test@example.com", "password123", entity.SessionMeta{})

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("edge case: oldest session removed at the cap", func(t *testing.T) {
		now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
		uc, sessions := newTestUsecase(users, &now)

		for i := 0; i < MaxSessionsPerUser+1; i++ {
			_, err := uc.Login(context.Background(), "test@example.com", "password123", entity.SessionMeta{})
			require.NoError(t, err)
			now = now.Add(time.Minute)
		}

		count, _ := sessions.CountByUserID(context.Background(), 7)
		assert.Equal(t, int64(MaxSessionsPerUser), count)
		_, err := sessions.FindByID(context.Background(), "token-a")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestAuthUsecase_Refresh(t *testing.T) {
	user := &entity.User{ID: 7, Email: "test@example.com", Password: hashed(t, "password123")}
	users := &mockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) { return user, nil },
		FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, ErrUserNotFound
		},
	}

	login := func(t *testing.T, uc *authUsecase) string {
		t.Helper()
		pair, err := uc.Login(context.Background(), user.Email, "password123", entity.SessionMeta{})
		require.NoError(t, err)
		return pair.RefreshToken
	}

	t.Run("success: rotates the refresh token", func(t *testing.T) {
		now := time.Now()
		uc, sessions := newTestUsecase(users, &now)
		old := login(t, uc)

		pair, err := uc.Refresh(context.Background(), old, entity.SessionMeta{})

		require.NoError(t, err)
		assert.NotEqual(t, old, pair.RefreshToken)
		s, _ := sessions.FindByID(context.Background(), old)
		assert.True(t, s.IsRevoked())
	})

	t.Run("error: reuse of a rotated token", func(t *testing.T) {
		now := time.Now()
		uc, _ := newTestUsecase(users, &now)
		old := login(t, uc)
		_, err := uc.Refresh(context.Background(), old, entity.SessionMeta{})
		require.NoError(t, err)

		_, err = uc.Refresh(context.Background(), old, entity.SessionMeta{})

		assert.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("error: unknown token", func(t *testing.T) {
		now := time.Now()
		uc, _ := newTestUsecase(users, &now)

		_, err := uc.Refresh(context.Background(), "nope", entity.SessionMeta{})

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("error: expired token", func(t *testing.T) {
		now := time.Now()
		uc, _ := newTestUsecase(users, &now)
		old := login(t, uc)
		now = now.Add(8 * 24 * time.Hour)

		_, err := uc.Refresh(context.Background(), old, entity.SessionMeta{})

		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("error: user deleted after login", func(t *testing.T) {
		now := time.Now()
		uc, sessions := newTestUsecase(users, &now)
		require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "orphan", UserID: 99, ExpiresAt: now.Add(time.Hour)}))

		_, err := uc.Refresh(context.Background(), "orphan", entity.SessionMeta{})

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	now := time.Now()
	uc, sessions := newTestUsecase(&mockUserRepository{}, &now)
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "s1", UserID: 1, ExpiresAt: now.Add(time.Hour)}))

	t.Run("success: revokes the session", func(t *testing.T) {
		require.NoError(t, uc.Logout(context.Background(), "s1"))
		s, _ := sessions.FindByID(context.Background(), "s1")
		assert.True(t, s.IsRevoked())
	})

	t.Run("edge case: unknown token is not an error", func(t *testing.T) {
		assert.NoError(t, uc.Logout(context.Background(), "unknown"))
	})
}

func TestAuthUsecase_CleanupSessions(t *testing.T) {
	now := time.Now()
	uc, sessions := newTestUsecase(&mockUserRepository{}, &now)
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "old", UserID: 1, ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "new", UserID: 1, ExpiresAt: now.Add(time.Hour)}))

	n, err := uc.CleanupSessions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewRefreshToken(t *testing.T) {
	tok, err := newRefreshToken()

	require.NoError(t, err)
	assert.Len(t, tok, 64)
}
