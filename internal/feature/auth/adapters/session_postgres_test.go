package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"invest_backend/internal/feature/auth/domain/entity"
	"invest_backend/internal/feature/auth/usecase"
)

// 2025-03-10 09:00 KST
var sessionNow = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newSessionRepo(t *testing.T) (*sessionPostgres, *gorm.DB) {
	t.Helper()

	gdb := setupTestDB(t)
	repo := NewSessionRepository(gdb)
	repo.now = func() time.Time { return sessionNow }
	return repo, gdb
}

// seedOperatorSession は created から ttl 有効なセッションを書き込みます。
func seedOperatorSession(t *testing.T, repo *sessionPostgres, id string, userID uint, created time.Time, ttl time.Duration) {
	t.Helper()

	require.NoError(t, repo.Create(context.Background(), &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "invest-backoffice-web/2.3",
		IPAddress: "10.20.0.15",
		CreatedAt: created,
		ExpiresAt: created.Add(ttl),
	}))
}

func TestSessionPostgres_FindByID(t *testing.T) {
	repo, _ := newSessionRepo(t)
	seedOperatorSession(t, repo, "tok-live", 1, sessionNow.Add(-time.Hour), 7*24*time.Hour)
	seedOperatorSession(t, repo, "tok-old", 1, sessionNow.Add(-10*24*time.Hour), 7*24*time.Hour)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "success: live session", id: "tok-live"},
		{name: "success: expired session still returned", id: "tok-old"},
		{name: "error: unknown token", id: "tok-none", wantErr: usecase.ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByID(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
			assert.Equal(t, "10.20.0.15", got.IPAddress)
		})
	}
}

func TestSessionPostgres_ActiveSessions(t *testing.T) {
	repo, _ := newSessionRepo(t)
	ctx := context.Background()
	seedOperatorSession(t, repo, "desk", 5, sessionNow.Add(-3*time.Hour), 24*time.Hour)
	seedOperatorSession(t, repo, "laptop", 5, sessionNow.Add(-time.Hour), 24*time.Hour)
	seedOperatorSession(t, repo, "expired", 5, sessionNow.Add(-48*time.Hour), 24*time.Hour)
	seedOperatorSession(t, repo, "revoked", 5, sessionNow.Add(-2*time.Hour), 24*time.Hour)
	seedOperatorSession(t, repo, "other", 6, sessionNow.Add(-time.Hour), 24*time.Hour)
	require.NoError(t, repo.Revoke(ctx, "revoked"))

	sessions, err := repo.FindByUserID(ctx, 5)
	require.NoError(t, err)
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"desk", "laptop"}, ids)

	n, err := repo.CountByUserID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	t.Run("success: oldest active session removed", func(t *testing.T) {
		require.NoError(t, repo.DeleteOldestByUserID(ctx, 5))

		_, err := repo.FindByID(ctx, "desk")
		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
		// 期限切れの方が古くても対象外
		_, err = repo.FindByID(ctx, "expired")
		assert.NoError(t, err)
	})

	t.Run("edge case: user without active sessions", func(t *testing.T) {
		assert.NoError(t, repo.DeleteOldestByUserID(ctx, 404))
	})
}

func TestSessionPostgres_Revoke(t *testing.T) {
	repo, _ := newSessionRepo(t)
	ctx := context.Background()
	seedOperatorSession(t, repo, "tok", 9, sessionNow.Add(-time.Hour), 24*time.Hour)

	require.NoError(t, repo.Revoke(ctx, "tok"))
	got, err := repo.FindByID(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	assert.True(t, got.RevokedAt.Equal(sessionNow))

	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionPostgres_RevokeAllByUserID(t *testing.T) {
	repo, _ := newSessionRepo(t)
	ctx := context.Background()
	seedOperatorSession(t, repo, "a", 11, sessionNow.Add(-time.Hour), 24*time.Hour)
	seedOperatorSession(t, repo, "b", 11, sessionNow.Add(-time.Hour), 24*time.Hour)
	seedOperatorSession(t, repo, "c", 12, sessionNow.Add(-time.Hour), 24*time.Hour)

	require.NoError(t, repo.RevokeAllByUserID(ctx, 11))

	n, err := repo.CountByUserID(ctx, 11)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = repo.CountByUserID(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSessionPostgres_DeleteExpired(t *testing.T) {
	repo, gdb := newSessionRepo(t)
	ctx := context.Background()
	seedOperatorSession(t, repo, "stale-1", 1, sessionNow.Add(-9*24*time.Hour), 7*24*time.Hour)
	seedOperatorSession(t, repo, "stale-2", 2, sessionNow.Add(-8*24*time.Hour), 7*24*time.Hour)
	seedOperatorSession(t, repo, "live", 1, sessionNow.Add(-time.Hour), 7*24*time.Hour)

	removed, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	var left int64
	require.NoError(t, gdb.Model(&SessionModel{}).Count(&left).Error)
	assert.Equal(t, int64(1), left)

	removed, err = repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
