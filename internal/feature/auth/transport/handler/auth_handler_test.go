package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest_backend/internal/feature/auth/domain/entity"
	"invest_backend/internal/feature/auth/usecase"
)

type mockAuthUsecase struct {
	SignupFunc  func(ctx context.Context, email, password string) error
	LoginFunc   func(ctx context.Context, email, password string, meta entity.SessionMeta) (*usecase.TokenPair, error)
	RefreshFunc func(ctx context.Context, token string, meta entity.SessionMeta) (*usecase.TokenPair, error)
	LogoutFunc  func(ctx context.Context, token string) error
}

func (m *mockAuthUsecase) Signup(ctx context.Context, email, password string) error {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password)
	}
	return nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string, meta entity.SessionMeta) (*usecase.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, meta)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) Refresh(ctx context.Context, token string, meta entity.SessionMeta) (*usecase.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, token, meta)
	}
	return nil, usecase.ErrInvalidRefreshToken
}

func (m *mockAuthUsecase) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

var testPair = &usecase.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

func doJSON(t *testing.T, h gin.HandlerFunc, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	router := gin.New()
	router.POST(path, h)

	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "handler-test")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var got gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return w, got
}

func TestAuthHandler_Signup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		signupFunc     func(ctx context.Context, email, password string) error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success: user registration",
			requestBody:    gin.H{"email": "test@example.com", "password": "password123"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error: invalid email address",
			requestBody:    gin.H{"email": "invalid-email", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error: short password",
			requestBody:    gin.H{"email": "test@example.com", "password": "short"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "failed on the 'min' tag",
		},
		{
			name:           "error: duplicate email hides details",
			requestBody:    gin.H{"email": "existing@example.com", "password": "password123"},
			signupFunc:     func(ctx context.Context, email, password string) error { return usecase.ErrEmailAlreadyExists },
			expectedStatus: http.StatusConflict,
			expectedError:  "signup failed",
		},
		{
			name:           "error: repository failure",
			requestBody:    gin.H{"email": "test@example.com", "password": "password123"},
			signupFunc:     func(ctx context.Context, email, password string) error { return errors.New("db down") },
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{SignupFunc: tt.signupFunc})

			w, got := doJSON(t, h.Signup, "/signup", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			switch {
			case tt.expectedStatus == http.StatusCreated:
				assert.Equal(t, "ok", got["message"])
			case tt.expectedError != "":
				assert.Contains(t, got["error"], tt.expectedError)
			default:
				assert.NotEmpty(t, got["error"])
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: returns token pair with client meta", func(t *testing.T) {
		var gotMeta entity.SessionMeta
		h := NewAuthHandler(&mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string, meta entity.SessionMeta) (*usecase.TokenPair, error) {
				gotMeta = meta
				return testPair, nil
			},
		})

		w, got := doJSON(t, h.Login, "/login", gin.H{"email": "test@example.com", "password": "password123"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "access", got["access_token"])
		assert.Equal(t, "refresh", got["refresh_token"])
		assert.Equal(t, "Bearer", got["token_type"])
		assert.Equal(t, float64(900), got["expires_in"])
		assert.Equal(t, "handler-test", gotMeta.UserAgent)
	})

	t.Run("error: missing password", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		w, got := doJSON(t, h.Login, "/login", gin.H{"email": "test@example.com"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, got["error"], "failed on the 'required' tag")
	})

	t.Run("error: invalid credentials", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		w, got := doJSON(t, h.Login, "/login", gin.H{"email": "wrong@example.com", "password": "wrong-password"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", got["error"])
	})

	t.Run("edge case: internal error is hidden behind 401", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string, meta entity.SessionMeta) (*usecase.TokenPair, error) {
				return nil, errors.New("server misconfigured: JWT_SECRET missing")
			},
		})

		w, got := doJSON(t, h.Login, "/login", gin.H{"email": "test@example.com", "password": "password123"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", got["error"])
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		refreshErr     error
		expectedStatus int
	}{
		{name: "success: rotated", requestBody: gin.H{"refresh_token": "abc"}, expectedStatus: http.StatusOK},
		{name: "error: missing token", requestBody: gin.H{}, expectedStatus: http.StatusBadRequest},
		{name: "error: unknown token", requestBody: gin.H{"refresh_token": "abc"}, refreshErr: usecase.ErrInvalidRefreshToken, expectedStatus: http.StatusUnauthorized},
		{name: "error: revoked token", requestBody: gin.H{"refresh_token": "abc"}, refreshErr: usecase.ErrSessionRevoked, expectedStatus: http.StatusUnauthorized},
		{name: "error: expired token", requestBody: gin.H{"refresh_token": "abc"}, refreshErr: usecase.ErrSessionExpired, expectedStatus: http.StatusUnauthorized},
		{name: "error: storage failure", requestBody: gin.H{"refresh_token": "abc"}, refreshErr: errors.New("redis down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{
				RefreshFunc: func(ctx context.Context, token string, meta entity.SessionMeta) (*usecase.TokenPair, error) {
					if tt.refreshErr != nil {
						return nil, tt.refreshErr
					}
					return testPair, nil
				},
			})

			w, _ := doJSON(t, h.Refresh, "/refresh", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: logout", func(t *testing.T) {
		var revoked string
		h := NewAuthHandler(&mockAuthUsecase{
			LogoutFunc: func(ctx context.Context, token string) error { revoked = token; return nil },
		})

		w, got := doJSON(t, h.Logout, "/logout", gin.H{"refresh_token": "abc"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "logged out", got["message"])
		assert.Equal(t, "abc", revoked)
	})

	t.Run("error: storage failure", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{
			LogoutFunc: func(ctx context.Context, token string) error { return errors.New("db down") },
		})

		w, _ := doJSON(t, h.Logout, "/logout", gin.H{"refresh_token": "abc"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
