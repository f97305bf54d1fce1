// Package jwtmw は JWT の発行と gin 用の認証ミドルウェアを提供します。
package jwtmw

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はアクセストークンのクレームです。sub にはユーザーIDを10進文字列で格納します。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generator は HS256 で署名したアクセストークンを発行します。
type Generator struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator はシークレットと有効期間から Generator を生成します。
func NewGenerator(secret, issuer string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: expiration,
		now:        time.Now,
	}
}

// ExpiresIn はアクセストークンの有効期間（秒）を返します。
func (g *Generator) ExpiresIn() int64 {
	return int64(g.expiration / time.Second)
}

// GenerateToken は指定ユーザーの署名済みトークンを生成します。
func (g *Generator) GenerateToken(userID uint, email string) (string, error) {
	now := g.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    g.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
