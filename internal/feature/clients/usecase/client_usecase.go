// Package usecase はclientsフィーチャー（顧客・KYC）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"invest_backend/internal/feature/clients/domain/entity"
	dashboard "invest_backend/internal/feature/dashboard/domain/entity"
)

const (
	// MaxNameLength は顧客名の最大文字数です。
	MaxNameLength = 100
	// DefaultListLimit は一覧取得の既定件数です。
	DefaultListLimit = 50
	// MaxListLimit は一覧取得の上限件数です。
	MaxListLimit = 200
)

// ClientRepository は顧客の永続化を抽象化します。
type ClientRepository interface {
	// Create はメールアドレスが重複した場合 ErrClientAlreadyExists を返します。
	Create(ctx context.Context, c *entity.Client) error
	// FindByID は存在しない場合 domain.ErrClientNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]entity.Client, int64, error)
	UpdateKYCStatus(ctx context.Context, id uint, status entity.KYCStatus) error
}

// ActivityRecorder はダッシュボードのアクティビティを記録します。
type ActivityRecorder interface {
	Record(ctx context.Context, kind, title, description string) error
}

// TxManager は複数の書き込みを1トランザクションにまとめます。
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClientUsecase は顧客の登録・参照を提供します。
type ClientUsecase struct {
	clients    ClientRepository
	activities ActivityRecorder
	tx         TxManager
	validate   *validator.Validate
}

// NewClientUsecase は ClientUsecase を生成します。
func NewClientUsecase(clients ClientRepository, activities ActivityRecorder, tx TxManager) *ClientUsecase {
	return &ClientUsecase{clients: clients, activities: activities, tx: tx, validate: validator.New()}
}

// CreateClient は顧客を登録し、CLIENT_CREATED アクティビティを記録します。
func (u *ClientUsecase) CreateClient(ctx context.Context, name, email, phone string) (*entity.Client, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: name is required (max %d characters)", ErrInvalidClient, MaxNameLength)
	}
	if err := u.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidClient)
	}

	c := &entity.Client{Name: name, Email: email, Phone: strings.TrimSpace(phone), KYCStatus: entity.KYCNone}
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.clients.Create(ctx, c); err != nil {
			return err
		}
		return u.activities.Record(ctx, dashboard.ActivityClientCreated, "New Client", c.Name+" registered")
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient は顧客を1件取得します。
func (u *ClientUsecase) GetClient(ctx context.Context, id uint) (*entity.Client, error) {
	return u.clients.FindByID(ctx, id)
}

// ListClients は顧客一覧と総件数を返します。limit は 1..MaxListLimit に丸めます。
func (u *ClientUsecase) ListClients(ctx context.Context, limit, offset int) ([]entity.Client, int64, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return u.clients.List(ctx, limit, offset)
}
