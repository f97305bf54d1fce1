package usecase

import (
	"context"
	"errors"

	"invest_backend/internal/feature/clients/domain"
	"invest_backend/internal/feature/clients/domain/entity"
)

var errDB = errors.New("db error")

type mockClientRepository struct {
	CreateFunc          func(ctx context.Context, c *entity.Client) error
	FindByIDFunc        func(ctx context.Context, id uint) (*entity.Client, error)
	ListFunc            func(ctx context.Context, limit, offset int) ([]entity.Client, int64, error)
	UpdateKYCStatusFunc func(ctx context.Context, id uint, status entity.KYCStatus) error
}

func (m *mockClientRepository) Create(ctx context.Context, c *entity.Client) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uint) (*entity.Client, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrClientNotFound
}

func (m *mockClientRepository) List(ctx context.Context, limit, offset int) ([]entity.Client, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockClientRepository) UpdateKYCStatus(ctx context.Context, id uint, status entity.KYCStatus) error {
	if m.UpdateKYCStatusFunc != nil {
		return m.UpdateKYCStatusFunc(ctx, id, status)
	}
	return nil
}

type mockKYCRepository struct {
	CreateFunc        func(ctx context.Context, r *entity.KYCRecord) error
	FindByIDFunc      func(ctx context.Context, id uint) (*entity.KYCRecord, error)
	ExistsPendingFunc func(ctx context.Context, clientID uint) (bool, error)
	ListByClientFunc  func(ctx context.Context, clientID uint) ([]entity.KYCRecord, error)
	UpdateFunc        func(ctx context.Context, r *entity.KYCRecord) error
}

func (m *mockKYCRepository) Create(ctx context.Context, r *entity.KYCRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	r.ID = 10
	return nil
}

func (m *mockKYCRepository) FindByID(ctx context.Context, id uint) (*entity.KYCRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrKYCNotFound
}

func (m *mockKYCRepository) ExistsPending(ctx context.Context, clientID uint) (bool, error) {
	if m.ExistsPendingFunc != nil {
		return m.ExistsPendingFunc(ctx, clientID)
	}
	return false, nil
}

func (m *mockKYCRepository) ListByClient(ctx context.Context, clientID uint) ([]entity.KYCRecord, error) {
	if m.ListByClientFunc != nil {
		return m.ListByClientFunc(ctx, clientID)
	}
	return nil, nil
}

func (m *mockKYCRepository) Update(ctx context.Context, r *entity.KYCRecord) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, r)
	}
	return nil
}

type recordedActivity struct {
	Kind, Title, Description string
}

type mockActivityRecorder struct {
	Recorded []recordedActivity
	Err      error
}

func (m *mockActivityRecorder) Record(ctx context.Context, kind, title, description string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Recorded = append(m.Recorded, recordedActivity{kind, title, description})
	return nil
}

// passThroughTx はトランザクションを張らずに fn を実行します。
type passThroughTx struct {
	Calls int
}

func (p *passThroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.Calls++
	return fn(ctx)
}

type mockDocumentReader struct {
	ReadTextFunc func(ctx context.Context, image []byte) (string, error)
}

func (m *mockDocumentReader) ReadText(ctx context.Context, image []byte) (string, error) {
	return m.ReadTextFunc(ctx, image)
}
