package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"invest_backend/internal/feature/clients/domain/entity"
	dashboard "invest_backend/internal/feature/dashboard/domain/entity"
)

// MaxDocumentSize は書類画像の最大サイズ（10MB）です。
const MaxDocumentSize = 10 * 1024 * 1024

// KYCRepository はKYC申請の永続化を抽象化します。
type KYCRepository interface {
	Create(ctx context.Context, r *entity.KYCRecord) error
	// FindByID は存在しない場合 ErrKYCNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.KYCRecord, error)
	ExistsPending(ctx context.Context, clientID uint) (bool, error)
	ListByClient(ctx context.Context, clientID uint) ([]entity.KYCRecord, error)
	Update(ctx context.Context, r *entity.KYCRecord) error
}

// DocumentReader は書類画像から文字列を読み取ります（OCR）。
type DocumentReader interface {
	ReadText(ctx context.Context, image []byte) (string, error)
}

// KYCUsecase はKYC申請と審査を提供します。
type KYCUsecase struct {
	clients    ClientRepository
	records    KYCRepository
	reader     DocumentReader
	activities ActivityRecorder
	tx         TxManager
	now        func() time.Time
}

// NewKYCUsecase は KYCUsecase を生成します。reader が nil の場合、書類添付は利用できません。
func NewKYCUsecase(clients ClientRepository, records KYCRepository, reader DocumentReader, activities ActivityRecorder, tx TxManager) *KYCUsecase {
	return &KYCUsecase{
		clients:    clients,
		records:    records,
		reader:     reader,
		activities: activities,
		tx:         tx,
		now:        time.Now,
	}
}

// SubmitKYC は新しい申請を作成し、顧客を PENDING にします。
func (u *KYCUsecase) SubmitKYC(ctx context.Context, clientID uint, docType entity.DocumentType, docNumber string) (*entity.KYCRecord, error) {
	docType = entity.DocumentType(strings.ToUpper(strings.TrimSpace(string(docType))))
	docNumber = strings.TrimSpace(docNumber)
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidKYCRequest, docType)
	}
	if docNumber == "" {
		return nil, fmt.Errorf("%w: document number is required", ErrInvalidKYCRequest)
	}

	var rec *entity.KYCRecord
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := u.clients.FindByID(ctx, clientID)
		if err != nil {
			return err
		}
		if c.KYCStatus == entity.KYCApproved {
			return ErrKYCAlreadyApproved
		}
		pending, err := u.records.ExistsPending(ctx, clientID)
		if err != nil {
			return err
		}
		if pending {
			return ErrKYCAlreadyPending
		}

		rec = &entity.KYCRecord{
			ClientID:       clientID,
			DocumentType:   docType,
			DocumentNumber: docNumber,
			Status:         entity.ReviewPending,
			SubmittedAt:    u.now(),
		}
		if err := u.records.Create(ctx, rec); err != nil {
			return err
		}
		return u.clients.UpdateKYCStatus(ctx, clientID, entity.KYCPending)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// AttachKYCDocument は書類画像をOCRにかけ、氏名と書類番号が読み取れたかを記録します。
func (u *KYCUsecase) AttachKYCDocument(ctx context.Context, kycID uint, image []byte) (*entity.KYCRecord, error) {
	if u.reader == nil {
		return nil, ErrDocumentReaderUnavailable
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image data is empty", ErrInvalidKYCRequest)
	}
	if len(image) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: image size exceeds maximum of %d bytes", ErrInvalidKYCRequest, MaxDocumentSize)
	}

	rec, err := u.records.FindByID(ctx, kycID)
	if err != nil {
		return nil, err
	}
	if !rec.IsPending() {
		return nil, ErrInvalidKYCTransition
	}
	c, err := u.clients.FindByID(ctx, rec.ClientID)
	if err != nil {
		return nil, err
	}

	text, err := u.reader.ReadText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	rec.ExtractedText = text
	rec.DocumentVerified = DocumentMatches(text, c.Name, rec.DocumentNumber)
	if err := u.records.Update(ctx, rec); err != nil {
		return nil, err
	}
	slog.Info("kyc document attached", "kyc_id", rec.ID, "client_id", c.ID, "verified", rec.DocumentVerified)
	return rec, nil
}

// ApproveKYC は PENDING の申請を承認し、顧客を APPROVED にします。
func (u *KYCUsecase) ApproveKYC(ctx context.Context, kycID, reviewerID uint) (*entity.KYCRecord, error) {
	return u.review(ctx, kycID, func(ctx context.Context, rec *entity.KYCRecord, c *entity.Client) error {
		if !rec.DocumentVerified {
			slog.Warn("kyc approved without verified document", "kyc_id", rec.ID, "reviewer_id", reviewerID)
		}
		rec.Approve(reviewerID, u.now())
		if err := u.clients.UpdateKYCStatus(ctx, c.ID, entity.KYCApproved); err != nil {
			return err
		}
		return u.activities.Record(ctx, dashboard.ActivityKYCApproved, "KYC Approved", c.Name+" verification completed")
	})
}

// RejectKYC は PENDING の申請を却下します。却下理由は必須です。
func (u *KYCUsecase) RejectKYC(ctx context.Context, kycID, reviewerID uint, reason string) (*entity.KYCRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reject reason is required", ErrInvalidKYCRequest)
	}
	return u.review(ctx, kycID, func(ctx context.Context, rec *entity.KYCRecord, c *entity.Client) error {
		rec.Reject(reviewerID, reason, u.now())
		if err := u.clients.UpdateKYCStatus(ctx, c.ID, entity.KYCRejected); err != nil {
			return err
		}
		return u.activities.Record(ctx, dashboard.ActivityKYCRejected, "KYC Rejected", c.Name+" verification rejected")
	})
}

// review は審査系操作の共通処理です。レコードと顧客状態の更新を1トランザクションで行います。
func (u *KYCUsecase) review(ctx context.Context, kycID uint, apply func(ctx context.Context, rec *entity.KYCRecord, c *entity.Client) error) (*entity.KYCRecord, error) {
	var out *entity.KYCRecord
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := u.records.FindByID(ctx, kycID)
		if err != nil {
			return err
		}
		if !rec.IsPending() {
			return ErrInvalidKYCTransition
		}
		c, err := u.clients.FindByID(ctx, rec.ClientID)
		if err != nil {
			return err
		}
		if err := apply(ctx, rec, c); err != nil {
			return err
		}
		if err := u.records.Update(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListKYC は顧客の申請履歴を新しい順に返します。
func (u *KYCUsecase) ListKYC(ctx context.Context, clientID uint) ([]entity.KYCRecord, error) {
	if _, err := u.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return u.records.ListByClient(ctx, clientID)
}

// DocumentMatches は OCR テキストに氏名と書類番号の両方が含まれるかを判定します。
// 大文字小文字・空白・記号の差は無視します。
func DocumentMatches(text, name, docNumber string) bool {
	t := normalizeForMatch(text)
	n := normalizeForMatch(name)
	d := normalizeForMatch(docNumber)
	if n == "" || d == "" {
		return false
	}
	return strings.Contains(t, n) && strings.Contains(t, d)
}

func normalizeForMatch(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
