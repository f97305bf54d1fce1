package entity

import "time"

// DocumentType は本人確認書類の種別です。
type DocumentType string

const (
	DocPassport      DocumentType = "PASSPORT"
	DocIDCard        DocumentType = "ID_CARD"
	DocDriverLicense DocumentType = "DRIVER_LICENSE"
)

// Valid は既知の書類種別かを返します。
func (d DocumentType) Valid() bool {
	switch d {
	case DocPassport, DocIDCard, DocDriverLicense:
		return true
	}
	return false
}

// ReviewStatus はKYC申請の審査状態です。
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// KYCRecord は1回分のKYC申請です。
type KYCRecord struct {
	ID               uint         `gorm:"primaryKey"`
	ClientID         uint         `gorm:"index;not null"`
	DocumentType     DocumentType `gorm:"size:32;not null"`
	DocumentNumber   string       `gorm:"size:64;not null"`
	Status           ReviewStatus `gorm:"size:16;not null;default:PENDING;index"`
	DocumentVerified bool         `gorm:"not null;default:false"`
	ExtractedText    string       `gorm:"type:text"`
	RejectReason     string       `gorm:"size:500"`
	ReviewedBy       *uint
	ReviewedAt       *time.Time
	SubmittedAt      time.Time `gorm:"not null"`
}

func (KYCRecord) TableName() string { return "kyc_records" }

// IsPending は審査待ちかを返します。
func (k *KYCRecord) IsPending() bool {
	return k.Status == ReviewPending
}

// Approve は審査を承認にします。呼び出し側で IsPending を確認してください。
func (k *KYCRecord) Approve(reviewerID uint, at time.Time) {
	k.Status = ReviewApproved
	k.ReviewedBy = &reviewerID
	k.ReviewedAt = &at
}

// Reject は審査を却下にします。
func (k *KYCRecord) Reject(reviewerID uint, reason string, at time.Time) {
	k.Status = ReviewRejected
	k.RejectReason = reason
	k.ReviewedBy = &reviewerID
	k.ReviewedAt = &at
}
