package usecase

import "errors"

var (
	// ErrInvalidClient は顧客情報の入力不備を示します。
	ErrInvalidClient = errors.New("invalid client")

	// ErrClientAlreadyExists はメールアドレスが登録済みであることを示します。
	ErrClientAlreadyExists = errors.New("client already exists")

	ErrKYCNotFound = errors.New("kyc record not found")

	// ErrKYCAlreadyPending は審査待ちの申請が既にあることを示します。
	ErrKYCAlreadyPending = errors.New("kyc already pending")

	// ErrKYCAlreadyApproved は顧客が既に承認済みであることを示します。
	ErrKYCAlreadyApproved = errors.New("kyc already approved")

	// ErrInvalidKYCTransition は PENDING 以外からの審査操作を示します。
	ErrInvalidKYCTransition = errors.New("invalid kyc status transition")

	// ErrInvalidKYCRequest は申請内容・却下理由・書類画像の不備を示します。
	ErrInvalidKYCRequest = errors.New("invalid kyc request")

	// ErrDocumentReaderUnavailable は OCR が構成されていないことを示します。
	ErrDocumentReaderUnavailable = errors.New("document reader unavailable")
)
