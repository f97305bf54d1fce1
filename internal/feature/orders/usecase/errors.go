package usecase

import "errors"

var (
	// ErrInvalidOrder は注文内容の不備（数量・指値・銘柄）を示します。
	ErrInvalidOrder = errors.New("invalid order")

	// ErrKYCNotApproved はKYC未承認の顧客が発注しようとしたことを示します。
	ErrKYCNotApproved = errors.New("client KYC is not approved")

	// ErrInsufficientHolding は売却数量が保有数量（他の未約定売り注文を除く）を超えることを示します。
	ErrInsufficientHolding = errors.New("insufficient holding")

	// ErrOrderNotCancellable は PENDING 以外の注文を取り消そうとしたことを示します。
	ErrOrderNotCancellable = errors.New("order is not cancellable")
)
