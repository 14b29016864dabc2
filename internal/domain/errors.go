package domain

import "errors"

// Typed failures surfaced to callers. Gateway problems are never returned
// raw from the settlement flows; they end up as a terminal FAILED record and
// one of these where a caller needs a reason.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrPayoutUnverified    = errors.New("payout account not verified")
	ErrSelfPayment         = errors.New("cannot pay yourself")
	ErrNotRefundable       = errors.New("transaction is not refundable")
	ErrInvalidState        = errors.New("invalid state for operation")
	ErrUnsupportedKind     = errors.New("unsupported transaction kind")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)
