// Package gateway abstracts the external payment provider: charges for
// pay-ins, refunds, and payouts to creator accounts.
package gateway

import "context"

type ChargeStatus string

const (
	ChargeSucceeded      ChargeStatus = "SUCCEEDED"
	ChargeRequiresAction ChargeStatus = "REQUIRES_ACTION"
	ChargeFailed         ChargeStatus = "FAILED"
)

type ChargeRequest struct {
	AmountCents    int64
	Currency       string
	PaymentMethod  string // provider payment-method token
	CustomerID     string
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
}

type ChargeResult struct {
	Status        ChargeStatus
	Reference     string // provider's charge/intent id
	Last4         string
	FailureReason string
}

type RefundResult struct {
	Reference string
	Status    string
}

type PayoutRequest struct {
	AmountCents int64
	Currency    string
	Destination string // connected account id
	Reference   string // our order id, for reconciliation
}

type PayoutResult struct {
	Reference string
	Status    string
}

type Account struct {
	ID             string
	ChargesEnabled bool
	PayoutsEnabled bool
}

// Client is the provider contract. Implementations must honor ctx deadlines;
// callers treat any returned error as a terminal failure for the attempt.
type Client interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	CreateRefund(ctx context.Context, chargeRef string, amountCents int64) (*RefundResult, error)
	CreatePayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
	CreateAccount(ctx context.Context, email string) (string, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
}
