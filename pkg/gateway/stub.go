package gateway

import (
	"context"
	"fmt"
	"time"
)

// StubClient is a no-op provider for development; every charge succeeds.
type StubClient struct{}

func (s *StubClient) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{
		Status:    ChargeSucceeded,
		Reference: fmt.Sprintf("stub_pi_%d", time.Now().UnixNano()),
		Last4:     "4242",
	}, nil
}

func (s *StubClient) CreateRefund(ctx context.Context, chargeRef string, amountCents int64) (*RefundResult, error) {
	return &RefundResult{Reference: fmt.Sprintf("stub_re_%d", time.Now().UnixNano()), Status: "succeeded"}, nil
}

func (s *StubClient) CreatePayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error) {
	return &PayoutResult{Reference: fmt.Sprintf("stub_po_%d", time.Now().UnixNano()), Status: "PAID"}, nil
}

func (s *StubClient) CreateAccount(ctx context.Context, email string) (string, error) {
	return fmt.Sprintf("stub_acct_%d", time.Now().UnixNano()), nil
}

func (s *StubClient) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return &Account{ID: accountID, ChargesEnabled: true, PayoutsEnabled: true}, nil
}
