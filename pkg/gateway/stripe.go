package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
	"github.com/stripe/stripe-go/v82/transfer"
)

// StripeClient implements Client against Stripe. Charges use PaymentIntents
// confirmed inline; payouts use transfers to Express connected accounts.
type StripeClient struct {
	secretKey string
}

func NewStripeClient(secretKey string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{secretKey: secretKey}
}

func (c *StripeClient) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.PaymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if len(req.Metadata) > 0 {
		params.Metadata = req.Metadata
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx
	params.AddExpand("latest_charge")

	intent, err := paymentintent.New(params)
	if err != nil {
		if res, ok := declineResult(err); ok {
			return res, nil
		}
		return nil, fmt.Errorf("stripe charge: %w", err)
	}

	res := &ChargeResult{Reference: intent.ID}
	if intent.LatestCharge != nil && intent.LatestCharge.PaymentMethodDetails != nil &&
		intent.LatestCharge.PaymentMethodDetails.Card != nil {
		res.Last4 = intent.LatestCharge.PaymentMethodDetails.Card.Last4
	}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		res.Status = ChargeSucceeded
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		res.Status = ChargeRequiresAction
	default:
		res.Status = ChargeFailed
		res.FailureReason = fmt.Sprintf("unexpected intent status %s", intent.Status)
	}
	return res, nil
}

// declineResult maps a *stripe.Error onto a failed ChargeResult. Declines are
// an answer, not an outage. Errors that never produced a PaymentIntent
// (authentication, rate limit, bad request) carry no reference.
func declineResult(err error) (*ChargeResult, bool) {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return nil, false
	}
	ref := ""
	if stripeErr.PaymentIntent != nil {
		ref = stripeErr.PaymentIntent.ID
	}
	reason := stripeErr.Msg
	if reason == "" {
		reason = string(stripeErr.Code)
	}
	return &ChargeResult{
		Status:        ChargeFailed,
		Reference:     ref,
		FailureReason: reason,
	}, true
}

func (c *StripeClient) CreateRefund(ctx context.Context, chargeRef string, amountCents int64) (*RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(chargeRef),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx
	r, err := refund.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe refund: %w", err)
	}
	return &RefundResult{Reference: r.ID, Status: string(r.Status)}, nil
}

func (c *StripeClient) CreatePayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error) {
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(req.Currency),
		Destination:   stripe.String(req.Destination),
		TransferGroup: stripe.String(req.Reference),
	}
	params.Context = ctx
	t, err := transfer.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payout: %w", err)
	}
	return &PayoutResult{Reference: t.ID, Status: "PAID"}, nil
}

func (c *StripeClient) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx
	acct, err := account.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe account: %w", err)
	}
	log.Printf("[Gateway] created connected account %s", acct.ID)
	return acct.ID, nil
}

func (c *StripeClient) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acct, err := account.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe account lookup: %w", err)
	}
	return &Account{
		ID:             acct.ID,
		ChargesEnabled: acct.ChargesEnabled,
		PayoutsEnabled: acct.PayoutsEnabled,
	}, nil
}
