package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"peachy/internal/domain"
	"peachy/internal/fees"
	"peachy/internal/models"
	"peachy/internal/secure"
	"peachy/pkg/gateway"
)

// WithdrawalService drives payout requests through
// PENDING -> PROCESSING -> COMPLETED|FAILED, with PENDING -> REJECTED and
// PENDING -> CANCELLED side exits. Every non-completed exit returns the
// reserved amount to the wallet balance in full.
type WithdrawalService struct {
	wallets     WalletStore
	withdrawals WithdrawalStore
	txs         TransactionStore
	gw          gateway.Client
	calc        *fees.Calculator
	box         *secure.Box
	notify      Notifier
	timeout     time.Duration
}

func NewWithdrawalService(
	wallets WalletStore,
	withdrawals WithdrawalStore,
	txs TransactionStore,
	gw gateway.Client,
	calc *fees.Calculator,
	box *secure.Box,
	notify Notifier,
	gatewayTimeout time.Duration,
) *WithdrawalService {
	return &WithdrawalService{
		wallets:     wallets,
		withdrawals: withdrawals,
		txs:         txs,
		gw:          gw,
		calc:        calc,
		box:         box,
		notify:      notify,
		timeout:     gatewayTimeout,
	}
}

// Request validates and creates a pending withdrawal, atomically moving the
// amount from balance to pending balance.
func (s *WithdrawalService) Request(userID uint, amountCents int64, method, accountDetails string) (*models.Withdrawal, error) {
	eta, ok := domain.EstimatedArrivalDays[method]
	if !ok {
		return nil, fmt.Errorf("%w: unknown withdrawal method %s", domain.ErrInvalidState, method)
	}
	wallet, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if !wallet.PayoutVerified {
		return nil, domain.ErrPayoutUnverified
	}
	if amountCents < wallet.MinWithdrawalCents {
		return nil, domain.ErrBelowMinimum
	}
	if amountCents > wallet.BalanceCents {
		return nil, domain.ErrInsufficientBalance
	}

	fee, net := s.calc.Withdrawal(amountCents)
	var enc string
	if accountDetails != "" {
		enc, err = s.box.Encrypt(accountDetails)
		if err != nil {
			return nil, err
		}
	}
	w := &models.Withdrawal{
		UserID:               userID,
		OrderID:              "wd-" + uuid.New().String(),
		AmountCents:          amountCents,
		FeeCents:             fee,
		NetCents:             net,
		Method:               method,
		Status:               domain.WithdrawalStatusPending,
		AccountDetailsEnc:    enc,
		EstimatedArrivalDays: eta,
	}
	// Reserve re-checks the balance under a wallet row lock; a concurrent
	// request racing past the check above loses here.
	if err := s.withdrawals.Reserve(w); err != nil {
		return nil, err
	}
	s.notify.WithdrawalRequested(userID, amountCents)
	return w, nil
}

// Process executes a pending withdrawal (admin-triggered). Any gateway
// problem, including a timeout, is treated as a payout failure and fully
// rolls back the reservation; the withdrawal is never left PROCESSING.
func (s *WithdrawalService) Process(ctx context.Context, id uint) (*models.Withdrawal, error) {
	w, err := s.withdrawals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, fmt.Errorf("%w: withdrawal is %s", domain.ErrInvalidState, w.Status)
	}
	w.Status = domain.WithdrawalStatusProcessing
	if err := s.withdrawals.Update(w); err != nil {
		return nil, err
	}

	providerRef, payoutErr := s.executePayout(ctx, w)
	if payoutErr != nil {
		w.Status = domain.WithdrawalStatusFailed
		w.FailureReason = payoutErr.Error()
		if err := s.withdrawals.Release(w); err != nil {
			return nil, err
		}
		log.Printf("[Withdrawal] %s payout failed, reservation returned: %v", w.OrderID, payoutErr)
		return w, nil
	}

	now := time.Now()
	w.Status = domain.WithdrawalStatusCompleted
	w.CompletedAt = &now
	w.ProviderRef = providerRef
	if err := s.withdrawals.Finalize(w); err != nil {
		return nil, err
	}

	fee := w.FeeCents
	tx := &models.Transaction{
		UserID:         w.UserID,
		Kind:           domain.TxKindWithdrawal,
		Status:         domain.TxStatusCompleted,
		AmountCents:    -w.AmountCents,
		FeeCents:       &fee,
		NetCents:       -w.NetCents,
		Currency:       "USD",
		ProviderRef:    providerRef,
		IdempotencyKey: w.OrderID,
		WithdrawalID:   &w.ID,
		ProcessedAt:    &now,
	}
	if err := s.txs.Create(tx); err != nil {
		log.Printf("[Withdrawal] %s completed but ledger row failed: %v", w.OrderID, err)
	}
	s.notify.WithdrawalCompleted(w.UserID, w.AmountCents)
	return w, nil
}

// executePayout dispatches per method. Stripe payouts go through the
// gateway; manual methods (bank wire, check, ...) are executed out of band
// by the operator, so processing them succeeds immediately.
func (s *WithdrawalService) executePayout(ctx context.Context, w *models.Withdrawal) (string, error) {
	if w.Method != domain.WithdrawalMethodStripe {
		return "", nil
	}
	wallet, err := s.wallets.GetByUserID(w.UserID)
	if err != nil {
		return "", err
	}
	if wallet.StripeAccountID == "" {
		return "", fmt.Errorf("no connected account for user %d", w.UserID)
	}
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.gw.CreatePayout(gctx, gateway.PayoutRequest{
		AmountCents: w.NetCents,
		Currency:    "usd",
		Destination: wallet.StripeAccountID,
		Reference:   w.OrderID,
	})
	if err != nil {
		return "", err
	}
	return res.Reference, nil
}

// Reject moves a pending withdrawal to REJECTED, returning the reservation.
// No gateway call is made.
func (s *WithdrawalService) Reject(id uint, reason string) (*models.Withdrawal, error) {
	w, err := s.withdrawals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, fmt.Errorf("%w: withdrawal is %s", domain.ErrInvalidState, w.Status)
	}
	w.Status = domain.WithdrawalStatusRejected
	w.RejectionReason = reason
	if err := s.withdrawals.Release(w); err != nil {
		return nil, err
	}
	s.notify.WithdrawalRejected(w.UserID, reason)
	return w, nil
}

// Cancel lets the requester withdraw a pending request.
func (s *WithdrawalService) Cancel(userID, id uint) (*models.Withdrawal, error) {
	w, err := s.withdrawals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, fmt.Errorf("%w: withdrawal is %s", domain.ErrInvalidState, w.Status)
	}
	w.Status = domain.WithdrawalStatusCancelled
	if err := s.withdrawals.Release(w); err != nil {
		return nil, err
	}
	return w, nil
}
