package service

import (
	"context"
	"errors"
	"testing"

	"peachy/internal/domain"
)

func TestWithdrawalRequestReservesBalance(t *testing.T) {
	f := newFixture(t, 1)
	f.wallets.seed(1, 10000, true)

	w, err := f.wd.Request(1, 5000, domain.WithdrawalMethodBank, "acct 12345678")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if w.Status != domain.WithdrawalStatusPending {
		t.Errorf("status: got %s, want PENDING", w.Status)
	}
	if w.FeeCents != 125 || w.NetCents != 4875 {
		t.Errorf("fee/net: got %d/%d, want 125/4875", w.FeeCents, w.NetCents)
	}
	if w.EstimatedArrivalDays != 3 {
		t.Errorf("ETA: got %d days, want 3", w.EstimatedArrivalDays)
	}
	if w.OrderID == "" {
		t.Error("order id not assigned")
	}
	if w.AccountDetailsEnc == "acct 12345678" {
		t.Error("account details stored in the clear")
	}

	wallet, _ := f.wallets.GetByUserID(1)
	if wallet.BalanceCents != 5000 || wallet.PendingBalanceCents != 5000 {
		t.Errorf("wallet: balance=%d pending=%d, want 5000/5000", wallet.BalanceCents, wallet.PendingBalanceCents)
	}
	if f.notif.counts["wd_requested"] != 1 {
		t.Errorf("notifications: %v", f.notif.counts)
	}
}

func TestWithdrawalRequestGuards(t *testing.T) {
	f := newFixture(t, 1)

	// Unverified payout account; wallet untouched.
	wallet := f.wallets.seed(1, 10000, false)
	if _, err := f.wd.Request(1, 5000, domain.WithdrawalMethodBank, ""); !errors.Is(err, domain.ErrPayoutUnverified) {
		t.Errorf("unverified: got %v, want ErrPayoutUnverified", err)
	}
	if wallet.BalanceCents != 10000 || wallet.PendingBalanceCents != 0 {
		t.Errorf("wallet changed by a rejected request: balance=%d pending=%d", wallet.BalanceCents, wallet.PendingBalanceCents)
	}

	wallet.PayoutVerified = true
	if _, err := f.wd.Request(1, 1999, domain.WithdrawalMethodBank, ""); !errors.Is(err, domain.ErrBelowMinimum) {
		t.Errorf("below minimum: got %v, want ErrBelowMinimum", err)
	}
	if _, err := f.wd.Request(1, 10001, domain.WithdrawalMethodBank, ""); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("over balance: got %v, want ErrInsufficientBalance", err)
	}
	if _, err := f.wd.Request(1, 5000, "CARRIER_PIGEON", ""); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("unknown method: got %v, want ErrInvalidState", err)
	}
	if wallet.BalanceCents != 10000 || wallet.PendingBalanceCents != 0 {
		t.Errorf("wallet changed by rejected requests: balance=%d pending=%d", wallet.BalanceCents, wallet.PendingBalanceCents)
	}
}

func TestWithdrawalProcessCompletes(t *testing.T) {
	f := newFixture(t, 1)
	wallet := f.wallets.seed(1, 10000, true)
	wallet.StripeAccountID = "acct_123"

	w, err := f.wd.Request(1, 5000, domain.WithdrawalMethodStripe, "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	done, err := f.wd.Process(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if done.Status != domain.WithdrawalStatusCompleted {
		t.Fatalf("status: got %s, want COMPLETED", done.Status)
	}
	if done.CompletedAt == nil || done.ProviderRef == "" {
		t.Error("completion metadata missing")
	}
	if f.gw.payouts != 1 {
		t.Errorf("gateway payouts: got %d, want 1", f.gw.payouts)
	}

	if wallet.PendingBalanceCents != 0 {
		t.Errorf("pending: got %d, want 0", wallet.PendingBalanceCents)
	}
	if wallet.BalanceCents != 5000 {
		t.Errorf("balance: got %d, want 5000", wallet.BalanceCents)
	}
	if wallet.TotalWithdrawnCents != 5000 {
		t.Errorf("total withdrawn: got %d, want 5000", wallet.TotalWithdrawnCents)
	}

	ledger := f.txs.byKind(domain.TxKindWithdrawal)
	if len(ledger) != 1 {
		t.Fatalf("withdrawal ledger rows: got %d, want 1", len(ledger))
	}
	tx := ledger[0]
	if tx.AmountCents != -5000 || tx.NetCents != -4875 {
		t.Errorf("ledger amounts: amount=%d net=%d, want -5000/-4875", tx.AmountCents, tx.NetCents)
	}
	if tx.FeeCents == nil || *tx.FeeCents != 125 {
		t.Errorf("ledger fee: got %v, want 125", tx.FeeCents)
	}
	if tx.IdempotencyKey != w.OrderID {
		t.Error("ledger row not keyed by order id")
	}
	if f.notif.counts["wd_completed"] != 1 {
		t.Errorf("notifications: %v", f.notif.counts)
	}
}

// Manual methods have no gateway leg; processing completes immediately.
func TestWithdrawalProcessManualMethod(t *testing.T) {
	f := newFixture(t, 1)
	wallet := f.wallets.seed(1, 10000, true)

	w, err := f.wd.Request(1, 3000, domain.WithdrawalMethodWire, "IBAN DE89")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	done, err := f.wd.Process(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if done.Status != domain.WithdrawalStatusCompleted {
		t.Errorf("status: got %s", done.Status)
	}
	if f.gw.payouts != 0 {
		t.Errorf("gateway payouts: got %d, want 0", f.gw.payouts)
	}
	if wallet.TotalWithdrawnCents != 3000 {
		t.Errorf("total withdrawn: got %d", wallet.TotalWithdrawnCents)
	}
}

func TestWithdrawalPayoutFailureRestoresBalance(t *testing.T) {
	f := newFixture(t, 1)
	wallet := f.wallets.seed(1, 10000, true)
	wallet.StripeAccountID = "acct_123"
	f.gw.payoutErr = errors.New("insufficient platform funds")

	w, err := f.wd.Request(1, 5000, domain.WithdrawalMethodStripe, "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	done, err := f.wd.Process(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if done.Status != domain.WithdrawalStatusFailed {
		t.Fatalf("status: got %s, want FAILED", done.Status)
	}
	if done.FailureReason == "" {
		t.Error("failure reason not recorded")
	}

	if wallet.BalanceCents != 10000 || wallet.PendingBalanceCents != 0 {
		t.Errorf("wallet not restored: balance=%d pending=%d", wallet.BalanceCents, wallet.PendingBalanceCents)
	}
	if wallet.TotalWithdrawnCents != 0 {
		t.Errorf("total withdrawn: got %d, want 0", wallet.TotalWithdrawnCents)
	}
	if len(f.txs.byKind(domain.TxKindWithdrawal)) != 0 {
		t.Error("failed payout must not create a ledger row")
	}
}

func TestWithdrawalProcessRequiresPending(t *testing.T) {
	f := newFixture(t, 1)
	f.wallets.seed(1, 10000, true)

	w, err := f.wd.Request(1, 5000, domain.WithdrawalMethodBank, "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.wd.Process(context.Background(), w.ID); err != nil {
		t.Fatalf("first Process: %v", err)
	}
	if _, err := f.wd.Process(context.Background(), w.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Process: got %v, want ErrInvalidState", err)
	}
}

func TestWithdrawalRejectRestoresBalance(t *testing.T) {
	f := newFixture(t, 1)
	wallet := f.wallets.seed(1, 10000, true)

	w, err := f.wd.Request(1, 5000, domain.WithdrawalMethodBank, "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	rejected, err := f.wd.Reject(w.ID, "suspicious activity")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != domain.WithdrawalStatusRejected {
		t.Errorf("status: got %s", rejected.Status)
	}
	if rejected.RejectionReason != "suspicious activity" {
		t.Errorf("reason: got %q", rejected.RejectionReason)
	}
	if wallet.BalanceCents != 10000 || wallet.PendingBalanceCents != 0 {
		t.Errorf("wallet not restored: balance=%d pending=%d", wallet.BalanceCents, wallet.PendingBalanceCents)
	}
	if f.notif.counts["wd_rejected"] != 1 {
		t.Errorf("notifications: %v", f.notif.counts)
	}
}

func TestWithdrawalCancel(t *testing.T) {
	f := newFixture(t, 1, 2)
	wallet := f.wallets.seed(1, 10000, true)

	w, err := f.wd.Request(1, 5000, domain.WithdrawalMethodBank, "")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// Someone else's withdrawal.
	if _, err := f.wd.Cancel(2, w.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("foreign cancel: got %v, want ErrUnauthorized", err)
	}

	cancelled, err := f.wd.Cancel(1, w.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.WithdrawalStatusCancelled {
		t.Errorf("status: got %s", cancelled.Status)
	}
	if wallet.BalanceCents != 10000 || wallet.PendingBalanceCents != 0 {
		t.Errorf("wallet not restored: balance=%d pending=%d", wallet.BalanceCents, wallet.PendingBalanceCents)
	}

	if _, err := f.wd.Cancel(1, w.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("double cancel: got %v, want ErrInvalidState", err)
	}
}
