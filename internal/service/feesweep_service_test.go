package service

import (
	"testing"

	"peachy/config"
	"peachy/internal/domain"
	"peachy/internal/fees"
	"peachy/internal/models"
)

func sweeperFixture() (*FeeSweeper, *memTxs) {
	txs := newMemTxs()
	calc := fees.NewCalculator(config.FeeConfig{PlatformBps: 1500, WithdrawalBps: 250, MinWithdrawalCents: 2000})
	return NewFeeSweeper(txs, calc, 100), txs
}

func TestFeeSweepBackfillsMissingFees(t *testing.T) {
	sweep, txs := sweeperFixture()

	fee := int64(150)
	_ = txs.Create(&models.Transaction{Kind: domain.TxKindTip, Status: domain.TxStatusCompleted, AmountCents: 10000})
	_ = txs.Create(&models.Transaction{Kind: domain.TxKindTip, Status: domain.TxStatusCompleted, AmountCents: 1000, FeeCents: &fee, NetCents: 850})
	_ = txs.Create(&models.Transaction{Kind: domain.TxKindTip, Status: domain.TxStatusPending, AmountCents: 2000})
	_ = txs.Create(&models.Transaction{Kind: domain.TxKindRefund, Status: domain.TxStatusCompleted, AmountCents: -2000})

	n, err := sweep.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 2 {
		t.Fatalf("updated: got %d, want 2", n)
	}

	first, _ := txs.GetByID(1)
	if first.FeeCents == nil || *first.FeeCents != 1500 || first.NetCents != 8500 {
		t.Errorf("backfilled tip: fee=%v net=%d, want 1500/8500", first.FeeCents, first.NetCents)
	}
	// The already-priced row keeps its original fee.
	second, _ := txs.GetByID(2)
	if *second.FeeCents != 150 || second.NetCents != 850 {
		t.Errorf("priced row changed: fee=%d net=%d", *second.FeeCents, second.NetCents)
	}
	// Pending rows are not the sweeper's business.
	third, _ := txs.GetByID(3)
	if third.FeeCents != nil {
		t.Error("pending row must stay untouched")
	}
	// Negative rows get a zero fee, net mirroring the amount.
	fourth, _ := txs.GetByID(4)
	if fourth.FeeCents == nil || *fourth.FeeCents != 0 || fourth.NetCents != -2000 {
		t.Errorf("refund row: fee=%v net=%d, want 0/-2000", fourth.FeeCents, fourth.NetCents)
	}
}

func TestFeeSweepIsIdempotent(t *testing.T) {
	sweep, txs := sweeperFixture()
	_ = txs.Create(&models.Transaction{Kind: domain.TxKindTip, Status: domain.TxStatusCompleted, AmountCents: 10000})

	if n, _ := sweep.Run(); n != 1 {
		t.Fatalf("first run: got %d, want 1", n)
	}
	if n, _ := sweep.Run(); n != 0 {
		t.Errorf("second run: got %d, want 0", n)
	}
}

func TestFeeSweepHonorsBatchSize(t *testing.T) {
	txs := newMemTxs()
	calc := fees.NewCalculator(config.FeeConfig{PlatformBps: 1500, WithdrawalBps: 250, MinWithdrawalCents: 2000})
	sweep := NewFeeSweeper(txs, calc, 2)

	for i := 0; i < 5; i++ {
		_ = txs.Create(&models.Transaction{Kind: domain.TxKindTip, Status: domain.TxStatusCompleted, AmountCents: 1000})
	}
	if n, _ := sweep.Run(); n != 2 {
		t.Fatalf("batched run: got %d, want 2", n)
	}
	if n, _ := sweep.Run(); n != 2 {
		t.Fatalf("second batch: got %d, want 2", n)
	}
	if n, _ := sweep.Run(); n != 1 {
		t.Fatalf("final batch: got %d, want 1", n)
	}
}
