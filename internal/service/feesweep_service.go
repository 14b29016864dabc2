package service

import (
	"log"

	"peachy/internal/fees"
)

// FeeSweeper backfills the platform fee on completed transactions that were
// recorded without one. It only touches rows whose fee is NULL, so running
// it repeatedly is safe.
type FeeSweeper struct {
	txs       TransactionStore
	calc      *fees.Calculator
	batchSize int
}

func NewFeeSweeper(txs TransactionStore, calc *fees.Calculator, batchSize int) *FeeSweeper {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &FeeSweeper{txs: txs, calc: calc, batchSize: batchSize}
}

// Run assigns fees to one batch and returns how many rows changed.
func (s *FeeSweeper) Run() (int, error) {
	rows, err := s.txs.ListCompletedMissingFee(s.batchSize)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range rows {
		t := &rows[i]
		var fee, net int64
		if t.AmountCents > 0 {
			fee, net = s.calc.ForKind(t.Kind, t.AmountCents)
		} else {
			// Negative rows (withdrawals, refunds) never owe a platform fee.
			fee, net = 0, t.AmountCents
		}
		t.FeeCents = &fee
		t.NetCents = net
		if err := s.txs.Update(t); err != nil {
			return updated, err
		}
		updated++
	}
	if updated > 0 {
		log.Printf("[FeeSweep] backfilled %d transactions", updated)
	}
	return updated, nil
}
