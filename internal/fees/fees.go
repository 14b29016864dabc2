// Package fees computes platform and withdrawal fees. All math is integer
// cents with half-up rounding so results are deterministic.
package fees

import (
	"peachy/config"
	"peachy/internal/domain"
)

type Calculator struct {
	cfg config.FeeConfig
}

func NewCalculator(cfg config.FeeConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// PayIn returns the platform fee and net amount for a pay-in of gross cents.
func (c *Calculator) PayIn(grossCents int64) (fee, net int64) {
	fee = roundBps(grossCents, c.cfg.PlatformBps)
	return fee, grossCents - fee
}

// Withdrawal returns the processing fee and net payout for a withdrawal.
func (c *Calculator) Withdrawal(amountCents int64) (fee, net int64) {
	fee = roundBps(amountCents, c.cfg.WithdrawalBps)
	return fee, amountCents - fee
}

// ForKind maps a transaction kind to its fee schedule. Refunds and deposits
// carry no fee.
func (c *Calculator) ForKind(kind string, grossCents int64) (fee, net int64) {
	switch kind {
	case domain.TxKindWithdrawal:
		return c.Withdrawal(grossCents)
	case domain.TxKindRefund, domain.TxKindDeposit, domain.TxKindAdjustment, domain.TxKindReferralBonus:
		return 0, grossCents
	default:
		return c.PayIn(grossCents)
	}
}

func (c *Calculator) MinWithdrawalCents() int64 {
	return c.cfg.MinWithdrawalCents
}

// roundBps applies a basis-point rate to cents, rounding half up.
func roundBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}
