package fees

import (
	"testing"

	"peachy/config"
	"peachy/internal/domain"
)

func defaultCalc() *Calculator {
	return NewCalculator(config.FeeConfig{
		PlatformBps:        1500,
		WithdrawalBps:      250,
		MinWithdrawalCents: 2000,
	})
}

func TestPayInSchedule(t *testing.T) {
	c := defaultCalc()

	fee, net := c.PayIn(10000) // $100.00 tip
	if fee != 1500 {
		t.Errorf("fee: got %d, want 1500", fee)
	}
	if net != 8500 {
		t.Errorf("net: got %d, want 8500", net)
	}
}

func TestWithdrawalSchedule(t *testing.T) {
	c := defaultCalc()

	fee, net := c.Withdrawal(5000) // $50.00
	if fee != 125 {
		t.Errorf("fee: got %d, want 125", fee)
	}
	if net != 4875 {
		t.Errorf("net: got %d, want 4875", net)
	}
}

// Fee plus net must reconstruct the gross for every kind and amount.
func TestFeePlusNetEqualsGross(t *testing.T) {
	c := defaultCalc()
	kinds := []string{
		domain.TxKindSubscription,
		domain.TxKindSubscriptionRenewal,
		domain.TxKindTip,
		domain.TxKindPostPurchase,
		domain.TxKindMessagePurchase,
		domain.TxKindWithdrawal,
		domain.TxKindRefund,
		domain.TxKindDeposit,
	}
	amounts := []int64{1, 3, 99, 100, 101, 2000, 4999, 10000, 123457, 99999999}
	for _, k := range kinds {
		for _, a := range amounts {
			fee, net := c.ForKind(k, a)
			if fee+net != a {
				t.Errorf("%s(%d): fee %d + net %d != gross", k, a, fee, net)
			}
			if fee < 0 || net < 0 {
				t.Errorf("%s(%d): negative component fee=%d net=%d", k, a, fee, net)
			}
		}
	}
}

func TestNoFeeOnRefundsAndDeposits(t *testing.T) {
	c := defaultCalc()
	for _, k := range []string{domain.TxKindRefund, domain.TxKindDeposit, domain.TxKindAdjustment, domain.TxKindReferralBonus} {
		fee, net := c.ForKind(k, 10000)
		if fee != 0 || net != 10000 {
			t.Errorf("%s: got fee=%d net=%d, want 0/10000", k, fee, net)
		}
	}
}

func TestHalfUpRounding(t *testing.T) {
	c := defaultCalc()
	// 15% of 10 cents is 1.5 cents; rounds up to 2.
	if fee, _ := c.PayIn(10); fee != 2 {
		t.Errorf("PayIn(10) fee: got %d, want 2", fee)
	}
	// 2.5% of 20 cents is 0.5 cents; rounds up to 1.
	if fee, _ := c.Withdrawal(20); fee != 1 {
		t.Errorf("Withdrawal(20) fee: got %d, want 1", fee)
	}
}

// Schedule comes from config, not constants: a different rate must flow through.
func TestInjectedSchedule(t *testing.T) {
	c := NewCalculator(config.FeeConfig{PlatformBps: 1000, WithdrawalBps: 500})
	if fee, net := c.PayIn(10000); fee != 1000 || net != 9000 {
		t.Errorf("10%% schedule: got fee=%d net=%d", fee, net)
	}
	if fee, _ := c.Withdrawal(10000); fee != 500 {
		t.Errorf("5%% withdrawal schedule: got fee=%d", fee)
	}
}
