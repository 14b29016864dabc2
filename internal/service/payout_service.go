package service

import (
	"context"
	"fmt"
	"time"

	"peachy/internal/domain"
	"peachy/internal/models"
	"peachy/internal/secure"
	"peachy/pkg/gateway"
)

// PayoutService manages the payout account linkage on a wallet. Stripe
// accounts verify against the gateway's capability flags; manual methods
// (PayPal email, bank details) stay unverified until an admin flips them
// after human review.
type PayoutService struct {
	wallets WalletStore
	gw      gateway.Client
	box     *secure.Box
	notify  Notifier
	timeout time.Duration
}

func NewPayoutService(wallets WalletStore, gw gateway.Client, box *secure.Box, notify Notifier, gatewayTimeout time.Duration) *PayoutService {
	return &PayoutService{wallets: wallets, gw: gw, box: box, notify: notify, timeout: gatewayTimeout}
}

// LinkStripeAccount creates (or reuses) a connected account for the user.
func (s *PayoutService) LinkStripeAccount(ctx context.Context, userID uint, email string) (*models.Wallet, error) {
	wallet, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if wallet.StripeAccountID == "" {
		gctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		acctID, err := s.gw.CreateAccount(gctx, email)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
		}
		wallet.StripeAccountID = acctID
	}
	wallet.PayoutMethod = domain.WithdrawalMethodStripe
	wallet.PayoutVerified = false
	if err := s.wallets.Save(wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// VerifyStripeAccount refreshes the verified flag from the gateway's
// capability report: both charges and payouts must be enabled.
func (s *PayoutService) VerifyStripeAccount(ctx context.Context, userID uint) (bool, error) {
	wallet, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return false, err
	}
	if wallet.StripeAccountID == "" {
		return false, fmt.Errorf("%w: no connected account", domain.ErrInvalidState)
	}
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	acct, err := s.gw.GetAccount(gctx, wallet.StripeAccountID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	verified := acct.ChargesEnabled && acct.PayoutsEnabled
	wasVerified := wallet.PayoutVerified
	wallet.PayoutVerified = verified
	if err := s.wallets.Save(wallet); err != nil {
		return false, err
	}
	if verified && !wasVerified {
		s.notify.PayoutAccountVerified(userID)
	}
	return verified, nil
}

// SetPayPal stores a PayPal payout email. Requires admin verification.
func (s *PayoutService) SetPayPal(userID uint, email string) error {
	wallet, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return err
	}
	wallet.PayoutMethod = domain.WithdrawalMethodPayPal
	wallet.PayPalEmail = email
	wallet.PayoutVerified = false
	return s.wallets.Save(wallet)
}

// SetBankDetails stores bank details encrypted at rest. Requires admin
// verification.
func (s *PayoutService) SetBankDetails(userID uint, details string) error {
	wallet, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return err
	}
	enc, err := s.box.Encrypt(details)
	if err != nil {
		return err
	}
	wallet.PayoutMethod = domain.WithdrawalMethodBank
	wallet.BankDetailsEnc = enc
	wallet.PayoutVerified = false
	return s.wallets.Save(wallet)
}

// AdminSetVerified is the manual review flip for non-Stripe methods.
func (s *PayoutService) AdminSetVerified(userID uint, verified bool) error {
	wallet, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return err
	}
	wasVerified := wallet.PayoutVerified
	wallet.PayoutVerified = verified
	if err := s.wallets.Save(wallet); err != nil {
		return err
	}
	if verified && !wasVerified {
		s.notify.PayoutAccountVerified(userID)
	}
	return nil
}
