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
	"peachy/pkg/gateway"
)

// ChargeInput describes one pay-in attempt.
type ChargeInput struct {
	PayerID       uint
	AmountCents   int64
	Currency      string
	Kind          string // TxKindSubscription, SubscriptionRenewal, Tip, PostPurchase, MessagePurchase
	PaymentMethod string // gateway payment-method token

	// IdempotencyKey dedupes client retries; generated when empty.
	IdempotencyKey string

	// Target links, one of which applies per kind.
	RecipientID    uint // tips: the creator being tipped
	SubscriptionID *uint
	PostID         *uint
	MessageID      *uint

	// Tip extras.
	TipPostID    *uint
	TipAnonymous bool
}

// PaymentService drives one pay-in end to end: validate, insert a pending
// ledger row, charge the gateway, then settle. Gateway problems never
// propagate raw; the transaction row always ends in an auditable state.
type PaymentService struct {
	users   UserStore
	wallets WalletStore
	txs     TransactionStore
	tips    TipStore
	gw      gateway.Client
	calc    *fees.Calculator
	settle  *SettlementService
	notify  Notifier
	timeout time.Duration
}

func NewPaymentService(
	users UserStore,
	wallets WalletStore,
	txs TransactionStore,
	tips TipStore,
	gw gateway.Client,
	calc *fees.Calculator,
	settle *SettlementService,
	notify Notifier,
	gatewayTimeout time.Duration,
) *PaymentService {
	return &PaymentService{
		users:   users,
		wallets: wallets,
		txs:     txs,
		tips:    tips,
		gw:      gw,
		calc:    calc,
		settle:  settle,
		notify:  notify,
		timeout: gatewayTimeout,
	}
}

// Charge executes one pay-in attempt. Validation failures return a typed
// error with no state change. Once the pending row exists, the returned
// transaction carries the outcome (COMPLETED, FAILED or
// REQUIRES_VERIFICATION) and the error is nil.
func (s *PaymentService) Charge(ctx context.Context, in ChargeInput) (*models.Transaction, error) {
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidState)
	}
	if in.IdempotencyKey != "" {
		if existing, err := s.txs.GetByIdempotencyKey(in.IdempotencyKey); err == nil {
			return existing, nil
		}
	} else {
		in.IdempotencyKey = uuid.New().String()
	}

	recipient, err := s.validate(&in)
	if err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	// Pending row goes in before the gateway call so a crash mid-charge
	// still leaves an auditable record.
	tx := &models.Transaction{
		UserID:         in.PayerID,
		RecipientID:    &recipient,
		Kind:           in.Kind,
		Status:         domain.TxStatusPending,
		AmountCents:    in.AmountCents,
		Currency:       in.Currency,
		IdempotencyKey: in.IdempotencyKey,
		SubscriptionID: in.SubscriptionID,
		PostID:         in.PostID,
		MessageID:      in.MessageID,
	}
	if in.Kind == domain.TxKindTip {
		// Tip metadata rides on the row so a webhook-side completion keeps
		// the tipper's anonymity choice and post link.
		tx.PostID = in.TipPostID
		tx.TipAnonymous = in.TipAnonymous
	}
	if err := s.txs.Create(tx); err != nil {
		return nil, err
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.gw.CreateCharge(gctx, gateway.ChargeRequest{
		AmountCents:    in.AmountCents,
		Currency:       in.Currency,
		PaymentMethod:  in.PaymentMethod,
		Description:    fmt.Sprintf("peachy %s", in.Kind),
		IdempotencyKey: in.IdempotencyKey,
		Metadata:       map[string]string{"tx_id": fmt.Sprintf("%d", tx.ID)},
	})
	if err != nil {
		// Network errors and timeouts land on the same failed path as an
		// explicit decline.
		tx.Status = domain.TxStatusFailed
		tx.FailureReason = err.Error()
		if uerr := s.txs.Update(tx); uerr != nil {
			log.Printf("[Payment] failed to persist failure for tx %d: %v", tx.ID, uerr)
		}
		return tx, nil
	}

	tx.ProviderRef = res.Reference
	switch res.Status {
	case gateway.ChargeRequiresAction:
		tx.Status = domain.TxStatusRequiresVerification
		if err := s.txs.Update(tx); err != nil {
			return nil, err
		}
		return tx, nil
	case gateway.ChargeFailed:
		tx.Status = domain.TxStatusFailed
		tx.FailureReason = res.FailureReason
		if err := s.txs.Update(tx); err != nil {
			return nil, err
		}
		return tx, nil
	}

	return tx, s.complete(tx)
}

// complete finalizes a successful charge: fee, terminal status, settlement
// side effects, notifications. Everything it needs lives on the row, so the
// synchronous and webhook paths share it.
func (s *PaymentService) complete(tx *models.Transaction) error {
	fee, net := s.calc.ForKind(tx.Kind, tx.AmountCents)
	now := time.Now()
	tx.FeeCents = &fee
	tx.NetCents = net
	tx.Status = domain.TxStatusCompleted
	tx.ProcessedAt = &now
	if err := s.txs.Update(tx); err != nil {
		return err
	}

	var tip *models.Tip
	if tx.Kind == domain.TxKindTip {
		tip = &models.Tip{
			FromUserID:    tx.UserID,
			ToUserID:      *tx.RecipientID,
			PostID:        tx.PostID,
			TransactionID: tx.ID,
			AmountCents:   tx.AmountCents,
			Anonymous:     tx.TipAnonymous,
		}
		if err := s.tips.Create(tip); err != nil {
			return err
		}
	}

	if err := s.settle.Apply(tx); err != nil {
		// The charge is real; keep the completed row on the books but undo
		// the tip record, which must not outlive a failed settlement.
		log.Printf("[Payment] settlement of tx %d failed: %v", tx.ID, err)
		if tip != nil {
			if derr := s.tips.Delete(tip.ID); derr != nil {
				log.Printf("[Payment] compensating tip delete failed: %v", derr)
			}
		}
		return err
	}

	s.notify.PaymentConfirmed(tx.UserID, tx.AmountCents, tx.ProviderRef)
	if tx.Kind == domain.TxKindTip && tx.RecipientID != nil {
		s.notify.TipReceived(*tx.RecipientID, tx.NetCents, tx.TipAnonymous)
	}
	return nil
}

// CompleteVerified finishes a charge that previously required additional
// authentication, keyed by the gateway reference (webhook path).
func (s *PaymentService) CompleteVerified(providerRef string) (*models.Transaction, error) {
	tx, err := s.txs.GetByProviderRef(providerRef)
	if err != nil {
		return nil, err
	}
	switch tx.Status {
	case domain.TxStatusCompleted:
		return tx, nil // webhook replay
	case domain.TxStatusRequiresVerification, domain.TxStatusPending:
	default:
		return nil, fmt.Errorf("%w: transaction is %s", domain.ErrInvalidState, tx.Status)
	}
	return tx, s.complete(tx)
}

// FailVerified marks a pending verification charge as failed (webhook path).
func (s *PaymentService) FailVerified(providerRef, reason string) (*models.Transaction, error) {
	tx, err := s.txs.GetByProviderRef(providerRef)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.TxStatusRequiresVerification && tx.Status != domain.TxStatusPending {
		return tx, nil
	}
	tx.Status = domain.TxStatusFailed
	tx.FailureReason = reason
	return tx, s.txs.Update(tx)
}

// Refund reverses a completed transaction: gateway refund of the gross,
// settlement reversal of the net credit, a refund ledger row of -gross, and
// the original flipped to REFUNDED.
func (s *PaymentService) Refund(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	orig, err := s.txs.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if orig.Status != domain.TxStatusCompleted || orig.ProviderRef == "" {
		return nil, domain.ErrNotRefundable
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.gw.CreateRefund(gctx, orig.ProviderRef, orig.AmountCents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	if err := s.settle.Reverse(orig); err != nil {
		return nil, err
	}

	now := time.Now()
	zero := int64(0)
	refundTx := &models.Transaction{
		UserID:         orig.UserID,
		RecipientID:    orig.RecipientID,
		Kind:           domain.TxKindRefund,
		Status:         domain.TxStatusCompleted,
		AmountCents:    -orig.AmountCents,
		FeeCents:       &zero,
		NetCents:       -orig.AmountCents,
		Currency:       orig.Currency,
		ProviderRef:    res.Reference,
		IdempotencyKey: uuid.New().String(),
		RefundOfID:     &orig.ID,
		SubscriptionID: orig.SubscriptionID,
		PostID:         orig.PostID,
		MessageID:      orig.MessageID,
		ProcessedAt:    &now,
	}
	if err := s.txs.Create(refundTx); err != nil {
		return nil, err
	}

	orig.Status = domain.TxStatusRefunded
	if err := s.txs.Update(orig); err != nil {
		return nil, err
	}

	s.notify.RefundIssued(orig.UserID, orig.AmountCents)
	return refundTx, nil
}

// validate resolves the earning recipient for the charge and enforces the
// pre-mutation business rules.
func (s *PaymentService) validate(in *ChargeInput) (uint, error) {
	if _, err := s.users.GetByID(in.PayerID); err != nil {
		return 0, domain.ErrNotFound
	}
	switch in.Kind {
	case domain.TxKindTip:
		if in.RecipientID == 0 {
			return 0, domain.ErrNotFound
		}
		if in.RecipientID == in.PayerID {
			return 0, domain.ErrSelfPayment
		}
		if _, err := s.users.GetByID(in.RecipientID); err != nil {
			return 0, domain.ErrNotFound
		}
		return in.RecipientID, nil
	case domain.TxKindSubscription, domain.TxKindSubscriptionRenewal:
		if in.SubscriptionID == nil {
			return 0, domain.ErrNotFound
		}
		sub, err := s.settle.subs.GetByID(*in.SubscriptionID)
		if err != nil {
			return 0, domain.ErrNotFound
		}
		if sub.CreatorID == in.PayerID {
			return 0, domain.ErrSelfPayment
		}
		return sub.CreatorID, nil
	case domain.TxKindPostPurchase:
		if in.PostID == nil {
			return 0, domain.ErrNotFound
		}
		post, err := s.settle.posts.GetByID(*in.PostID)
		if err != nil {
			return 0, domain.ErrNotFound
		}
		if post.CreatorID == in.PayerID {
			return 0, domain.ErrSelfPayment
		}
		return post.CreatorID, nil
	case domain.TxKindMessagePurchase:
		if in.MessageID == nil {
			return 0, domain.ErrNotFound
		}
		msg, err := s.settle.msgs.GetByID(*in.MessageID)
		if err != nil {
			return 0, domain.ErrNotFound
		}
		if msg.RecipientID != in.PayerID {
			return 0, domain.ErrUnauthorized
		}
		return msg.SenderID, nil
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedKind, in.Kind)
	}
}
