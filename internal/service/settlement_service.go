package service

import (
	"fmt"
	"log"
	"time"

	"peachy/internal/domain"
	"peachy/internal/models"
)

// SettlementService translates a completed transaction into its domain
// effect and reverses it symmetrically on refund. It never touches the
// transaction's own status; that stays with the payment orchestrator.
type SettlementService struct {
	wallets WalletStore
	subs    SubscriptionStore
	posts   PostStore
	msgs    MessageStore
	tips    TipStore
	txs     TransactionStore
}

func NewSettlementService(
	wallets WalletStore,
	subs SubscriptionStore,
	posts PostStore,
	msgs MessageStore,
	tips TipStore,
	txs TransactionStore,
) *SettlementService {
	return &SettlementService{wallets: wallets, subs: subs, posts: posts, msgs: msgs, tips: tips, txs: txs}
}

// Apply runs the business effect of a completed pay-in. Unknown kinds are an
// error, never a silent no-op.
func (s *SettlementService) Apply(tx *models.Transaction) error {
	switch tx.Kind {
	case domain.TxKindSubscription, domain.TxKindSubscriptionRenewal:
		return s.applySubscription(tx)
	case domain.TxKindPostPurchase:
		return s.applyPostPurchase(tx)
	case domain.TxKindMessagePurchase:
		return s.applyMessagePurchase(tx)
	case domain.TxKindTip:
		return s.applyTip(tx)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedKind, tx.Kind)
	}
}

// Reverse undoes the effect of Apply for a refunded transaction. The wallet
// debit uses the net amount (what the creator was actually credited) and
// clamps at zero rather than failing; any shortfall is recorded as an
// adjustment row so the books stay auditable. The refunded payer receives
// the gross via the gateway; the fee delta is the platform's cost.
func (s *SettlementService) Reverse(tx *models.Transaction) error {
	switch tx.Kind {
	case domain.TxKindSubscription, domain.TxKindSubscriptionRenewal:
		return s.reverseSubscription(tx)
	case domain.TxKindPostPurchase:
		return s.reversePostPurchase(tx)
	case domain.TxKindMessagePurchase:
		return s.reverseMessagePurchase(tx)
	case domain.TxKindTip:
		return s.reverseTip(tx)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedKind, tx.Kind)
	}
}

func (s *SettlementService) applySubscription(tx *models.Transaction) error {
	if tx.SubscriptionID == nil {
		return fmt.Errorf("%w: subscription link missing", domain.ErrInvalidState)
	}
	sub, err := s.subs.GetByID(*tx.SubscriptionID)
	if err != nil {
		return err
	}
	sub.Status = domain.SubscriptionStatusActive
	sub.EndsAt = nil
	base := time.Now()
	if sub.NextBillingAt != nil && sub.NextBillingAt.After(base) {
		base = *sub.NextBillingAt
	}
	next := base.AddDate(0, 0, sub.PeriodDays)
	sub.NextBillingAt = &next
	if err := s.subs.Update(sub); err != nil {
		return err
	}
	return s.wallets.Adjust(sub.CreatorID, tx.NetCents, domain.EarningSubscription)
}

func (s *SettlementService) reverseSubscription(tx *models.Transaction) error {
	if tx.SubscriptionID == nil {
		return fmt.Errorf("%w: subscription link missing", domain.ErrInvalidState)
	}
	sub, err := s.subs.GetByID(*tx.SubscriptionID)
	if err != nil {
		return err
	}
	now := time.Now()
	sub.Status = domain.SubscriptionStatusCancelled
	sub.EndsAt = &now
	sub.NextBillingAt = nil
	if err := s.subs.Update(sub); err != nil {
		return err
	}
	return s.debitClamped(sub.CreatorID, tx)
}

func (s *SettlementService) applyPostPurchase(tx *models.Transaction) error {
	if tx.PostID == nil {
		return fmt.Errorf("%w: post link missing", domain.ErrInvalidState)
	}
	post, err := s.posts.GetByID(*tx.PostID)
	if err != nil {
		return err
	}
	err = s.posts.CreatePurchase(&models.PostPurchase{
		PostID:        post.ID,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
	})
	if err != nil {
		return err
	}
	return s.wallets.Adjust(post.CreatorID, tx.NetCents, domain.EarningPPV)
}

func (s *SettlementService) reversePostPurchase(tx *models.Transaction) error {
	if tx.PostID == nil {
		return fmt.Errorf("%w: post link missing", domain.ErrInvalidState)
	}
	post, err := s.posts.GetByID(*tx.PostID)
	if err != nil {
		return err
	}
	if err := s.posts.DeletePurchase(post.ID, tx.UserID); err != nil {
		return err
	}
	return s.debitClamped(post.CreatorID, tx)
}

func (s *SettlementService) applyMessagePurchase(tx *models.Transaction) error {
	if tx.MessageID == nil {
		return fmt.Errorf("%w: message link missing", domain.ErrInvalidState)
	}
	msg, err := s.msgs.GetByID(*tx.MessageID)
	if err != nil {
		return err
	}
	msg.Paid = true
	if err := s.msgs.Update(msg); err != nil {
		return err
	}
	return s.wallets.Adjust(msg.SenderID, tx.NetCents, domain.EarningPPV)
}

func (s *SettlementService) reverseMessagePurchase(tx *models.Transaction) error {
	if tx.MessageID == nil {
		return fmt.Errorf("%w: message link missing", domain.ErrInvalidState)
	}
	msg, err := s.msgs.GetByID(*tx.MessageID)
	if err != nil {
		return err
	}
	msg.Paid = false
	if err := s.msgs.Update(msg); err != nil {
		return err
	}
	return s.debitClamped(msg.SenderID, tx)
}

func (s *SettlementService) applyTip(tx *models.Transaction) error {
	if tx.RecipientID == nil {
		return fmt.Errorf("%w: tip recipient missing", domain.ErrInvalidState)
	}
	if err := s.wallets.Adjust(*tx.RecipientID, tx.NetCents, domain.EarningTip); err != nil {
		return err
	}
	tip, err := s.tips.GetByTransactionID(tx.ID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil
		}
		return err
	}
	tip.Notified = true
	return s.tips.Update(tip)
}

func (s *SettlementService) reverseTip(tx *models.Transaction) error {
	if tx.RecipientID == nil {
		return fmt.Errorf("%w: tip recipient missing", domain.ErrInvalidState)
	}
	return s.debitClamped(*tx.RecipientID, tx)
}

// debitClamped takes back the net credit from a wallet without driving the
// balance negative. A shortfall gets its own adjustment row.
func (s *SettlementService) debitClamped(userID uint, tx *models.Transaction) error {
	applied, err := s.wallets.DebitUpTo(userID, tx.NetCents)
	if err != nil {
		return err
	}
	if applied < tx.NetCents {
		short := tx.NetCents - applied
		log.Printf("[Settlement] reversal of tx %d short by %d cents on wallet %d", tx.ID, short, userID)
		now := time.Now()
		zero := int64(0)
		adj := &models.Transaction{
			UserID:      userID,
			Kind:        domain.TxKindAdjustment,
			Status:      domain.TxStatusCompleted,
			AmountCents: -short,
			FeeCents:    &zero,
			NetCents:    -short,
			Currency:    tx.Currency,
			RefundOfID:  &tx.ID,
			ProcessedAt: &now,
		}
		if err := s.txs.Create(adj); err != nil {
			return err
		}
	}
	return nil
}
