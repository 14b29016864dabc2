package service

import (
	"encoding/json"
	"log"

	"peachy/internal/models"
)

type NotificationStore interface {
	Create(n *models.Notification) error
}

// NotificationService persists notification records. Errors are logged and
// swallowed so financial flows never fail on a notification.
type NotificationService struct {
	repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) notify(userID uint, kind, title, body string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		log.Printf("[Notify] %s for user %d failed: %v", kind, userID, err)
	}
}

func (s *NotificationService) PaymentConfirmed(userID uint, amountCents int64, reference string) {
	s.notify(userID, "PAYMENT_CONFIRMED", "Payment confirmed", "Your payment was successful.",
		map[string]interface{}{"amount_cents": amountCents, "reference": reference})
}

func (s *NotificationService) TipReceived(userID uint, amountCents int64, anonymous bool) {
	body := "You received a tip!"
	if anonymous {
		body = "You received an anonymous tip!"
	}
	s.notify(userID, "TIP_RECEIVED", "New tip", body,
		map[string]interface{}{"amount_cents": amountCents})
}

func (s *NotificationService) RefundIssued(userID uint, amountCents int64) {
	s.notify(userID, "REFUND_ISSUED", "Refund issued", "Your payment was refunded.",
		map[string]interface{}{"amount_cents": amountCents})
}

func (s *NotificationService) WithdrawalRequested(userID uint, amountCents int64) {
	s.notify(userID, "WITHDRAWAL_REQUESTED", "Withdrawal requested", "Your withdrawal is being reviewed.",
		map[string]interface{}{"amount_cents": amountCents})
}

func (s *NotificationService) WithdrawalCompleted(userID uint, amountCents int64) {
	s.notify(userID, "WITHDRAWAL_COMPLETED", "Withdrawal sent", "Your withdrawal is on its way.",
		map[string]interface{}{"amount_cents": amountCents})
}

func (s *NotificationService) WithdrawalRejected(userID uint, reason string) {
	s.notify(userID, "WITHDRAWAL_REJECTED", "Withdrawal rejected", reason, nil)
}

func (s *NotificationService) PayoutAccountVerified(userID uint) {
	s.notify(userID, "PAYOUT_VERIFIED", "Payout account verified", "You can now withdraw your earnings.", nil)
}
