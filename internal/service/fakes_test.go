package service

import (
	"context"
	"errors"
	"sync"

	"peachy/internal/domain"
	"peachy/internal/models"
	"peachy/pkg/gateway"
)

// In-memory stores standing in for the GORM repositories.

type memUsers struct {
	users map[uint]*models.User
}

func newMemUsers(ids ...uint) *memUsers {
	m := &memUsers{users: make(map[uint]*models.User)}
	for _, id := range ids {
		m.users[id] = &models.User{ID: id, Role: domain.RoleCreator}
	}
	return m
}

func (m *memUsers) GetByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type memWallets struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
}

func newMemWallets() *memWallets {
	return &memWallets{wallets: make(map[uint]*models.Wallet)}
}

func (m *memWallets) seed(userID uint, balance int64, verified bool) *models.Wallet {
	w := &models.Wallet{
		UserID:             userID,
		BalanceCents:       balance,
		MinWithdrawalCents: 2000,
		Currency:           "USD",
		PayoutVerified:     verified,
	}
	m.wallets[userID] = w
	return w
}

func (m *memWallets) GetByUserID(userID uint) (*models.Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (m *memWallets) GetOrCreate(userID uint) (*models.Wallet, error) {
	if w, ok := m.wallets[userID]; ok {
		return w, nil
	}
	w := &models.Wallet{UserID: userID, MinWithdrawalCents: 2000, Currency: "USD"}
	m.wallets[userID] = w
	return w, nil
}

func (m *memWallets) Adjust(userID uint, deltaCents int64, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.GetOrCreate(userID)
	if err != nil {
		return err
	}
	if deltaCents < 0 && w.BalanceCents+deltaCents < 0 {
		return domain.ErrInsufficientBalance
	}
	w.BalanceCents += deltaCents
	w.TotalEarnedCents += deltaCents
	if deltaCents > 0 {
		switch category {
		case domain.EarningTip:
			w.TotalTipsCents += deltaCents
		case domain.EarningSubscription:
			w.TotalSubscriptionsCents += deltaCents
		case domain.EarningPPV:
			w.TotalPPVCents += deltaCents
		}
	}
	return nil
}

func (m *memWallets) DebitUpTo(userID uint, amountCents int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	applied := amountCents
	if applied > w.BalanceCents {
		applied = w.BalanceCents
	}
	w.BalanceCents -= applied
	w.TotalEarnedCents -= applied
	return applied, nil
}

func (m *memWallets) Save(w *models.Wallet) error {
	m.wallets[w.UserID] = w
	return nil
}

type memTxs struct {
	nextID uint
	rows   []*models.Transaction
}

func newMemTxs() *memTxs { return &memTxs{} }

func (m *memTxs) Create(t *models.Transaction) error {
	m.nextID++
	t.ID = m.nextID
	m.rows = append(m.rows, t)
	return nil
}

func (m *memTxs) Update(t *models.Transaction) error {
	for i, r := range m.rows {
		if r.ID == t.ID {
			m.rows[i] = t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memTxs) GetByID(id uint) (*models.Transaction, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTxs) GetByProviderRef(ref string) (*models.Transaction, error) {
	for _, r := range m.rows {
		if r.ProviderRef == ref {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTxs) GetByIdempotencyKey(key string) (*models.Transaction, error) {
	for _, r := range m.rows {
		if r.IdempotencyKey == key {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTxs) ListCompletedMissingFee(limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, r := range m.rows {
		if r.Status == domain.TxStatusCompleted && r.FeeCents == nil {
			out = append(out, *r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memTxs) byKind(kind string) []*models.Transaction {
	var out []*models.Transaction
	for _, r := range m.rows {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

type memWithdrawals struct {
	nextID  uint
	rows    []*models.Withdrawal
	wallets *memWallets
}

func newMemWithdrawals(wallets *memWallets) *memWithdrawals {
	return &memWithdrawals{wallets: wallets}
}

func (m *memWithdrawals) Reserve(w *models.Withdrawal) error {
	wallet, err := m.wallets.GetOrCreate(w.UserID)
	if err != nil {
		return err
	}
	if wallet.BalanceCents < w.AmountCents {
		return domain.ErrInsufficientBalance
	}
	wallet.BalanceCents -= w.AmountCents
	wallet.PendingBalanceCents += w.AmountCents
	m.nextID++
	w.ID = m.nextID
	m.rows = append(m.rows, w)
	return nil
}

func (m *memWithdrawals) Finalize(w *models.Withdrawal) error {
	wallet, err := m.wallets.GetByUserID(w.UserID)
	if err != nil {
		return err
	}
	wallet.PendingBalanceCents -= w.AmountCents
	wallet.TotalWithdrawnCents += w.AmountCents
	return m.Update(w)
}

func (m *memWithdrawals) Release(w *models.Withdrawal) error {
	wallet, err := m.wallets.GetByUserID(w.UserID)
	if err != nil {
		return err
	}
	wallet.PendingBalanceCents -= w.AmountCents
	wallet.BalanceCents += w.AmountCents
	return m.Update(w)
}

func (m *memWithdrawals) GetByID(id uint) (*models.Withdrawal, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memWithdrawals) Update(w *models.Withdrawal) error {
	for i, r := range m.rows {
		if r.ID == w.ID {
			m.rows[i] = w
			return nil
		}
	}
	return domain.ErrNotFound
}

type memSubs struct {
	subs map[uint]*models.Subscription
}

func (m *memSubs) GetByID(id uint) (*models.Subscription, error) {
	s, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *memSubs) Update(s *models.Subscription) error {
	m.subs[s.ID] = s
	return nil
}

type memPosts struct {
	posts     map[uint]*models.Post
	purchases []*models.PostPurchase
}

func (m *memPosts) GetByID(id uint) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memPosts) CreatePurchase(p *models.PostPurchase) error {
	m.purchases = append(m.purchases, p)
	return nil
}

func (m *memPosts) DeletePurchase(postID, userID uint) error {
	for i, p := range m.purchases {
		if p.PostID == postID && p.UserID == userID {
			m.purchases = append(m.purchases[:i], m.purchases[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memPosts) hasPurchase(postID, userID uint) bool {
	for _, p := range m.purchases {
		if p.PostID == postID && p.UserID == userID {
			return true
		}
	}
	return false
}

type memMsgs struct {
	msgs map[uint]*models.Message
}

func (m *memMsgs) GetByID(id uint) (*models.Message, error) {
	msg, ok := m.msgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return msg, nil
}

func (m *memMsgs) Update(msg *models.Message) error {
	m.msgs[msg.ID] = msg
	return nil
}

type memTips struct {
	nextID     uint
	tips       map[uint]*models.Tip
	fail       bool // force Create to fail
	failUpdate bool // force Update to fail, for the compensating-delete path
}

func newMemTips() *memTips { return &memTips{tips: make(map[uint]*models.Tip)} }

func (m *memTips) Create(t *models.Tip) error {
	if m.fail {
		return errors.New("tip insert failed")
	}
	m.nextID++
	t.ID = m.nextID
	m.tips[t.ID] = t
	return nil
}

func (m *memTips) GetByTransactionID(txID uint) (*models.Tip, error) {
	for _, t := range m.tips {
		if t.TransactionID == txID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTips) Update(t *models.Tip) error {
	if m.failUpdate {
		return errors.New("tip update failed")
	}
	m.tips[t.ID] = t
	return nil
}

func (m *memTips) Delete(id uint) error {
	delete(m.tips, id)
	return nil
}

// recordingNotifier counts notifications per kind.
type recordingNotifier struct {
	counts       map[string]int
	tipAnonymous bool // flag carried by the last TipReceived
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{counts: make(map[string]int)}
}

func (n *recordingNotifier) PaymentConfirmed(uint, int64, string) { n.counts["payment"]++ }

func (n *recordingNotifier) TipReceived(_ uint, _ int64, anonymous bool) {
	n.counts["tip"]++
	n.tipAnonymous = anonymous
}

func (n *recordingNotifier) RefundIssued(uint, int64)             { n.counts["refund"]++ }
func (n *recordingNotifier) WithdrawalRequested(uint, int64)      { n.counts["wd_requested"]++ }
func (n *recordingNotifier) WithdrawalCompleted(uint, int64)      { n.counts["wd_completed"]++ }
func (n *recordingNotifier) WithdrawalRejected(uint, string)      { n.counts["wd_rejected"]++ }
func (n *recordingNotifier) PayoutAccountVerified(uint)           { n.counts["payout_verified"]++ }

// fakeGateway returns scripted outcomes.
type fakeGateway struct {
	chargeStatus  gateway.ChargeStatus
	chargeErr     error
	failureReason string
	payoutErr     error
	refundErr     error
	charges       int
	payouts       int
	refunds       int
}

func (g *fakeGateway) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	g.charges++
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	status := g.chargeStatus
	if status == "" {
		status = gateway.ChargeSucceeded
	}
	return &gateway.ChargeResult{
		Status:        status,
		Reference:     "pi_test",
		FailureReason: g.failureReason,
	}, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, chargeRef string, amountCents int64) (*gateway.RefundResult, error) {
	g.refunds++
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	return &gateway.RefundResult{Reference: "re_test", Status: "succeeded"}, nil
}

func (g *fakeGateway) CreatePayout(ctx context.Context, req gateway.PayoutRequest) (*gateway.PayoutResult, error) {
	g.payouts++
	if g.payoutErr != nil {
		return nil, g.payoutErr
	}
	return &gateway.PayoutResult{Reference: "tr_test", Status: "PAID"}, nil
}

func (g *fakeGateway) CreateAccount(ctx context.Context, email string) (string, error) {
	return "acct_test", nil
}

func (g *fakeGateway) GetAccount(ctx context.Context, accountID string) (*gateway.Account, error) {
	return &gateway.Account{ID: accountID, ChargesEnabled: true, PayoutsEnabled: true}, nil
}
