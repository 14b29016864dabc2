package domain

const (
	RoleFan     = "FAN"
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
)

// Transaction kinds. One row per monetary movement.
const (
	TxKindSubscription        = "SUBSCRIPTION"
	TxKindSubscriptionRenewal = "SUBSCRIPTION_RENEWAL"
	TxKindTip                 = "TIP"
	TxKindPostPurchase        = "POST_PURCHASE"
	TxKindMessagePurchase     = "MESSAGE_PURCHASE"
	TxKindWithdrawal          = "WITHDRAWAL"
	TxKindRefund              = "REFUND"
	TxKindDeposit             = "DEPOSIT"
	TxKindPlatformFee         = "PLATFORM_FEE"
	TxKindAdjustment          = "ADJUSTMENT"
	TxKindReferralBonus       = "REFERRAL_BONUS"
)

// Transaction statuses. PENDING moves to COMPLETED, FAILED or
// REQUIRES_VERIFICATION; COMPLETED may later move to REFUNDED. No other
// transitions.
const (
	TxStatusPending              = "PENDING"
	TxStatusCompleted            = "COMPLETED"
	TxStatusFailed               = "FAILED"
	TxStatusRequiresVerification = "REQUIRES_VERIFICATION"
	TxStatusRefunded             = "REFUNDED"
)

const (
	WithdrawalStatusPending    = "PENDING"
	WithdrawalStatusProcessing = "PROCESSING"
	WithdrawalStatusCompleted  = "COMPLETED"
	WithdrawalStatusFailed     = "FAILED"
	WithdrawalStatusRejected   = "REJECTED"
	WithdrawalStatusCancelled  = "CANCELLED"
)

const (
	WithdrawalMethodBank   = "BANK_TRANSFER"
	WithdrawalMethodPayPal = "PAYPAL"
	WithdrawalMethodStripe = "STRIPE"
	WithdrawalMethodCrypto = "CRYPTO"
	WithdrawalMethodCheck  = "CHECK"
	WithdrawalMethodWire   = "WIRE"
	WithdrawalMethodOther  = "OTHER"
)

// Earning categories select which lifetime counter a wallet credit bumps.
// Message unlocks count as pay-per-view.
const (
	EarningTip          = "TIP"
	EarningSubscription = "SUBSCRIPTION"
	EarningPPV          = "PPV"
)

const (
	SubscriptionStatusPending   = "PENDING"
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusCancelled = "CANCELLED"
	SubscriptionStatusExpired   = "EXPIRED"
)

// EstimatedArrivalDays per withdrawal method, used when creating a request.
var EstimatedArrivalDays = map[string]int{
	WithdrawalMethodBank:   3,
	WithdrawalMethodPayPal: 1,
	WithdrawalMethodStripe: 2,
	WithdrawalMethodCrypto: 1,
	WithdrawalMethodCheck:  10,
	WithdrawalMethodWire:   5,
	WithdrawalMethodOther:  7,
}
