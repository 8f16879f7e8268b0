package domain

import "time"

// PayoutReason says why value leaves the ledger.
type PayoutReason string

const (
	PayoutWithdrawal  PayoutReason = "withdrawal"
	PayoutRefund      PayoutReason = "refund"
	PayoutRefundClaim PayoutReason = "refund_claim"
)

// Payout is an outbound value transfer from a component to an account.
type Payout struct {
	ID        string
	From      Account
	To        Account
	Amount    Amount
	Reason    PayoutReason
	CreatedAt time.Time
}
