package port

import (
	"context"

	"mesa-settle/internal/core/domain"
)

// Store is the outbound persistence port shared by the registry and the
// vaults. It spans both the campaign ledger and the balance ledger so that
// a cross-component call chain commits or rolls back as one unit.
type Store interface {
	// WithinTx runs fn inside a transaction. When ctx already carries a
	// transaction of this store, fn joins it and the outermost caller
	// decides the outcome. A non-nil error from fn rolls back every effect
	// applied in the transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is a unit of work over the ledgers. Implementations must serialise
// transactions touching the same rows.
type Tx interface {
	// NextCampaignID allocates the next campaign id. Ids are strictly
	// increasing and never handed out twice by committed transactions.
	NextCampaignID(ctx context.Context) (uint64, error)
	InsertCampaign(ctx context.Context, c domain.Campaign) error
	// Campaign returns the campaign and locks it for the rest of the
	// transaction. It returns domain.ErrCampaignNotFound for unknown ids.
	Campaign(ctx context.Context, id uint64) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, c domain.Campaign) error

	// Balance returns the claimable balance of account in vault, zero when
	// the account was never credited.
	Balance(ctx context.Context, vault, account domain.Account) (domain.Amount, error)
	SetBalance(ctx context.Context, vault, account domain.Account, amount domain.Amount) error

	// PendingRefund returns the refund parked for account after a failed
	// kill-path transfer.
	PendingRefund(ctx context.Context, account domain.Account) (domain.Amount, error)
	SetPendingRefund(ctx context.Context, account domain.Account, amount domain.Amount) error

	// Funds returns the spendable funds of account: inbound payments not
	// yet attached to a call.
	Funds(ctx context.Context, account domain.Account) (domain.Amount, error)
	SetFunds(ctx context.Context, account domain.Account, amount domain.Amount) error
	// InsertInboundPayment records p. It reports false, and changes
	// nothing, when p.Reference was recorded before.
	InsertInboundPayment(ctx context.Context, p domain.InboundPayment) (bool, error)

	// EnqueuePayout records an outbound transfer.
	EnqueuePayout(ctx context.Context, p domain.Payout) error

	// OnCommit registers fn to run after the outermost transaction
	// commits. It never runs when the transaction rolls back.
	OnCommit(fn func())
}

// Transferer is the value-movement primitive. Transfer must either move
// the payout as part of tx or return an error and leave tx usable.
type Transferer interface {
	Transfer(ctx context.Context, tx Tx, p domain.Payout) error
}
