package port

import (
	"context"

	"mesa-settle/internal/core/domain"
)

// CampaignRegistry owns campaign escrow and lifecycle.
type CampaignRegistry interface {
	ImpressionRecorder

	// SubmitCampaign escrows value against a new pending campaign and
	// returns its id. value must cover payout*maxImpressions and is drawn
	// from the caller's funds.
	SubmitCampaign(ctx context.Context, caller domain.Account, value domain.Amount, req SubmitCampaignReq) (uint64, error)
	// Approve activates a campaign. Owner only.
	Approve(ctx context.Context, caller domain.Account, id uint64) error
	// Kill stops a campaign for good and refunds the remaining escrow.
	// Owner only.
	Kill(ctx context.Context, caller domain.Account, id uint64) (KillResult, error)
	// ClaimRefund pays out a refund parked by a failed kill transfer.
	ClaimRefund(ctx context.Context, caller domain.Account) (domain.Amount, error)
	// Campaign returns a snapshot of a campaign.
	Campaign(ctx context.Context, id uint64) (domain.Campaign, error)
}

// ImpressionRecorder consumes one impression worth of escrow.
type ImpressionRecorder interface {
	RecordImpression(ctx context.Context, caller domain.Account, id uint64, b domain.Beneficiaries) error
}

// SubmitCampaignReq holds the campaign terms chosen by the advertiser.
type SubmitCampaignReq struct {
	PayoutPerImpression domain.Amount
	MaxImpressions      uint64
	RewardVault         domain.Account
}

// KillResult reports what happened to the remaining escrow. Exactly one of
// Refunded and Parked is non-zero when there was escrow left.
type KillResult struct {
	Refunded domain.Amount
	Parked   domain.Amount
}

// RewardVault splits deposits into claimable balances.
type RewardVault interface {
	Address() domain.Account
	// Deposit draws value from the caller's funds and splits it.
	Deposit(ctx context.Context, caller domain.Account, value domain.Amount, b domain.Beneficiaries) (domain.Distribution, error)
	Withdraw(ctx context.Context, caller domain.Account) (domain.Amount, error)
	Balance(ctx context.Context, account domain.Account) (domain.Amount, error)
}

// VaultDirectory resolves a vault address, returning
// domain.ErrVaultNotFound when nothing lives there.
type VaultDirectory interface {
	Vault(addr domain.Account) (RewardVault, error)
}

// ImpressionLogger is the aggregator gateway.
type ImpressionLogger interface {
	BatchRecord(ctx context.Context, caller domain.Account, records []domain.ImpressionRecord) (BatchResult, error)
}

// BatchResult describes a committed batch.
type BatchResult struct {
	BatchID  string
	Recorded int
}

// FundingLedger admits value from the payment rail. Value attached to a
// call is drawn from the caller's funds, so nothing enters the ledgers
// without an inbound payment behind it.
type FundingLedger interface {
	// Credit records an inbound payment reported by the funding operator.
	// Replaying a reference is a no-op reported as Duplicate.
	Credit(ctx context.Context, caller domain.Account, p domain.InboundPayment) (FundingResult, error)
	Funds(ctx context.Context, account domain.Account) (domain.Amount, error)
}

// FundingResult reports the account's funds after a credit.
type FundingResult struct {
	Funds     domain.Amount
	Duplicate bool
}
