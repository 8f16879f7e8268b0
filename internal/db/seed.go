package db

import (
	"context"
	"fmt"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

// SeedOptions names the principals used to create demo data. Operator
// must be the funding operator; Owner the registry owner.
type SeedOptions struct {
	Owner     domain.Account
	Operator  domain.Account
	Vault     domain.Account
	Campaigns int
}

// Seed funds demo advertisers, then submits and approves their campaigns
// through the registry so the seeded state obeys every ledger invariant.
// It returns the new ids.
func Seed(ctx context.Context, funding port.FundingLedger, registry port.CampaignRegistry, opts SeedOptions) ([]uint64, error) {
	if opts.Campaigns <= 0 {
		opts.Campaigns = 5
	}
	ids := make([]uint64, 0, opts.Campaigns)
	for i := 1; i <= opts.Campaigns; i++ {
		advertiser := domain.Account(fmt.Sprintf("advertiser-%d", i))
		payout := domain.Amount(100 * i) // 1.00 units per impression and up
		maxImpressions := uint64(1000)
		deposit := payout * domain.Amount(maxImpressions)

		if _, err := funding.Credit(ctx, opts.Operator, domain.InboundPayment{
			Reference: fmt.Sprintf("seed-%s", advertiser),
			Account:   advertiser,
			Amount:    deposit,
		}); err != nil {
			return ids, fmt.Errorf("fund %s: %w", advertiser, err)
		}

		id, err := registry.SubmitCampaign(ctx, advertiser, deposit, port.SubmitCampaignReq{
			PayoutPerImpression: payout,
			MaxImpressions:      maxImpressions,
			RewardVault:         opts.Vault,
		})
		if err != nil {
			return ids, fmt.Errorf("seed campaign %d: %w", i, err)
		}
		if err = registry.Approve(ctx, opts.Owner, id); err != nil {
			return ids, fmt.Errorf("approve seeded campaign %d: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
