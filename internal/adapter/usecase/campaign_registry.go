package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/metrics"
)

// RegistryOptions configures a CampaignRegistry. Forwarders lists the
// principals allowed to record impressions; an empty list leaves
// RecordImpression open to any caller.
type RegistryOptions struct {
	Address    domain.Account
	Owner      domain.Account
	Forwarders []domain.Account
}

// CampaignRegistry owns campaign escrow and the Pending -> Approved ->
// Killed lifecycle. Impressions are paid into the campaign's vault through
// the vault directory inside the caller's transaction.
type CampaignRegistry struct {
	store     port.Store
	vaults    port.VaultDirectory
	transfers port.Transferer
	logger    *slog.Logger

	address    domain.Account
	owner      domain.Account
	forwarders map[domain.Account]struct{}
}

// NewCampaignRegistry returns a registry governed by opts.Owner.
func NewCampaignRegistry(store port.Store, vaults port.VaultDirectory, transfers port.Transferer, logger *slog.Logger, opts RegistryOptions) *CampaignRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	var forwarders map[domain.Account]struct{}
	if len(opts.Forwarders) > 0 {
		forwarders = make(map[domain.Account]struct{}, len(opts.Forwarders))
		for _, f := range opts.Forwarders {
			forwarders[f] = struct{}{}
		}
	}
	return &CampaignRegistry{
		store:      store,
		vaults:     vaults,
		transfers:  transfers,
		logger:     logger.With(slog.String("component", "campaign_registry")),
		address:    opts.Address,
		owner:      opts.Owner,
		forwarders: forwarders,
	}
}

// Address returns the registry's own account, used as the caller of vault
// deposits and the source of refunds.
func (r *CampaignRegistry) Address() domain.Account { return r.address }

// SubmitCampaign moves value from the caller's funds into the escrow of a
// new pending campaign. Value above payout*maxImpressions is accepted and
// escrowed as well.
func (r *CampaignRegistry) SubmitCampaign(ctx context.Context, caller domain.Account, value domain.Amount, req port.SubmitCampaignReq) (uint64, error) {
	if req.PayoutPerImpression == 0 {
		return 0, fmt.Errorf("%w: payout per impression must be positive", domain.ErrInvalidArgument)
	}
	required, ok := domain.RequiredDeposit(req.PayoutPerImpression, req.MaxImpressions)
	if !ok || value < required {
		return 0, domain.ErrInsufficientDeposit
	}

	var id uint64
	err := r.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		err := spendFunds(ctx, tx, caller, value)
		if err != nil {
			return err
		}
		if id, err = tx.NextCampaignID(ctx); err != nil {
			return err
		}
		c := domain.Campaign{
			ID:                  id,
			Advertiser:          caller,
			RewardVault:         req.RewardVault,
			PayoutPerImpression: req.PayoutPerImpression,
			MaxImpressions:      req.MaxImpressions,
			InitialDeposit:      value,
			DepositRemaining:    value,
		}
		if err = tx.InsertCampaign(ctx, c); err != nil {
			return err
		}
		tx.OnCommit(func() {
			metrics.CampaignsSubmitted.Inc()
			r.logger.Info("campaign submitted",
				slog.Uint64("campaign_id", id),
				slog.String("advertiser", string(caller)),
				slog.String("deposit", value.String()),
			)
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Approve activates a campaign. Approving twice is a no-op, and approving a
// killed campaign does not revive it.
func (r *CampaignRegistry) Approve(ctx context.Context, caller domain.Account, id uint64) error {
	if caller != r.owner {
		return domain.ErrNotOwner
	}
	return r.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		c, err := tx.Campaign(ctx, id)
		if err != nil {
			return err
		}
		if c.Approved {
			return nil
		}
		c.Approved = true
		if err = tx.UpdateCampaign(ctx, c); err != nil {
			return err
		}
		tx.OnCommit(func() {
			metrics.CampaignTransitions.WithLabelValues(string(domain.CampaignApproved)).Inc()
			r.logger.Info("campaign approved", slog.Uint64("campaign_id", id))
		})
		return nil
	})
}

// RecordImpression pays one impression out of the campaign escrow into its
// vault. The escrow is decremented only after the deposit succeeded; any
// failure leaves the campaign untouched.
func (r *CampaignRegistry) RecordImpression(ctx context.Context, caller domain.Account, id uint64, b domain.Beneficiaries) error {
	if r.forwarders != nil {
		if _, ok := r.forwarders[caller]; !ok {
			return domain.ErrNotAuthorized
		}
	}
	if err := b.Validate(); err != nil {
		return err
	}
	return r.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		c, err := tx.Campaign(ctx, id)
		if err != nil {
			return err
		}
		if !c.Active() {
			return domain.ErrCampaignNotActive
		}
		if !c.Funded() {
			return domain.ErrCampaignOutOfFunds
		}

		vault, err := r.vaults.Vault(c.RewardVault)
		if err != nil {
			return err
		}
		// One impression of escrow becomes the value the registry attaches
		// to the deposit.
		if err = addFunds(ctx, tx, r.address, c.PayoutPerImpression); err != nil {
			return err
		}
		if _, err = vault.Deposit(ctx, r.address, c.PayoutPerImpression, b); err != nil {
			return fmt.Errorf("deposit into vault %s: %w", c.RewardVault, err)
		}

		c.DepositRemaining -= c.PayoutPerImpression
		c.Impressions++
		if err = tx.UpdateCampaign(ctx, c); err != nil {
			return err
		}
		tx.OnCommit(metrics.ImpressionsRecorded.Inc)
		return nil
	})
}

// Kill stops a campaign permanently and refunds the remaining escrow to
// the advertiser. The campaign is marked killed and its escrow zeroed
// before the refund is attempted. When the transfer fails the amount is
// parked as a pending refund the advertiser can claim later, so the
// liability is never dropped.
func (r *CampaignRegistry) Kill(ctx context.Context, caller domain.Account, id uint64) (port.KillResult, error) {
	if caller != r.owner {
		return port.KillResult{}, domain.ErrNotOwner
	}
	var res port.KillResult
	err := r.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		res = port.KillResult{}
		c, err := tx.Campaign(ctx, id)
		if err != nil {
			return err
		}
		remaining := c.DepositRemaining
		wasKilled := c.Killed
		c.Killed = true
		c.DepositRemaining = 0
		if err = tx.UpdateCampaign(ctx, c); err != nil {
			return err
		}
		if !wasKilled {
			tx.OnCommit(func() {
				metrics.CampaignTransitions.WithLabelValues(string(domain.CampaignKilled)).Inc()
				r.logger.Info("campaign killed", slog.Uint64("campaign_id", id))
			})
		}
		if remaining == 0 {
			return nil
		}

		terr := r.transfers.Transfer(ctx, tx, domain.Payout{
			From:   r.address,
			To:     c.Advertiser,
			Amount: remaining,
			Reason: domain.PayoutRefund,
		})
		if terr == nil {
			res.Refunded = remaining
			return nil
		}

		parked, err := tx.PendingRefund(ctx, c.Advertiser)
		if err != nil {
			return err
		}
		if err = tx.SetPendingRefund(ctx, c.Advertiser, parked+remaining); err != nil {
			return err
		}
		res.Parked = remaining
		tx.OnCommit(func() {
			metrics.RefundsParked.Inc()
			r.logger.Warn("refund transfer failed, parked for claim",
				slog.Uint64("campaign_id", id),
				slog.String("advertiser", string(c.Advertiser)),
				slog.String("amount", remaining.String()),
				slog.Any("error", terr),
			)
		})
		return nil
	})
	if err != nil {
		return port.KillResult{}, err
	}
	return res, nil
}

// ClaimRefund pays out every refund parked for the caller.
func (r *CampaignRegistry) ClaimRefund(ctx context.Context, caller domain.Account) (domain.Amount, error) {
	var amount domain.Amount
	err := r.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		parked, err := tx.PendingRefund(ctx, caller)
		if err != nil {
			return err
		}
		if parked == 0 {
			return domain.ErrNothingToWithdraw
		}
		if err = tx.SetPendingRefund(ctx, caller, 0); err != nil {
			return err
		}
		if err = r.transfers.Transfer(ctx, tx, domain.Payout{
			From:   r.address,
			To:     caller,
			Amount: parked,
			Reason: domain.PayoutRefundClaim,
		}); err != nil {
			return fmt.Errorf("claim refund %s: %w", parked, asTransferError(err))
		}
		amount = parked
		tx.OnCommit(func() {
			r.logger.Info("refund claimed", slog.String("advertiser", string(caller)), slog.String("amount", parked.String()))
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// Campaign returns a snapshot of campaign id.
func (r *CampaignRegistry) Campaign(ctx context.Context, id uint64) (domain.Campaign, error) {
	var c domain.Campaign
	err := r.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		c, err = tx.Campaign(ctx, id)
		return err
	})
	return c, err
}
