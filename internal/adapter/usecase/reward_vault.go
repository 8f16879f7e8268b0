package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/metrics"
)

// VaultOptions configures a RewardVault at construction. The split and
// treasury never change afterwards.
type VaultOptions struct {
	Address  domain.Account
	Owner    domain.Account
	Treasury domain.Account
	Split    domain.Split
	Dust     domain.DustPolicy
}

// RewardVault splits every deposit four ways into claimable balances and
// pays balances out on withdrawal. It holds no reference to the registry,
// so a deposit can never call back into the component that made it.
type RewardVault struct {
	store     port.Store
	transfers port.Transferer
	logger    *slog.Logger

	address  domain.Account
	owner    domain.Account
	treasury domain.Account
	split    domain.Split
	dust     domain.DustPolicy
}

// NewRewardVault validates opts and returns a vault. It fails with
// domain.ErrInvalidSplit when the weights do not sum to 10000.
func NewRewardVault(store port.Store, transfers port.Transferer, logger *slog.Logger, opts VaultOptions) (*RewardVault, error) {
	if err := opts.Split.Validate(); err != nil {
		return nil, err
	}
	if opts.Address == "" || opts.Treasury == "" {
		return nil, fmt.Errorf("%w: vault address and treasury are required", domain.ErrInvalidArgument)
	}
	if opts.Dust == "" {
		opts.Dust = domain.DustStrand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RewardVault{
		store:     store,
		transfers: transfers,
		logger:    logger.With(slog.String("component", "reward_vault"), slog.String("vault", string(opts.Address))),
		address:   opts.Address,
		owner:     opts.Owner,
		treasury:  opts.Treasury,
		split:     opts.Split,
		dust:      opts.Dust,
	}, nil
}

// Address returns the vault's own account.
func (v *RewardVault) Address() domain.Account { return v.address }

// Owner returns the account that deployed the vault. No operation checks
// it.
func (v *RewardVault) Owner() domain.Account { return v.owner }

// Deposit draws value from the caller's funds and credits it to the user,
// publisher, staker and treasury according to the split. Any funded caller
// may deposit.
func (v *RewardVault) Deposit(ctx context.Context, caller domain.Account, value domain.Amount, b domain.Beneficiaries) (domain.Distribution, error) {
	d := v.split.Distribute(value, v.dust)
	if value == 0 {
		return d, nil
	}
	if err := b.Validate(); err != nil {
		return domain.Distribution{}, err
	}
	err := v.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		if err := spendFunds(ctx, tx, caller, value); err != nil {
			return err
		}
		credits := []struct {
			to     domain.Account
			amount domain.Amount
		}{
			{b.User, d.User},
			{b.Publisher, d.Publisher},
			{b.Staker, d.Staker},
			{v.treasury, d.Treasury},
		}
		for _, c := range credits {
			if err := v.credit(ctx, tx, c.to, c.amount); err != nil {
				return err
			}
		}
		tx.OnCommit(func() {
			metrics.ValueDistributed.WithLabelValues("user").Add(float64(d.User))
			metrics.ValueDistributed.WithLabelValues("publisher").Add(float64(d.Publisher))
			metrics.ValueDistributed.WithLabelValues("staker").Add(float64(d.Staker))
			metrics.ValueDistributed.WithLabelValues("treasury").Add(float64(d.Treasury))
			metrics.DustStranded.Add(float64(d.Dust))
			v.logger.Debug("deposit split",
				slog.String("caller", string(caller)),
				slog.String("value", value.String()),
				slog.String("dust", d.Dust.String()),
			)
		})
		return nil
	})
	if err != nil {
		return domain.Distribution{}, err
	}
	return d, nil
}

// Withdraw pays the caller's whole balance out. The balance is zeroed
// before the transfer is issued; a failed transfer aborts the call and
// restores it.
func (v *RewardVault) Withdraw(ctx context.Context, caller domain.Account) (domain.Amount, error) {
	var amount domain.Amount
	err := v.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		bal, err := tx.Balance(ctx, v.address, caller)
		if err != nil {
			return err
		}
		if bal == 0 {
			return domain.ErrNothingToWithdraw
		}
		if err = tx.SetBalance(ctx, v.address, caller, 0); err != nil {
			return err
		}
		if err = v.transfers.Transfer(ctx, tx, domain.Payout{
			From:   v.address,
			To:     caller,
			Amount: bal,
			Reason: domain.PayoutWithdrawal,
		}); err != nil {
			return fmt.Errorf("withdraw %s: %w", bal, asTransferError(err))
		}
		amount = bal
		tx.OnCommit(func() {
			v.logger.Info("balance withdrawn", slog.String("account", string(caller)), slog.String("amount", bal.String()))
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// Balance returns the claimable balance of account.
func (v *RewardVault) Balance(ctx context.Context, account domain.Account) (domain.Amount, error) {
	var bal domain.Amount
	err := v.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		bal, err = tx.Balance(ctx, v.address, account)
		return err
	})
	return bal, err
}

func (v *RewardVault) credit(ctx context.Context, tx port.Tx, to domain.Account, amount domain.Amount) error {
	bal, err := tx.Balance(ctx, v.address, to)
	if err != nil {
		return err
	}
	if bal+amount < bal {
		return fmt.Errorf("%w: balance overflow for %s", domain.ErrInvalidArgument, to)
	}
	return tx.SetBalance(ctx, v.address, to, bal+amount)
}
