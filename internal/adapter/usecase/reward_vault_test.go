package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mesa-settle/internal/adapter/memory"
	"mesa-settle/internal/adapter/payout"
	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/core/port/mocks"
)

func TestNewRewardVaultRejectsInvalidSplit(t *testing.T) {
	_, err := NewRewardVault(memory.NewStore(), payout.NewOutbox(), nil, VaultOptions{
		Address:  vaultAddr,
		Treasury: treasury,
		Split:    domain.Split{User: 5000, Publisher: 5000, Staker: 500, Treasury: 500},
	})
	require.ErrorIs(t, err, domain.ErrInvalidSplit)
}

func TestDepositEvenSplit(t *testing.T) {
	f := newFixture(t)

	d, err := f.vault.Deposit(context.Background(), depositor, 10000, parties)
	require.NoError(t, err)
	assert.Zero(t, d.Dust)

	assert.Equal(t, domain.Amount(5000), f.balance(t, parties.User))
	assert.Equal(t, domain.Amount(4000), f.balance(t, parties.Publisher))
	assert.Equal(t, domain.Amount(500), f.balance(t, parties.Staker))
	assert.Equal(t, domain.Amount(500), f.balance(t, treasury))
}

func TestDepositStrandsDust(t *testing.T) {
	f := newFixture(t)

	d, err := f.vault.Deposit(context.Background(), depositor, 3, parties)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(1), d.Dust)

	got := f.balances(t)
	assert.Equal(t, domain.Amount(1), got[parties.User])
	assert.Equal(t, domain.Amount(1), got[parties.Publisher])
	assert.Zero(t, got[parties.Staker])
	assert.Zero(t, got[treasury])
}

func TestDepositSweepsDustToTreasury(t *testing.T) {
	f := newFixture(t, withDust(domain.DustToTreasury))

	_, err := f.vault.Deposit(context.Background(), depositor, 3, parties)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(1), f.balance(t, treasury))
}

func TestDepositAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shared := domain.Beneficiaries{User: "viewer", Publisher: "viewer", Staker: "staker"}

	_, err := f.vault.Deposit(ctx, depositor, 100, shared)
	require.NoError(t, err)
	_, err = f.vault.Deposit(ctx, depositor, 100, shared)
	require.NoError(t, err)

	assert.Equal(t, domain.Amount(180), f.balance(t, "viewer"))
	assert.Equal(t, domain.Amount(10), f.balance(t, "staker"))
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.vault.Withdraw(ctx, parties.User)
	require.ErrorIs(t, err, domain.ErrNothingToWithdraw)

	_, err = f.vault.Deposit(ctx, depositor, 10000, parties)
	require.NoError(t, err)

	amount, err := f.vault.Withdraw(ctx, parties.User)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(5000), amount)
	assert.Zero(t, f.balance(t, parties.User))

	_, err = f.vault.Withdraw(ctx, parties.User)
	require.ErrorIs(t, err, domain.ErrNothingToWithdraw)

	payouts := f.store.Payouts()
	require.Len(t, payouts, 1)
	assert.Equal(t, domain.PayoutWithdrawal, payouts[0].Reason)
	assert.Equal(t, vaultAddr, payouts[0].From)
	assert.Equal(t, domain.Amount(5000), payouts[0].Amount)
}

func TestWithdrawTransferFailureRestoresBalance(t *testing.T) {
	transfers := mocks.NewMockTransferer(t)
	f := newFixture(t, withTransferer(transfers))
	ctx := context.Background()
	_, err := f.vault.Deposit(ctx, depositor, 10000, parties)
	require.NoError(t, err)

	transfers.EXPECT().Transfer(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("rail unavailable")).Once()

	_, err = f.vault.Withdraw(ctx, parties.Publisher)
	require.ErrorIs(t, err, domain.ErrTransferFailed)
	assert.True(t, errors.Is(err, domain.ErrTransfer))
	assert.Equal(t, domain.Amount(4000), f.balance(t, parties.Publisher))
}

func TestWithdrawReentryObservesZeroBalance(t *testing.T) {
	transfers := mocks.NewMockTransferer(t)
	f := newFixture(t, withTransferer(transfers))
	ctx := context.Background()
	_, err := f.vault.Deposit(ctx, depositor, 10000, parties)
	require.NoError(t, err)

	transfers.EXPECT().
		Transfer(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ port.Tx, p domain.Payout) error {
			// A hostile recipient calls back into the vault mid-transfer.
			_, err := f.vault.Withdraw(ctx, p.To)
			assert.ErrorIs(t, err, domain.ErrNothingToWithdraw)
			return nil
		}).
		Once()

	amount, err := f.vault.Withdraw(ctx, parties.User)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(5000), amount)
	assert.Zero(t, f.balance(t, parties.User))
}
