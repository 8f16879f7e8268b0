package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-settle/internal/adapter/memory"
	"mesa-settle/internal/adapter/payout"
	"mesa-settle/internal/adapter/usecase"
	"mesa-settle/internal/core/domain"
)

func TestSeedCreatesApprovedCampaigns(t *testing.T) {
	store := memory.NewStore()
	transfers := payout.NewOutbox()
	vault, err := usecase.NewRewardVault(store, transfers, nil, usecase.VaultOptions{
		Address: "vault", Treasury: "treasury", Split: domain.DefaultSplit,
	})
	require.NoError(t, err)
	dir, err := usecase.NewVaultDirectory(vault)
	require.NoError(t, err)
	registry := usecase.NewCampaignRegistry(store, dir, transfers, nil, usecase.RegistryOptions{Address: "registry", Owner: "gov"})
	funding := usecase.NewFundingLedger(store, nil, usecase.FundingOptions{Operator: "rail"})

	ids, err := Seed(context.Background(), funding, registry, SeedOptions{Owner: "gov", Operator: "rail", Vault: "vault", Campaigns: 3})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 2}, ids)

	for i, id := range ids {
		c, err := registry.Campaign(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, c.Active())
		assert.Equal(t, domain.Amount(100*(i+1)*1000), c.DepositRemaining)

		funds, err := funding.Funds(context.Background(), c.Advertiser)
		require.NoError(t, err)
		assert.Zero(t, funds)
	}
}

func TestSeedFailsWithoutOperator(t *testing.T) {
	store := memory.NewStore()
	dir, err := usecase.NewVaultDirectory()
	require.NoError(t, err)
	registry := usecase.NewCampaignRegistry(store, dir, payout.NewOutbox(), nil, usecase.RegistryOptions{Owner: "gov"})
	funding := usecase.NewFundingLedger(store, nil, usecase.FundingOptions{Operator: "rail"})

	ids, err := Seed(context.Background(), funding, registry, SeedOptions{Owner: "gov", Operator: "someone", Vault: "vault", Campaigns: 1})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Empty(t, ids)
}

func TestSeedFailsWithoutOwner(t *testing.T) {
	store := memory.NewStore()
	dir, err := usecase.NewVaultDirectory()
	require.NoError(t, err)
	registry := usecase.NewCampaignRegistry(store, dir, payout.NewOutbox(), nil, usecase.RegistryOptions{Owner: "gov"})
	funding := usecase.NewFundingLedger(store, nil, usecase.FundingOptions{Operator: "rail"})

	_, err = Seed(context.Background(), funding, registry, SeedOptions{Owner: "someone-else", Operator: "rail", Vault: "vault", Campaigns: 1})
	require.ErrorIs(t, err, domain.ErrNotOwner)
}
