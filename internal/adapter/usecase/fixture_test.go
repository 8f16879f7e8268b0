package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"mesa-settle/internal/adapter/memory"
	"mesa-settle/internal/adapter/payout"
	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

const (
	owner        domain.Account = "governance"
	aggregator   domain.Account = "aggregator"
	advertiser   domain.Account = "advertiser"
	treasury     domain.Account = "treasury"
	vaultAddr    domain.Account = "vault-1"
	registryAddr domain.Account = "registry"
	gatewayAddr  domain.Account = "impression-logger"
	operator     domain.Account = "payment-gateway"
	depositor    domain.Account = "anyone"
)

// startingFunds is credited to advertiser and depositor by newFixture.
const startingFunds domain.Amount = 1_000_000

var parties = domain.Beneficiaries{User: "viewer", Publisher: "publisher", Staker: "staker"}

type fixture struct {
	store    *memory.Store
	vault    *RewardVault
	registry *CampaignRegistry
	gateway  *ImpressionLogger
	funding  *FundingLedger
	refs     int
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	transfers  port.Transferer
	forwarders []domain.Account
	dust       domain.DustPolicy
}

func withTransferer(tr port.Transferer) fixtureOption {
	return func(c *fixtureConfig) { c.transfers = tr }
}

func withForwarders(f ...domain.Account) fixtureOption {
	return func(c *fixtureConfig) { c.forwarders = f }
}

func withDust(p domain.DustPolicy) fixtureOption {
	return func(c *fixtureConfig) { c.dust = p }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{transfers: payout.NewOutbox(), dust: domain.DustStrand}
	for _, o := range opts {
		o(&cfg)
	}

	store := memory.NewStore()
	logger := discardLogger()

	vault, err := NewRewardVault(store, cfg.transfers, logger, VaultOptions{
		Address:  vaultAddr,
		Owner:    owner,
		Treasury: treasury,
		Split:    domain.DefaultSplit,
		Dust:     cfg.dust,
	})
	require.NoError(t, err)

	dir, err := NewVaultDirectory(vault)
	require.NoError(t, err)

	registry := NewCampaignRegistry(store, dir, cfg.transfers, logger, RegistryOptions{
		Address:    registryAddr,
		Owner:      owner,
		Forwarders: cfg.forwarders,
	})
	gateway := NewImpressionLogger(registry, store, logger, LoggerOptions{
		Address:      gatewayAddr,
		Owner:        aggregator,
		MaxBatchSize: 16,
	})

	funding := NewFundingLedger(store, logger, FundingOptions{Operator: operator})

	f := &fixture{store: store, vault: vault, registry: registry, gateway: gateway, funding: funding}
	f.fund(t, advertiser, startingFunds)
	f.fund(t, depositor, startingFunds)
	return f
}

// fund credits amount to account as a fresh inbound payment.
func (f *fixture) fund(t *testing.T, account domain.Account, amount domain.Amount) {
	t.Helper()
	f.refs++
	_, err := f.funding.Credit(context.Background(), operator, domain.InboundPayment{
		Reference: fmt.Sprintf("ref-%s-%d", account, f.refs),
		Account:   account,
		Amount:    amount,
	})
	require.NoError(t, err)
}

func (f *fixture) funds(t *testing.T, account domain.Account) domain.Amount {
	t.Helper()
	funds, err := f.funding.Funds(context.Background(), account)
	require.NoError(t, err)
	return funds
}

// submitApproved submits a campaign paying price per impression for n
// impressions, funded exactly, and approves it.
func (f *fixture) submitApproved(t *testing.T, price domain.Amount, n uint64) uint64 {
	t.Helper()
	ctx := context.Background()
	id, err := f.registry.SubmitCampaign(ctx, advertiser, price*domain.Amount(n), port.SubmitCampaignReq{
		PayoutPerImpression: price,
		MaxImpressions:      n,
		RewardVault:         vaultAddr,
	})
	require.NoError(t, err)
	require.NoError(t, f.registry.Approve(ctx, owner, id))
	return id
}

func (f *fixture) campaign(t *testing.T, id uint64) domain.Campaign {
	t.Helper()
	c, err := f.registry.Campaign(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (f *fixture) balance(t *testing.T, account domain.Account) domain.Amount {
	t.Helper()
	bal, err := f.vault.Balance(context.Background(), account)
	require.NoError(t, err)
	return bal
}

func (f *fixture) balances(t *testing.T) map[domain.Account]domain.Amount {
	t.Helper()
	out := make(map[domain.Account]domain.Amount)
	for _, a := range []domain.Account{parties.User, parties.Publisher, parties.Staker, treasury, "viewer-2"} {
		out[a] = f.balance(t, a)
	}
	return out
}
