package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-settle/internal/config/configs"
	"mesa-settle/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.False(t, cfg.Store.UsePostgres())
	assert.Equal(t, domain.DefaultSplit, cfg.Vault.Split())
	assert.Equal(t, "governance", cfg.Registry.Owner)
	assert.Equal(t, "aggregator", cfg.ImpressionLogger.Owner)
	assert.Equal(t, 1000, cfg.ImpressionLogger.MaxBatchSize)
	assert.Equal(t, domain.Account("payment-gateway"), cfg.Funding.OperatorAccount())
	assert.Equal(t, 3, cfg.Psql.TxRetries)

	dust, err := cfg.Vault.Dust()
	require.NoError(t, err)
	assert.Equal(t, domain.DustStrand, dust)
}

func TestLoadParsesSections(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("REGISTRY_FORWARDERS", "relay-a,relay-b")
	t.Setenv("VAULT_DUST_POLICY", "treasury")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Store.UsePostgres())
	assert.Equal(t, []string{"relay-a", "relay-b"}, cfg.Registry.Forwarders)
	dust, err := cfg.Vault.Dust()
	require.NoError(t, err)
	assert.Equal(t, domain.DustToTreasury, dust)
	assert.Equal(t, "json", cfg.Log.SlogFormat())
}

func TestLoggerHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(configs.Logger{Level: "warn", Format: "json"}.Handler(&buf))

	logger.Info("dropped")
	logger.Warn("refund parked", slog.Uint64("campaign_id", 4))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "refund parked", rec["msg"])
	assert.Equal(t, float64(4), rec["campaign_id"])
}

func TestLoadRejectsBadSplit(t *testing.T) {
	t.Setenv("VAULT_SPLIT_STAKER", "600")

	_, err := Load()
	require.ErrorIs(t, err, domain.ErrInvalidSplit)
}

func TestLoadRejectsUnknownDustPolicy(t *testing.T) {
	t.Setenv("VAULT_DUST_POLICY", "burn")

	_, err := Load()
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
