package configs

import (
	"mesa-settle/internal/core/domain"
)

// Registry configures the campaign registry. Owner is the governance
// principal allowed to approve and kill campaigns. Forwarders are extra
// principals allowed to record impressions next to the impression logger.
type Registry struct {
	Address    string   `env:"ADDRESS" envDefault:"campaign-registry"`
	Owner      string   `env:"OWNER" envDefault:"governance"`
	Forwarders []string `env:"FORWARDERS" envSeparator:","`
	// Open disables the forwarder allow-list entirely.
	Open bool `env:"OPEN" envDefault:"false"`
}

// ImpressionLogger configures the aggregator gateway.
type ImpressionLogger struct {
	Address      string `env:"ADDRESS" envDefault:"impression-logger"`
	Owner        string `env:"OWNER" envDefault:"aggregator"`
	MaxBatchSize int    `env:"MAX_BATCH_SIZE" envDefault:"1000"`
}

// Vault configures the reward vault. Split weights are parts per 10000
// and must sum to 10000. DustPolicy is "strand" or "treasury".
type Vault struct {
	Address    string `env:"ADDRESS" envDefault:"reward-vault"`
	Owner      string `env:"OWNER" envDefault:"governance"`
	Treasury   string `env:"TREASURY" envDefault:"treasury"`
	User       uint16 `env:"SPLIT_USER" envDefault:"5000"`
	Publisher  uint16 `env:"SPLIT_PUBLISHER" envDefault:"4000"`
	Staker     uint16 `env:"SPLIT_STAKER" envDefault:"500"`
	TreasuryBP uint16 `env:"SPLIT_TREASURY" envDefault:"500"`
	DustPolicy string `env:"DUST_POLICY" envDefault:"strand"`
}

// Dust parses DustPolicy.
func (c Vault) Dust() (domain.DustPolicy, error) {
	return domain.ParseDustPolicy(c.DustPolicy)
}

// Split returns the configured weights.
func (c Vault) Split() domain.Split {
	return domain.Split{User: c.User, Publisher: c.Publisher, Staker: c.Staker, Treasury: c.TreasuryBP}
}
