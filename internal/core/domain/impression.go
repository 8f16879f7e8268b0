package domain

import "fmt"

// Beneficiaries are the three per-impression parties credited by a vault
// deposit. The treasury is fixed by the vault.
type Beneficiaries struct {
	User      Account `json:"user"`
	Publisher Account `json:"publisher"`
	Staker    Account `json:"staker"`
}

// Validate reports ErrInvalidArgument when a party is missing.
func (b Beneficiaries) Validate() error {
	switch {
	case b.User == "":
		return fmt.Errorf("%w: missing user", ErrInvalidArgument)
	case b.Publisher == "":
		return fmt.Errorf("%w: missing publisher", ErrInvalidArgument)
	case b.Staker == "":
		return fmt.Errorf("%w: missing staker", ErrInvalidArgument)
	}
	return nil
}

// ImpressionRecord is one validated impression forwarded by the
// aggregator.
type ImpressionRecord struct {
	CampaignID uint64 `json:"campaign_id"`
	Beneficiaries
}
