package usecase

import (
	"fmt"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

// VaultDirectory maps vault addresses to vaults. It is populated at start
// up and read-only afterwards.
type VaultDirectory struct {
	vaults map[domain.Account]port.RewardVault
}

// NewVaultDirectory indexes vaults by address. Duplicate addresses are
// rejected.
func NewVaultDirectory(vaults ...port.RewardVault) (*VaultDirectory, error) {
	d := &VaultDirectory{vaults: make(map[domain.Account]port.RewardVault, len(vaults))}
	for _, v := range vaults {
		if _, dup := d.vaults[v.Address()]; dup {
			return nil, fmt.Errorf("%w: duplicate vault address %s", domain.ErrInvalidArgument, v.Address())
		}
		d.vaults[v.Address()] = v
	}
	return d, nil
}

// Vault returns the vault living at addr.
func (d *VaultDirectory) Vault(addr domain.Account) (port.RewardVault, error) {
	v, ok := d.vaults[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrVaultNotFound, addr)
	}
	return v, nil
}
