package usecase

import (
	"errors"
	"fmt"

	"mesa-settle/internal/core/domain"
)

// asTransferError makes sure a failure reported by the value-transfer
// primitive is classified as a transfer error.
func asTransferError(err error) error {
	if errors.Is(err, domain.ErrTransfer) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
}
