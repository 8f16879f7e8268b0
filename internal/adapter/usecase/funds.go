package usecase

import (
	"context"
	"fmt"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

// spendFunds draws value attached to a call from the caller's funds.
func spendFunds(ctx context.Context, tx port.Tx, account domain.Account, value domain.Amount) error {
	if value == 0 {
		return nil
	}
	funds, err := tx.Funds(ctx, account)
	if err != nil {
		return err
	}
	if funds < value {
		return fmt.Errorf("%w: %s holds %s, call attaches %s", domain.ErrInsufficientFunds, account, funds, value)
	}
	return tx.SetFunds(ctx, account, funds-value)
}

func addFunds(ctx context.Context, tx port.Tx, account domain.Account, amount domain.Amount) error {
	funds, err := tx.Funds(ctx, account)
	if err != nil {
		return err
	}
	if funds+amount < funds {
		return fmt.Errorf("%w: funds overflow for %s", domain.ErrInvalidArgument, account)
	}
	return tx.SetFunds(ctx, account, funds+amount)
}
