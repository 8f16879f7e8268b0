package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/metrics"
)

// FundingOptions configures a FundingLedger. Operator is the payment
// gateway principal that reports settled inbound payments.
type FundingOptions struct {
	Operator domain.Account
}

// FundingLedger credits inbound payments to spendable funds. It is the
// only way value enters the ledgers.
type FundingLedger struct {
	store  port.Store
	logger *slog.Logger
	now    func() time.Time

	operator domain.Account
}

// NewFundingLedger returns a ledger accepting credits from opts.Operator.
func NewFundingLedger(store port.Store, logger *slog.Logger, opts FundingOptions) *FundingLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &FundingLedger{
		store:    store,
		logger:   logger.With(slog.String("component", "funding_ledger")),
		now:      func() time.Time { return time.Now().UTC() },
		operator: opts.Operator,
	}
}

// Credit records p and adds its amount to the account's funds. A
// reference seen before leaves the funds unchanged.
func (f *FundingLedger) Credit(ctx context.Context, caller domain.Account, p domain.InboundPayment) (port.FundingResult, error) {
	if f.operator == "" || caller != f.operator {
		return port.FundingResult{}, domain.ErrNotAuthorized
	}
	p.Reference = strings.TrimSpace(p.Reference)
	switch {
	case p.Reference == "":
		return port.FundingResult{}, fmt.Errorf("%w: missing payment reference", domain.ErrInvalidArgument)
	case p.Account == "":
		return port.FundingResult{}, fmt.Errorf("%w: missing account", domain.ErrInvalidArgument)
	case p.Amount == 0:
		return port.FundingResult{}, fmt.Errorf("%w: zero amount", domain.ErrInvalidArgument)
	}
	if p.ReceivedAt.IsZero() {
		p.ReceivedAt = f.now()
	}

	var res port.FundingResult
	err := f.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		res = port.FundingResult{}
		fresh, err := tx.InsertInboundPayment(ctx, p)
		if err != nil {
			return err
		}
		if !fresh {
			res.Duplicate = true
			res.Funds, err = tx.Funds(ctx, p.Account)
			tx.OnCommit(func() { metrics.InboundPayments.WithLabelValues("duplicate").Inc() })
			return err
		}
		if err = addFunds(ctx, tx, p.Account, p.Amount); err != nil {
			return err
		}
		if res.Funds, err = tx.Funds(ctx, p.Account); err != nil {
			return err
		}
		tx.OnCommit(func() {
			metrics.InboundPayments.WithLabelValues("credited").Inc()
			metrics.FundsReceived.Add(float64(p.Amount))
			f.logger.Info("inbound payment credited",
				slog.String("reference", p.Reference),
				slog.String("account", string(p.Account)),
				slog.String("amount", p.Amount.String()),
			)
		})
		return nil
	})
	if err != nil {
		return port.FundingResult{}, err
	}
	return res, nil
}

// Funds returns the spendable funds of account.
func (f *FundingLedger) Funds(ctx context.Context, account domain.Account) (domain.Amount, error) {
	var funds domain.Amount
	err := f.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		funds, err = tx.Funds(ctx, account)
		return err
	})
	return funds, err
}
