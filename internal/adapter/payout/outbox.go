package payout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/metrics"
)

// Outbox implements port.Transferer by recording payouts in the same
// transaction as the ledger change that releases the value. A settlement
// worker drains recorded payouts to the payment rail.
type Outbox struct {
	now func() time.Time
}

// NewOutbox returns an Outbox stamping payouts with the current UTC time.
func NewOutbox() *Outbox {
	return &Outbox{now: func() time.Time { return time.Now().UTC() }}
}

// Transfer validates p and enqueues it. The payout is visible only if the
// enclosing transaction commits.
func (o *Outbox) Transfer(ctx context.Context, tx port.Tx, p domain.Payout) error {
	if strings.TrimSpace(string(p.To)) == "" {
		return fmt.Errorf("%w: empty recipient", domain.ErrTransferFailed)
	}
	if p.Amount == 0 {
		return fmt.Errorf("%w: zero amount", domain.ErrTransferFailed)
	}
	p.ID = uuid.NewString()
	p.CreatedAt = o.now()
	if err := tx.EnqueuePayout(ctx, p); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	reason := string(p.Reason)
	tx.OnCommit(func() { metrics.Payouts.WithLabelValues(reason).Inc() })
	return nil
}
