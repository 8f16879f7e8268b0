package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

// Store implements port.Store on PostgreSQL. Each transaction runs at the
// serializable isolation level and locks the campaign rows it reads. A
// transaction that loses a serialization race committed nothing and is
// run again, up to Retry.MaxRetries times.
type Store struct {
	begin func(ctx context.Context) (pgx.Tx, error)
	retry Retry
}

// Retry bounds how often a transaction aborted with a serialization
// failure or deadlock is rerun. The delay doubles after every attempt,
// capped at MaxDelay.
type Retry struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// NewStore returns a store backed by pool.
func NewStore(pool *pgxpool.Pool, retry Retry) *Store {
	return &Store{
		begin: func(ctx context.Context) (pgx.Tx, error) {
			return pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		},
		retry: retry,
	}
}

type txKey struct{}

// WithinTx runs fn in a serializable transaction, joining the one carried
// by ctx if it belongs to this store. Only the outermost call retries, so
// fn must not have effects outside the transaction other than commit
// hooks. A conflict that survives every retry is reported as
// domain.ErrTxConflict.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	if outer, ok := ctx.Value(txKey{}).(*Tx); ok && outer.store == s {
		return fn(ctx, outer)
	}

	delay := s.retry.InitialDelay
	for attempt := 0; ; attempt++ {
		err := s.attempt(ctx, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		if attempt >= s.retry.MaxRetries {
			return fmt.Errorf("%w: %d attempts: %w", domain.ErrTxConflict, attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", domain.ErrTxConflict, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
		if s.retry.MaxDelay > 0 && delay > s.retry.MaxDelay {
			delay = s.retry.MaxDelay
		}
	}
}

// attempt runs fn once. A panic in fn rolls the transaction back before
// it propagates.
func (s *Store) attempt(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) (err error) {
	pgtx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	t := &Tx{store: s, tx: pgtx}
	defer func() {
		if r := recover(); r != nil {
			_ = pgtx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			_ = pgtx.Rollback(ctx)
			return
		}
		if err = pgtx.Commit(ctx); err != nil {
			return
		}
		for _, hook := range t.onCommit {
			hook()
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, t), t)
}

// isSerializationFailure matches serialization_failure and
// deadlock_detected.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}

// Tx implements port.Tx over a pgx transaction.
type Tx struct {
	store    *Store
	tx       pgx.Tx
	onCommit []func()
}

func (t *Tx) NextCampaignID(ctx context.Context) (uint64, error) {
	var id uint64
	err := t.tx.QueryRow(ctx, `UPDATE registry_state SET next_campaign_id = next_campaign_id + 1 WHERE singleton RETURNING next_campaign_id - 1`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("allocate campaign id: %w", err)
	}
	return id, nil
}

func (t *Tx) InsertCampaign(ctx context.Context, c domain.Campaign) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO campaigns (
            id, advertiser, reward_vault, payout_per_impression, max_impressions,
            initial_deposit, deposit_remaining, impressions, approved, killed,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8, $9, $10, now(), now())`,
		c.ID,
		string(c.Advertiser),
		string(c.RewardVault),
		c.PayoutPerImpression.String(),
		formatUint(c.MaxImpressions),
		c.InitialDeposit.String(),
		c.DepositRemaining.String(),
		int64(c.Impressions),
		c.Approved,
		c.Killed,
	)
	if err != nil {
		return fmt.Errorf("insert campaign %d: %w", c.ID, err)
	}
	return nil
}

func (t *Tx) Campaign(ctx context.Context, id uint64) (domain.Campaign, error) {
	var (
		c                                  domain.Campaign
		advertiser, vault                  string
		payout, maxImp, initial, remaining string
		impressions                        int64
	)
	err := t.tx.QueryRow(ctx, `
        SELECT id, advertiser, reward_vault, payout_per_impression::text, max_impressions::text,
               initial_deposit::text, deposit_remaining::text, impressions, approved, killed
        FROM campaigns WHERE id = $1 FOR UPDATE`, id).
		Scan(&c.ID, &advertiser, &vault, &payout, &maxImp, &initial, &remaining, &impressions, &c.Approved, &c.Killed)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campaign{}, domain.ErrCampaignNotFound
	}
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("get campaign %d: %w", id, err)
	}
	c.Advertiser = domain.Account(advertiser)
	c.RewardVault = domain.Account(vault)
	c.Impressions = uint64(impressions)
	if c.PayoutPerImpression, err = domain.ParseAmount(payout); err != nil {
		return domain.Campaign{}, err
	}
	limit, err := domain.ParseAmount(maxImp)
	if err != nil {
		return domain.Campaign{}, err
	}
	c.MaxImpressions = uint64(limit)
	if c.InitialDeposit, err = domain.ParseAmount(initial); err != nil {
		return domain.Campaign{}, err
	}
	if c.DepositRemaining, err = domain.ParseAmount(remaining); err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

func (t *Tx) UpdateCampaign(ctx context.Context, c domain.Campaign) error {
	tag, err := t.tx.Exec(ctx, `
        UPDATE campaigns
        SET deposit_remaining = $2::numeric, impressions = $3, approved = $4, killed = $5, updated_at = now()
        WHERE id = $1`,
		c.ID, c.DepositRemaining.String(), int64(c.Impressions), c.Approved, c.Killed)
	if err != nil {
		return fmt.Errorf("update campaign %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (t *Tx) Balance(ctx context.Context, vault, account domain.Account) (domain.Amount, error) {
	return t.amount(ctx, `SELECT amount::text FROM balances WHERE vault = $1 AND account = $2`, string(vault), string(account))
}

func (t *Tx) SetBalance(ctx context.Context, vault, account domain.Account, amount domain.Amount) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO balances (vault, account, amount, updated_at) VALUES ($1, $2, $3::numeric, now())
        ON CONFLICT (vault, account) DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()`,
		string(vault), string(account), amount.String())
	if err != nil {
		return fmt.Errorf("set balance %s/%s: %w", vault, account, err)
	}
	return nil
}

func (t *Tx) PendingRefund(ctx context.Context, account domain.Account) (domain.Amount, error) {
	return t.amount(ctx, `SELECT amount::text FROM pending_refunds WHERE account = $1`, string(account))
}

func (t *Tx) SetPendingRefund(ctx context.Context, account domain.Account, amount domain.Amount) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO pending_refunds (account, amount, updated_at) VALUES ($1, $2::numeric, now())
        ON CONFLICT (account) DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()`,
		string(account), amount.String())
	if err != nil {
		return fmt.Errorf("set pending refund %s: %w", account, err)
	}
	return nil
}

func (t *Tx) Funds(ctx context.Context, account domain.Account) (domain.Amount, error) {
	return t.amount(ctx, `SELECT amount::text FROM funds WHERE account = $1`, string(account))
}

func (t *Tx) SetFunds(ctx context.Context, account domain.Account, amount domain.Amount) error {
	_, err := t.tx.Exec(ctx, `
        INSERT INTO funds (account, amount, updated_at) VALUES ($1, $2::numeric, now())
        ON CONFLICT (account) DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()`,
		string(account), amount.String())
	if err != nil {
		return fmt.Errorf("set funds %s: %w", account, err)
	}
	return nil
}

func (t *Tx) InsertInboundPayment(ctx context.Context, p domain.InboundPayment) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
        INSERT INTO inbound_payments (reference, account, amount, received_at)
        VALUES ($1, $2, $3::numeric, $4)
        ON CONFLICT (reference) DO NOTHING`,
		p.Reference, string(p.Account), p.Amount.String(), p.ReceivedAt)
	if err != nil {
		return false, fmt.Errorf("insert inbound payment %s: %w", p.Reference, err)
	}
	return tag.RowsAffected() == 1, nil
}

// EnqueuePayout inserts the payout inside a savepoint so that a rejected
// row leaves the surrounding transaction usable.
func (t *Tx) EnqueuePayout(ctx context.Context, p domain.Payout) error {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return err
	}
	_, err = sp.Exec(ctx, `
        INSERT INTO payouts (id, source, recipient, amount, reason, created_at)
        VALUES ($1, $2, $3, $4::numeric, $5, $6)`,
		p.ID, string(p.From), string(p.To), p.Amount.String(), string(p.Reason), p.CreatedAt)
	if err != nil {
		_ = sp.Rollback(ctx)
		return fmt.Errorf("enqueue payout: %w", err)
	}
	return sp.Commit(ctx)
}

func (t *Tx) OnCommit(fn func()) {
	t.onCommit = append(t.onCommit, fn)
}

func (t *Tx) amount(ctx context.Context, query string, args ...any) (domain.Amount, error) {
	var raw string
	err := t.tx.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return domain.ParseAmount(raw)
}

func formatUint(v uint64) string {
	return domain.Amount(v).String()
}
