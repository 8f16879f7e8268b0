package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
)

// Store implements port.Store in process. A single mutex serialises
// transactions, and every mutation is journaled so a failed transaction
// can be undone in full.
type Store struct {
	mu sync.Mutex

	nextCampaignID uint64
	campaigns      map[uint64]domain.Campaign
	balances       map[balanceKey]domain.Amount
	refunds        map[domain.Account]domain.Amount
	funds          map[domain.Account]domain.Amount
	inbound        map[string]domain.InboundPayment
	payouts        []domain.Payout
}

type balanceKey struct {
	vault   domain.Account
	account domain.Account
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		campaigns: make(map[uint64]domain.Campaign),
		balances:  make(map[balanceKey]domain.Amount),
		refunds:   make(map[domain.Account]domain.Amount),
		funds:     make(map[domain.Account]domain.Amount),
		inbound:   make(map[string]domain.InboundPayment),
	}
}

type txKey struct{}

// WithinTx runs fn in a transaction, joining the one carried by ctx if it
// belongs to this store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) (err error) {
	if outer, ok := ctx.Value(txKey{}).(*tx); ok && outer.store == s {
		return fn(ctx, outer)
	}

	s.mu.Lock()
	t := &tx{store: s}
	defer func() {
		if r := recover(); r != nil {
			t.rollback()
			s.mu.Unlock()
			panic(r)
		}
		if err != nil {
			t.rollback()
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		for _, hook := range t.onCommit {
			hook()
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, t), t)
}

// Payouts returns a copy of every committed payout in enqueue order.
func (s *Store) Payouts() []domain.Payout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.payouts)
}

type tx struct {
	store    *Store
	undo     []func()
	onCommit []func()
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.onCommit = nil
}

func (t *tx) NextCampaignID(_ context.Context) (uint64, error) {
	s := t.store
	id := s.nextCampaignID
	s.nextCampaignID++
	t.undo = append(t.undo, func() { s.nextCampaignID = id })
	return id, nil
}

func (t *tx) InsertCampaign(_ context.Context, c domain.Campaign) error {
	s := t.store
	if _, exists := s.campaigns[c.ID]; exists {
		return fmt.Errorf("campaign %d already exists", c.ID)
	}
	s.campaigns[c.ID] = c
	t.undo = append(t.undo, func() { delete(s.campaigns, c.ID) })
	return nil
}

func (t *tx) Campaign(_ context.Context, id uint64) (domain.Campaign, error) {
	c, ok := t.store.campaigns[id]
	if !ok {
		return domain.Campaign{}, domain.ErrCampaignNotFound
	}
	return c, nil
}

func (t *tx) UpdateCampaign(_ context.Context, c domain.Campaign) error {
	s := t.store
	prev, ok := s.campaigns[c.ID]
	if !ok {
		return domain.ErrCampaignNotFound
	}
	s.campaigns[c.ID] = c
	t.undo = append(t.undo, func() { s.campaigns[c.ID] = prev })
	return nil
}

func (t *tx) Balance(_ context.Context, vault, account domain.Account) (domain.Amount, error) {
	return t.store.balances[balanceKey{vault: vault, account: account}], nil
}

func (t *tx) SetBalance(_ context.Context, vault, account domain.Account, amount domain.Amount) error {
	s := t.store
	key := balanceKey{vault: vault, account: account}
	prev, existed := s.balances[key]
	s.balances[key] = amount
	t.undo = append(t.undo, func() {
		if existed {
			s.balances[key] = prev
		} else {
			delete(s.balances, key)
		}
	})
	return nil
}

func (t *tx) PendingRefund(_ context.Context, account domain.Account) (domain.Amount, error) {
	return t.store.refunds[account], nil
}

func (t *tx) SetPendingRefund(_ context.Context, account domain.Account, amount domain.Amount) error {
	s := t.store
	prev, existed := s.refunds[account]
	s.refunds[account] = amount
	t.undo = append(t.undo, func() {
		if existed {
			s.refunds[account] = prev
		} else {
			delete(s.refunds, account)
		}
	})
	return nil
}

func (t *tx) Funds(_ context.Context, account domain.Account) (domain.Amount, error) {
	return t.store.funds[account], nil
}

func (t *tx) SetFunds(_ context.Context, account domain.Account, amount domain.Amount) error {
	s := t.store
	prev, existed := s.funds[account]
	s.funds[account] = amount
	t.undo = append(t.undo, func() {
		if existed {
			s.funds[account] = prev
		} else {
			delete(s.funds, account)
		}
	})
	return nil
}

func (t *tx) InsertInboundPayment(_ context.Context, p domain.InboundPayment) (bool, error) {
	s := t.store
	if _, seen := s.inbound[p.Reference]; seen {
		return false, nil
	}
	s.inbound[p.Reference] = p
	t.undo = append(t.undo, func() { delete(s.inbound, p.Reference) })
	return true, nil
}

func (t *tx) EnqueuePayout(_ context.Context, p domain.Payout) error {
	s := t.store
	n := len(s.payouts)
	s.payouts = append(s.payouts, p)
	t.undo = append(t.undo, func() { s.payouts = s.payouts[:n] })
	return nil
}

func (t *tx) OnCommit(fn func()) {
	t.onCommit = append(t.onCommit, fn)
}
