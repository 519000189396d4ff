// Package ledger is the token-transfer subsystem the pool engines hand their
// transfer plans to.
package ledger

//go:generate mockgen -source=ledger.go -destination=mock/ledger.go -package=mock

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

// Ledger moves balances according to transfer plans.
type Ledger interface {
	// Apply executes every leg of plan or none of them.
	Apply(ctx context.Context, plan pool.Plan) error
	// Credit adds amount of asset to owner, growing the asset's supply.
	Credit(ctx context.Context, owner, asset common.Address, amount uint64) error
	// Balance returns owner's holdings of asset.
	Balance(ctx context.Context, owner, asset common.Address) (uint64, error)
	// Supply returns the total amount of asset in existence.
	Supply(ctx context.Context, asset common.Address) (uint64, error)
}

type account struct {
	owner common.Address
	asset common.Address
}

// Memory is an in-process Ledger, optionally backed by a Journal.
type Memory struct {
	mu       sync.Mutex
	balances map[account]uint64
	supply   map[common.Address]uint64
	journal  Journal
}

// NewMemory returns an empty ledger that keeps nothing across restarts.
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[account]uint64),
		supply:   make(map[common.Address]uint64),
	}
}

// staged collects the effect of a plan before it is committed.
type staged struct {
	m        *Memory
	balances map[account]uint64
	supply   map[common.Address]uint64
}

func (s *staged) balance(a account) uint64 {
	if v, ok := s.balances[a]; ok {
		return v
	}
	return s.m.balances[a]
}

func (s *staged) total(asset common.Address) uint64 {
	if v, ok := s.supply[asset]; ok {
		return v
	}
	return s.m.supply[asset]
}

func (s *staged) debit(a account, amount uint64) error {
	next, err := dexmath.Sub(s.balance(a), amount)
	if err != nil {
		return errors.Wrapf(apperrors.ErrInsufficientBalance,
			"%s holds %d of %s, needs %d", a.owner.Hex(), s.balance(a), a.asset.Hex(), amount)
	}
	s.balances[a] = next
	return nil
}

func (s *staged) credit(a account, amount uint64) error {
	next, err := dexmath.Add(s.balance(a), amount)
	if err != nil {
		return err
	}
	s.balances[a] = next
	return nil
}

func (s *staged) apply(t pool.Transfer) error {
	from := account{owner: t.From, asset: t.Asset}
	to := account{owner: t.To, asset: t.Asset}

	switch t.Kind {
	case pool.Deposit, pool.Release:
		if err := s.debit(from, t.Amount); err != nil {
			return err
		}
		return s.credit(to, t.Amount)
	case pool.Mint:
		total, err := dexmath.Add(s.total(t.Asset), t.Amount)
		if err != nil {
			return err
		}
		s.supply[t.Asset] = total
		return s.credit(to, t.Amount)
	case pool.Burn:
		if err := s.debit(from, t.Amount); err != nil {
			return err
		}
		total, err := dexmath.Sub(s.total(t.Asset), t.Amount)
		if err != nil {
			return err
		}
		s.supply[t.Asset] = total
		return nil
	}
	return errors.Wrapf(apperrors.ErrInvalidArgument, "unknown transfer kind %d", t.Kind)
}

// Apply implements Ledger.
func (m *Memory) Apply(ctx context.Context, plan pool.Plan) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "ctx.Err")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := &staged{
		m:        m,
		balances: make(map[account]uint64, 2*len(plan)),
		supply:   make(map[common.Address]uint64, 1),
	}
	for i, t := range plan {
		if err := s.apply(t); err != nil {
			return errors.Wrapf(err, "leg %d (%s)", i, t.Kind)
		}
	}

	if m.journal != nil {
		if err := m.journal.PutBalances(ctx, s.snapshot()); err != nil {
			return errors.Wrap(err, "journal.PutBalances")
		}
	}

	for a, v := range s.balances {
		if v == 0 {
			delete(m.balances, a)
			continue
		}
		m.balances[a] = v
	}
	for asset, v := range s.supply {
		m.supply[asset] = v
	}
	return nil
}

// Credit implements Ledger.
func (m *Memory) Credit(ctx context.Context, owner, asset common.Address, amount uint64) error {
	return m.Apply(ctx, pool.Plan{}.MintTo(owner, asset, amount))
}

// Balance implements Ledger.
func (m *Memory) Balance(ctx context.Context, owner, asset common.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "ctx.Err")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account{owner: owner, asset: asset}], nil
}

// Accounts returns the number of non-zero balances held.
func (m *Memory) Accounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.balances)
}

// Supply implements Ledger.
func (m *Memory) Supply(ctx context.Context, asset common.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "ctx.Err")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supply[asset], nil
}
