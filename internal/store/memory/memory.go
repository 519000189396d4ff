// Package memory is a map-backed store.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
)

// Store keeps everything in process memory.
type Store struct {
	mu       sync.RWMutex
	pools    map[common.Address]pool.Pool
	config   *protocol.Config
	balances map[[2]common.Address]uint64
	supplies map[common.Address]uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		pools:    make(map[common.Address]pool.Pool),
		balances: make(map[[2]common.Address]uint64),
		supplies: make(map[common.Address]uint64),
	}
}

// GetPool implements store.Store.
func (s *Store) GetPool(_ context.Context, id common.Address) (pool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[id]
	if !ok {
		return pool.Pool{}, apperrors.ErrPoolNotFound
	}
	return p, nil
}

// PutPool implements store.Store.
func (s *Store) PutPool(_ context.Context, p pool.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools[p.ID] = p
	return nil
}

// ListPools implements store.Store. Pools are ordered by identifier.
func (s *Store) ListPools(_ context.Context) ([]pool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pool.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Cmp(out[j].ID) < 0 })
	return out, nil
}

// GetConfig implements store.Store.
func (s *Store) GetConfig(_ context.Context) (protocol.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return protocol.Config{}, apperrors.ErrConfigNotInitialized
	}
	return *s.config, nil
}

// PutConfig implements store.Store.
func (s *Store) PutConfig(_ context.Context, cfg protocol.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = &cfg
	return nil
}

// LoadBalances implements ledger.Journal.
func (s *Store) LoadBalances(_ context.Context) (ledger.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap ledger.Snapshot
	for k, v := range s.balances {
		snap.Balances = append(snap.Balances, ledger.Balance{Owner: k[0], Asset: k[1], Amount: v})
	}
	for asset, v := range s.supplies {
		snap.Supplies = append(snap.Supplies, ledger.Supply{Asset: asset, Amount: v})
	}
	return snap, nil
}

// PutBalances implements ledger.Journal.
func (s *Store) PutBalances(_ context.Context, snap ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range snap.Balances {
		k := [2]common.Address{b.Owner, b.Asset}
		if b.Amount == 0 {
			delete(s.balances, k)
			continue
		}
		s.balances[k] = b.Amount
	}
	for _, sp := range snap.Supplies {
		if sp.Amount == 0 {
			delete(s.supplies, sp.Asset)
			continue
		}
		s.supplies[sp.Asset] = sp.Amount
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}
