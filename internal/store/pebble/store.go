// Package pebble is a store.Store on top of a Pebble key-value database.
// Records are borsh-encoded behind a one-byte version tag.
package pebble

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
)

// Store persists pools, config and ledger balances in Pebble.
type Store struct {
	db *pebble.DB
}

// Open opens or creates a database at path.
func Open(path string) (*Store, error) {
	return open(path, &pebble.Options{})
}

// OpenInMemory opens a database backed by an in-memory filesystem.
func OpenInMemory() (*Store, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(path string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, errors.Wrap(err, "pebble.Open")
	}
	return &Store{db: db}, nil
}

func (s *Store) get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// GetPool implements store.Store.
func (s *Store) GetPool(ctx context.Context, id common.Address) (pool.Pool, error) {
	if err := ctx.Err(); err != nil {
		return pool.Pool{}, errors.Wrap(err, "ctx.Err")
	}

	data, err := s.get(poolKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return pool.Pool{}, apperrors.ErrPoolNotFound
		}
		return pool.Pool{}, errors.Wrap(err, "s.db.Get")
	}
	return decodePool(data)
}

// PutPool implements store.Store.
func (s *Store) PutPool(ctx context.Context, p pool.Pool) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "ctx.Err")
	}

	data, err := encodePool(p)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Set(poolKey(p.ID), data, pebble.Sync), "s.db.Set")
}

// ListPools implements store.Store. Pools are ordered by identifier.
func (s *Store) ListPools(ctx context.Context) ([]pool.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "ctx.Err")
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixPool,
		UpperBound: keyConfig,
	})
	if err != nil {
		return nil, errors.Wrap(err, "s.db.NewIter")
	}
	defer iter.Close()

	var out []pool.Pool
	for iter.First(); iter.Valid(); iter.Next() {
		p, err := decodePool(iter.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "key %x", iter.Key())
		}
		out = append(out, p)
	}
	return out, errors.Wrap(iter.Error(), "iter.Error")
}

// GetConfig implements store.Store.
func (s *Store) GetConfig(ctx context.Context) (protocol.Config, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Config{}, errors.Wrap(err, "ctx.Err")
	}

	data, err := s.get(keyConfig)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return protocol.Config{}, apperrors.ErrConfigNotInitialized
		}
		return protocol.Config{}, errors.Wrap(err, "s.db.Get")
	}
	return decodeConfig(data)
}

// PutConfig implements store.Store.
func (s *Store) PutConfig(ctx context.Context, cfg protocol.Config) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "ctx.Err")
	}

	data, err := encodeConfig(cfg)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Set(keyConfig, data, pebble.Sync), "s.db.Set")
}

// LoadBalances implements ledger.Journal.
func (s *Store) LoadBalances(ctx context.Context) (ledger.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "ctx.Err")
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixBalance,
		UpperBound: prefixEnd,
	})
	if err != nil {
		return ledger.Snapshot{}, errors.Wrap(err, "s.db.NewIter")
	}
	defer iter.Close()

	var snap ledger.Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		switch iter.Key()[0] {
		case prefixBalance[0]:
			b, err := decodeBalance(iter.Value())
			if err != nil {
				return ledger.Snapshot{}, errors.Wrapf(err, "key %x", iter.Key())
			}
			snap.Balances = append(snap.Balances, b)
		case prefixSupply[0]:
			sp, err := decodeSupply(iter.Value())
			if err != nil {
				return ledger.Snapshot{}, errors.Wrapf(err, "key %x", iter.Key())
			}
			snap.Supplies = append(snap.Supplies, sp)
		}
	}
	return snap, errors.Wrap(iter.Error(), "iter.Error")
}

// PutBalances implements ledger.Journal. The entries land in one synced batch.
func (s *Store) PutBalances(ctx context.Context, snap ledger.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "ctx.Err")
	}

	b := s.db.NewBatch()
	defer b.Close()

	for _, bal := range snap.Balances {
		key := balanceKey(bal.Owner, bal.Asset)
		if bal.Amount == 0 {
			if err := b.Delete(key, nil); err != nil {
				return errors.Wrap(err, "b.Delete")
			}
			continue
		}
		data, err := encode(balanceRecord{Owner: bal.Owner, Asset: bal.Asset, Amount: bal.Amount})
		if err != nil {
			return err
		}
		if err := b.Set(key, data, nil); err != nil {
			return errors.Wrap(err, "b.Set")
		}
	}
	for _, sp := range snap.Supplies {
		key := supplyKey(sp.Asset)
		if sp.Amount == 0 {
			if err := b.Delete(key, nil); err != nil {
				return errors.Wrap(err, "b.Delete")
			}
			continue
		}
		data, err := encode(supplyRecord{Asset: sp.Asset, Amount: sp.Amount})
		if err != nil {
			return err
		}
		if err := b.Set(key, data, nil); err != nil {
			return errors.Wrap(err, "b.Set")
		}
	}
	return errors.Wrap(b.Commit(pebble.Sync), "b.Commit")
}

// Close implements store.Store.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "s.db.Close")
}
