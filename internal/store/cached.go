package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/pool"
)

// Cached keeps recently used pool records in memory in front of another Store.
// Writes go to the inner store first and refresh the cache on success.
type Cached struct {
	Store
	pools *lru.Cache[common.Address, pool.Pool]
}

// NewCached wraps inner with an LRU of size entries.
func NewCached(inner Store, size int) (*Cached, error) {
	c, err := lru.New[common.Address, pool.Pool](size)
	if err != nil {
		return nil, errors.Wrap(err, "lru.New")
	}
	return &Cached{Store: inner, pools: c}, nil
}

// GetPool implements Store.
func (c *Cached) GetPool(ctx context.Context, id common.Address) (pool.Pool, error) {
	if p, ok := c.pools.Get(id); ok {
		return p, nil
	}
	p, err := c.Store.GetPool(ctx, id)
	if err != nil {
		return pool.Pool{}, err
	}
	c.pools.Add(id, p)
	return p, nil
}

// PutPool implements Store.
func (c *Cached) PutPool(ctx context.Context, p pool.Pool) error {
	if err := c.Store.PutPool(ctx, p); err != nil {
		c.pools.Remove(p.ID)
		return err
	}
	c.pools.Add(p.ID, p)
	return nil
}

