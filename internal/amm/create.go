// Package amm implements the pool engines: creation, liquidity provision,
// withdrawal and swaps. Every function is pure: it takes a pool snapshot and
// returns the next snapshot together with the transfer plan that realises it.
package amm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/pair"
	"github.com/fleshka4/cpamm/internal/pool"
)

// CreatePoolParams describes a new pool. Expected, when set, holds the
// identifiers the caller computed and must match the derived ones.
type CreatePoolParams struct {
	AssetGreater common.Address
	AssetLesser  common.Address
	FeeRateBP    uint16
	Expected     *pair.Identifiers
}

// CreatePool returns the empty record for a canonical pair and fee tier.
// Callers passing a non-canonical pair get ErrInvalidTokenOrder; pair.Canonicalize
// is the way to order user input first.
func CreatePool(params CreatePoolParams) (pool.Pool, error) {
	p, err := pool.New(params.AssetGreater, params.AssetLesser, params.FeeRateBP)
	if err != nil {
		return pool.Pool{}, errors.Wrap(err, "pool.New")
	}
	if params.Expected != nil {
		if err := pair.Verify(p.AssetGreater, p.AssetLesser, p.FeeRateBP, *params.Expected); err != nil {
			return pool.Pool{}, errors.Wrap(err, "pair.Verify")
		}
	}
	return p, nil
}
