// Package pool defines the pool invariant record and the transfer plans the
// engines emit against it.
package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/pair"
)

// State of a pool as seen from its reserves.
type State int

const (
	// Empty pools have no reserves and no claim supply.
	Empty State = iota
	// Funded pools hold positive reserves on both sides.
	Funded
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Funded:
		return "funded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pool is the invariant record of one (canonical pair, fee tier).
//
// ID, VaultGreater, VaultLesser and ClaimMint are derived from AssetGreater,
// AssetLesser and FeeRateBP and never change.
type Pool struct {
	ID             common.Address
	AssetGreater   common.Address
	AssetLesser    common.Address
	VaultGreater   common.Address
	VaultLesser    common.Address
	ClaimMint      common.Address
	FeeRateBP      uint16
	ReserveGreater uint64
	ReserveLesser  uint64
	ClaimSupply    uint64
}

// New returns an empty pool for a canonical pair.
func New(greater, lesser common.Address, feeRateBP uint16) (Pool, error) {
	ids, err := pair.Derive(greater, lesser, feeRateBP)
	if err != nil {
		return Pool{}, errors.Wrap(err, "pair.Derive")
	}
	return Pool{
		ID:           ids.Pool,
		AssetGreater: greater,
		AssetLesser:  lesser,
		VaultGreater: ids.VaultGreater,
		VaultLesser:  ids.VaultLesser,
		ClaimMint:    ids.ClaimMint,
		FeeRateBP:    feeRateBP,
	}, nil
}

// Identifiers returns the derived addresses stored on the record.
func (p Pool) Identifiers() pair.Identifiers {
	return pair.Identifiers{
		Pool:         p.ID,
		VaultGreater: p.VaultGreater,
		VaultLesser:  p.VaultLesser,
		ClaimMint:    p.ClaimMint,
	}
}

// VerifyIdentifiers fails with ErrSeedMismatch if the stored addresses do not
// match a fresh derivation.
func (p Pool) VerifyIdentifiers() error {
	return pair.Verify(p.AssetGreater, p.AssetLesser, p.FeeRateBP, p.Identifiers())
}

// State reports Empty when both reserves are zero.
func (p Pool) State() State {
	if p.ReserveGreater == 0 && p.ReserveLesser == 0 {
		return Empty
	}
	return Funded
}

// Validate checks the record-level invariants.
func (p Pool) Validate() error {
	if err := pair.CheckOrder(p.AssetGreater, p.AssetLesser); err != nil {
		return err
	}
	if (p.ReserveGreater == 0) != (p.ReserveLesser == 0) {
		return errors.Wrapf(apperrors.ErrInvariantViolated,
			"one-sided reserves %d/%d", p.ReserveGreater, p.ReserveLesser)
	}
	if (p.ClaimSupply == 0) != (p.State() == Empty) {
		return errors.Wrapf(apperrors.ErrInvariantViolated,
			"supply %d with state %s", p.ClaimSupply, p.State())
	}
	return nil
}

// Has reports whether asset is one side of the pool.
func (p Pool) Has(asset common.Address) bool {
	return asset == p.AssetGreater || asset == p.AssetLesser
}

// DirectionFor returns the swap direction that spends assetIn.
func (p Pool) DirectionFor(assetIn common.Address) (Direction, error) {
	switch assetIn {
	case p.AssetGreater:
		return GreaterToLesser, nil
	case p.AssetLesser:
		return LesserToGreater, nil
	}
	return 0, errors.Wrapf(apperrors.ErrInvalidArgument, "asset %s is not in pool %s", assetIn.Hex(), p.ID.Hex())
}

// Sides returns (asset, vault, reserve) for the input and output side of d.
func (p Pool) Sides(d Direction) (in, out Side) {
	g := Side{Asset: p.AssetGreater, Vault: p.VaultGreater, Reserve: p.ReserveGreater}
	l := Side{Asset: p.AssetLesser, Vault: p.VaultLesser, Reserve: p.ReserveLesser}
	if d == GreaterToLesser {
		return g, l
	}
	return l, g
}

// WithReserves returns a copy with the reserves of d's sides replaced.
func (p Pool) WithReserves(d Direction, reserveIn, reserveOut uint64) Pool {
	if d == GreaterToLesser {
		p.ReserveGreater, p.ReserveLesser = reserveIn, reserveOut
	} else {
		p.ReserveGreater, p.ReserveLesser = reserveOut, reserveIn
	}
	return p
}

// Side is one half of a pool viewed from a swap.
type Side struct {
	Asset   common.Address
	Vault   common.Address
	Reserve uint64
}

// Direction of a swap.
type Direction int

const (
	GreaterToLesser Direction = iota
	LesserToGreater
)

func (d Direction) String() string {
	if d == GreaterToLesser {
		return "greater_to_lesser"
	}
	return "lesser_to_greater"
}
