package amm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

// RemoveLiquidityParams is a withdrawal request against one pool.
type RemoveLiquidityParams struct {
	Owner      common.Address
	Claim      uint64
	MinGreater uint64
	MinLesser  uint64
}

// RemoveLiquidityResult is the outcome of a withdrawal.
type RemoveLiquidityResult struct {
	Pool       pool.Pool
	OutGreater uint64
	OutLesser  uint64
	Plan       pool.Plan
}

// QuoteWithdrawal returns the reserves a burn of claim releases.
func QuoteWithdrawal(p pool.Pool, claim uint64) (outGreater, outLesser uint64, err error) {
	if claim == 0 {
		return 0, 0, errors.Wrap(apperrors.ErrZeroAmount, "claim amount")
	}
	if p.ClaimSupply == 0 || claim > p.ClaimSupply {
		return 0, 0, errors.Wrapf(apperrors.ErrInsufficientSupply, "claim %d, supply %d", claim, p.ClaimSupply)
	}

	if outGreater, err = dexmath.MulDivFloor(claim, p.ReserveGreater, p.ClaimSupply); err != nil {
		return 0, 0, errors.Wrap(err, "greater share")
	}
	if outLesser, err = dexmath.MulDivFloor(claim, p.ReserveLesser, p.ClaimSupply); err != nil {
		return 0, 0, errors.Wrap(err, "lesser share")
	}
	return outGreater, outLesser, nil
}

// RemoveLiquidity burns params.Claim and releases the proportional reserves.
// Burning the whole supply releases the whole reserves.
func RemoveLiquidity(p pool.Pool, params RemoveLiquidityParams) (RemoveLiquidityResult, error) {
	outG, outL, err := QuoteWithdrawal(p, params.Claim)
	if err != nil {
		return RemoveLiquidityResult{}, err
	}

	if outG < params.MinGreater {
		return RemoveLiquidityResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"greater amount %d below minimum %d", outG, params.MinGreater)
	}
	if outL < params.MinLesser {
		return RemoveLiquidityResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"lesser amount %d below minimum %d", outL, params.MinLesser)
	}
	if outG == 0 && outL == 0 {
		return RemoveLiquidityResult{}, errors.Wrap(apperrors.ErrZeroOutput, "withdrawal releases nothing")
	}

	next := p
	if next.ReserveGreater, err = dexmath.Sub(p.ReserveGreater, outG); err != nil {
		return RemoveLiquidityResult{}, err
	}
	if next.ReserveLesser, err = dexmath.Sub(p.ReserveLesser, outL); err != nil {
		return RemoveLiquidityResult{}, err
	}
	if next.ClaimSupply, err = dexmath.Sub(p.ClaimSupply, params.Claim); err != nil {
		return RemoveLiquidityResult{}, err
	}
	// Covers both the exact final withdrawal and one-sided leftovers.
	if err := next.Validate(); err != nil {
		return RemoveLiquidityResult{}, err
	}

	g, l := p.Sides(pool.GreaterToLesser)
	plan := pool.Plan{}.
		BurnFrom(params.Owner, p.ClaimMint, params.Claim).
		ReleaseTo(params.Owner, g, outG).
		ReleaseTo(params.Owner, l, outL)

	return RemoveLiquidityResult{
		Pool:       next,
		OutGreater: outG,
		OutLesser:  outL,
		Plan:       plan,
	}, nil
}
