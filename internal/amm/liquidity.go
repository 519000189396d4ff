package amm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

// AddLiquidityParams is a deposit request against one pool.
type AddLiquidityParams struct {
	Owner          common.Address
	DesiredGreater uint64
	DesiredLesser  uint64
	MinGreater     uint64
	MinLesser      uint64
}

// AddLiquidityResult is the outcome of a deposit.
type AddLiquidityResult struct {
	Pool        pool.Pool
	UsedGreater uint64
	UsedLesser  uint64
	Minted      uint64
	Plan        pool.Plan
}

// DepositAmounts is the ratio-matched part of a deposit and the claim tokens it mints.
type DepositAmounts struct {
	UsedGreater uint64
	UsedLesser  uint64
	Minted      uint64
}

// QuoteDeposit sizes a deposit of up to (desiredGreater, desiredLesser)
// without checking minimums.
func QuoteDeposit(p pool.Pool, desiredGreater, desiredLesser uint64) (DepositAmounts, error) {
	if desiredGreater == 0 || desiredLesser == 0 {
		return DepositAmounts{}, errors.Wrap(apperrors.ErrZeroAmount, "desired amounts")
	}

	if p.State() == pool.Empty {
		return DepositAmounts{
			UsedGreater: desiredGreater,
			UsedLesser:  desiredLesser,
			Minted:      dexmath.SqrtProduct(desiredGreater, desiredLesser),
		}, nil
	}

	usedG, usedL, err := matchRatio(p, desiredGreater, desiredLesser)
	if err != nil {
		return DepositAmounts{}, err
	}

	byGreater, err := dexmath.MulDivFloor(usedG, p.ClaimSupply, p.ReserveGreater)
	if err != nil {
		return DepositAmounts{}, errors.Wrap(err, "mint by greater")
	}
	byLesser, err := dexmath.MulDivFloor(usedL, p.ClaimSupply, p.ReserveLesser)
	if err != nil {
		return DepositAmounts{}, errors.Wrap(err, "mint by lesser")
	}

	return DepositAmounts{
		UsedGreater: usedG,
		UsedLesser:  usedL,
		Minted:      min(byGreater, byLesser),
	}, nil
}

// matchRatio picks the largest amounts not above the desired ones that keep
// the pool ratio.
func matchRatio(p pool.Pool, desiredG, desiredL uint64) (uint64, uint64, error) {
	lesserOptimal, err := dexmath.MulDivFloor(desiredG, p.ReserveLesser, p.ReserveGreater)
	if err != nil {
		return 0, 0, errors.Wrap(err, "lesser optimal")
	}
	if lesserOptimal <= desiredL {
		return desiredG, lesserOptimal, nil
	}

	greaterOptimal, err := dexmath.MulDivFloor(desiredL, p.ReserveGreater, p.ReserveLesser)
	if err != nil {
		return 0, 0, errors.Wrap(err, "greater optimal")
	}
	return greaterOptimal, desiredL, nil
}

// AddLiquidity deposits into p and mints claim tokens to params.Owner.
func AddLiquidity(p pool.Pool, params AddLiquidityParams) (AddLiquidityResult, error) {
	amounts, err := QuoteDeposit(p, params.DesiredGreater, params.DesiredLesser)
	if err != nil {
		return AddLiquidityResult{}, err
	}

	if amounts.UsedGreater < params.MinGreater {
		return AddLiquidityResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"greater amount %d below minimum %d", amounts.UsedGreater, params.MinGreater)
	}
	if amounts.UsedLesser < params.MinLesser {
		return AddLiquidityResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"lesser amount %d below minimum %d", amounts.UsedLesser, params.MinLesser)
	}
	if amounts.Minted == 0 {
		return AddLiquidityResult{}, errors.Wrap(apperrors.ErrZeroOutput, "deposit mints no claim tokens")
	}

	next := p
	if next.ReserveGreater, err = dexmath.Add(p.ReserveGreater, amounts.UsedGreater); err != nil {
		return AddLiquidityResult{}, err
	}
	if next.ReserveLesser, err = dexmath.Add(p.ReserveLesser, amounts.UsedLesser); err != nil {
		return AddLiquidityResult{}, err
	}
	if next.ClaimSupply, err = dexmath.Add(p.ClaimSupply, amounts.Minted); err != nil {
		return AddLiquidityResult{}, err
	}
	if err := next.Validate(); err != nil {
		return AddLiquidityResult{}, err
	}

	g, l := p.Sides(pool.GreaterToLesser)
	plan := pool.Plan{}.
		DepositTo(params.Owner, g, amounts.UsedGreater).
		DepositTo(params.Owner, l, amounts.UsedLesser).
		MintTo(params.Owner, p.ClaimMint, amounts.Minted)

	return AddLiquidityResult{
		Pool:        next,
		UsedGreater: amounts.UsedGreater,
		UsedLesser:  amounts.UsedLesser,
		Minted:      amounts.Minted,
		Plan:        plan,
	}, nil
}
