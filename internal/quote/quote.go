// Package quote turns engine pricing into request parameters with slippage
// minimums, the way wallets prepare deposits, swaps and withdrawals.
package quote

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

// Tolerance is a slippage tolerance in basis points.
type Tolerance uint16

// Preset tolerances.
const (
	ToleranceNone    Tolerance = 0
	ToleranceLow     Tolerance = 50
	ToleranceMedium  Tolerance = 100
	ToleranceHigh    Tolerance = 200
	ToleranceExtreme Tolerance = 500
)

// ApplySlippage returns floor(amount * (10000 - tol) / 10000).
func ApplySlippage(amount uint64, tol Tolerance) (uint64, error) {
	if tol > dexmath.BPSDenominator {
		return 0, errors.Wrapf(apperrors.ErrInvalidArgument, "tolerance %d bp", tol)
	}
	return dexmath.MulDivFloor(amount, uint64(dexmath.BPSDenominator-tol), dexmath.BPSDenominator)
}

// Deposit is a priced deposit with its minimums.
type Deposit struct {
	amm.DepositAmounts
	MinGreater uint64
	MinLesser  uint64
}

// Params returns the engine request for owner.
func (d Deposit) Params(owner common.Address) amm.AddLiquidityParams {
	return amm.AddLiquidityParams{
		Owner:          owner,
		DesiredGreater: d.UsedGreater,
		DesiredLesser:  d.UsedLesser,
		MinGreater:     d.MinGreater,
		MinLesser:      d.MinLesser,
	}
}

// ForDeposit prices a deposit of up to (desiredGreater, desiredLesser).
// A first deposit sets the price, so its minimums equal the amounts.
func ForDeposit(p pool.Pool, desiredGreater, desiredLesser uint64, tol Tolerance) (Deposit, error) {
	amounts, err := amm.QuoteDeposit(p, desiredGreater, desiredLesser)
	if err != nil {
		return Deposit{}, err
	}

	q := Deposit{DepositAmounts: amounts}
	if p.State() == pool.Empty {
		q.MinGreater, q.MinLesser = amounts.UsedGreater, amounts.UsedLesser
		return q, nil
	}
	if q.MinGreater, err = ApplySlippage(amounts.UsedGreater, tol); err != nil {
		return Deposit{}, err
	}
	if q.MinLesser, err = ApplySlippage(amounts.UsedLesser, tol); err != nil {
		return Deposit{}, err
	}
	return q, nil
}

// Swap is a priced swap with its minimum output.
type Swap struct {
	amm.SwapQuote
	AssetIn      common.Address
	MinAmountOut uint64
}

// Params returns the engine request for owner.
func (s Swap) Params(owner common.Address) amm.SwapParams {
	return amm.SwapParams{
		Owner:        owner,
		AssetIn:      s.AssetIn,
		AmountIn:     s.AmountIn,
		MinAmountOut: s.MinAmountOut,
	}
}

// ForSwap prices a swap of amountIn of assetIn.
func ForSwap(p pool.Pool, assetIn common.Address, amountIn uint64, tol Tolerance) (Swap, error) {
	sq, err := amm.QuoteSwap(p, assetIn, amountIn)
	if err != nil {
		return Swap{}, err
	}
	minOut, err := ApplySlippage(sq.AmountOut, tol)
	if err != nil {
		return Swap{}, err
	}
	return Swap{SwapQuote: sq, AssetIn: assetIn, MinAmountOut: minOut}, nil
}

// Withdrawal is a priced withdrawal with its minimums.
type Withdrawal struct {
	Claim      uint64
	OutGreater uint64
	OutLesser  uint64
	MinGreater uint64
	MinLesser  uint64
}

// Params returns the engine request for owner.
func (w Withdrawal) Params(owner common.Address) amm.RemoveLiquidityParams {
	return amm.RemoveLiquidityParams{
		Owner:      owner,
		Claim:      w.Claim,
		MinGreater: w.MinGreater,
		MinLesser:  w.MinLesser,
	}
}

// ForWithdrawal prices a burn of claim tokens.
func ForWithdrawal(p pool.Pool, claim uint64, tol Tolerance) (Withdrawal, error) {
	outG, outL, err := amm.QuoteWithdrawal(p, claim)
	if err != nil {
		return Withdrawal{}, err
	}

	w := Withdrawal{Claim: claim, OutGreater: outG, OutLesser: outL}
	if w.MinGreater, err = ApplySlippage(outG, tol); err != nil {
		return Withdrawal{}, err
	}
	if w.MinLesser, err = ApplySlippage(outL, tol); err != nil {
		return Withdrawal{}, err
	}
	return w, nil
}
