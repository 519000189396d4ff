package amm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
)

// SwapParams is an exact-input swap request.
type SwapParams struct {
	Owner        common.Address
	AssetIn      common.Address
	AmountIn     uint64
	MinAmountOut uint64
}

// FeeDistribution splits the swap fee between the protocol and liquidity
// providers. It is accounting only: the whole fee stays in the reserves.
type FeeDistribution struct {
	Recipient     common.Address
	Total         uint64
	ProtocolShare uint64
	LPShare       uint64
}

// SwapQuote is the pricing of one swap.
type SwapQuote struct {
	Direction      pool.Direction
	AmountIn       uint64
	Fee            uint64
	AmountInNet    uint64
	AmountOut      uint64
	PriceImpactPPM uint64
}

// SwapResult is the outcome of a swap.
type SwapResult struct {
	SwapQuote
	Pool pool.Pool
	Fees FeeDistribution
	Plan pool.Plan
}

// GetAmountOut computes the constant-product output for amountIn with the fee
// taken from the input side:
//
//	fee = ceil(amountIn * feeRateBP / 10000)
//	amountOut = floor((amountIn - fee) * reserveOut / (reserveIn + amountIn - fee))
func GetAmountOut(amountIn, reserveIn, reserveOut uint64, feeRateBP uint16) (amountOut, fee uint64, err error) {
	if amountIn == 0 {
		return 0, 0, errors.Wrap(apperrors.ErrZeroAmount, "amount in")
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, 0, apperrors.ErrEmptyPool
	}

	if fee, err = dexmath.ApplyRateCeil(amountIn, feeRateBP); err != nil {
		return 0, 0, errors.Wrap(err, "fee")
	}
	net := amountIn - fee

	den, err := dexmath.Add(reserveIn, net)
	if err != nil {
		return 0, 0, err
	}
	if amountOut, err = dexmath.MulDivFloor(net, reserveOut, den); err != nil {
		return 0, 0, errors.Wrap(err, "amount out")
	}
	return amountOut, fee, nil
}

// QuoteSwap prices a swap of amountIn of assetIn against p without mutating it.
func QuoteSwap(p pool.Pool, assetIn common.Address, amountIn uint64) (SwapQuote, error) {
	dir, err := p.DirectionFor(assetIn)
	if err != nil {
		return SwapQuote{}, err
	}
	if p.State() == pool.Empty {
		return SwapQuote{}, errors.Wrapf(apperrors.ErrEmptyPool, "pool %s", p.ID.Hex())
	}

	in, out := p.Sides(dir)
	amountOut, fee, err := GetAmountOut(amountIn, in.Reserve, out.Reserve, p.FeeRateBP)
	if err != nil {
		return SwapQuote{}, err
	}
	if amountOut >= out.Reserve {
		return SwapQuote{}, errors.Wrapf(apperrors.ErrInsufficientLiquidity,
			"amount out %d, reserve %d", amountOut, out.Reserve)
	}

	q := SwapQuote{
		Direction:   dir,
		AmountIn:    amountIn,
		Fee:         fee,
		AmountInNet: amountIn - fee,
		AmountOut:   amountOut,
	}

	newIn, err := dexmath.Add(in.Reserve, amountIn)
	if err != nil {
		return SwapQuote{}, err
	}
	if q.PriceImpactPPM, err = dexmath.PriceImpactPPM(in.Reserve, out.Reserve, newIn, out.Reserve-amountOut); err != nil {
		return SwapQuote{}, errors.Wrap(err, "price impact")
	}
	return q, nil
}

// Swap exchanges params.AmountIn of params.AssetIn for the other asset.
// cfg is the protocol configuration in effect for this request.
func Swap(p pool.Pool, cfg protocol.Config, params SwapParams) (SwapResult, error) {
	q, err := QuoteSwap(p, params.AssetIn, params.AmountIn)
	if err != nil {
		return SwapResult{}, err
	}
	if q.AmountOut == 0 {
		return SwapResult{}, errors.Wrapf(apperrors.ErrZeroOutput, "amount in %d", params.AmountIn)
	}
	if q.AmountOut < params.MinAmountOut {
		return SwapResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"amount out %d below minimum %d", q.AmountOut, params.MinAmountOut)
	}

	in, out := p.Sides(q.Direction)
	newIn, err := dexmath.Add(in.Reserve, q.AmountIn)
	if err != nil {
		return SwapResult{}, err
	}
	newOut, err := dexmath.Sub(out.Reserve, q.AmountOut)
	if err != nil {
		return SwapResult{}, err
	}
	if err := checkProduct(in.Reserve, out.Reserve, newIn, newOut); err != nil {
		return SwapResult{}, err
	}

	fees, err := distributeFee(cfg, q.Fee)
	if err != nil {
		return SwapResult{}, err
	}

	plan := pool.Plan{}.
		DepositTo(params.Owner, in, q.AmountIn).
		ReleaseTo(params.Owner, out, q.AmountOut)

	return SwapResult{
		SwapQuote: q,
		Pool:      p.WithReserves(q.Direction, newIn, newOut),
		Fees:      fees,
		Plan:      plan,
	}, nil
}

func distributeFee(cfg protocol.Config, fee uint64) (FeeDistribution, error) {
	d := FeeDistribution{Total: fee, LPShare: fee}
	if !cfg.Initialized {
		return d, nil
	}

	share, err := dexmath.ApplyRateFloor(fee, cfg.ProtocolFeeRateBP)
	if err != nil {
		return FeeDistribution{}, errors.Wrap(err, "protocol share")
	}
	d.Recipient = cfg.FeeRecipient
	d.ProtocolShare = share
	d.LPShare = fee - share
	return d, nil
}

// checkProduct fails unless reserveIn1*reserveOut1 >= reserveIn0*reserveOut0.
func checkProduct(reserveIn0, reserveOut0, reserveIn1, reserveOut1 uint64) error {
	k0 := new(uint256.Int).Mul(uint256.NewInt(reserveIn0), uint256.NewInt(reserveOut0))
	k1 := new(uint256.Int).Mul(uint256.NewInt(reserveIn1), uint256.NewInt(reserveOut1))
	if k1.Lt(k0) {
		return errors.Wrapf(apperrors.ErrInvariantViolated, "product decreased from %s to %s", k0.Dec(), k1.Dec())
	}
	return nil
}
