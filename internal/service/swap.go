package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/metrics"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/service/validate"
)

// Swap exchanges an exact input amount for the other asset of the pool.
// The fee split is computed against the protocol configuration read at the
// start of the request; an uninitialized configuration attributes the whole
// fee to liquidity providers.
func (s *PoolService) Swap(ctx context.Context, req dto.SwapRequest) (res amm.SwapResult, err error) {
	defer func() { s.observe(metrics.OpSwap, err) }()

	if err := validate.SwapRequestValidate(req); err != nil {
		return amm.SwapResult{}, err
	}

	cfg, err := s.currentConfig(ctx)
	if err != nil {
		return amm.SwapResult{}, err
	}

	err = s.mutate(ctx, req.Pool, func(p pool.Pool) (pool.Pool, pool.Plan, error) {
		res, err = amm.Swap(p, cfg, amm.SwapParams{
			Owner:        req.Owner,
			AssetIn:      req.AssetIn,
			AmountIn:     req.AmountIn,
			MinAmountOut: req.MinAmountOut,
		})
		if err != nil {
			return pool.Pool{}, nil, errors.Wrap(err, "amm.Swap")
		}
		return res.Pool, res.Plan, nil
	})
	if err != nil {
		return amm.SwapResult{}, err
	}

	s.metrics.SwapFee(res.Fees.Total, res.Fees.ProtocolShare)
	s.log.Info("swap executed", append(poolFields(res.Pool),
		zap.Stringer("owner", req.Owner),
		zap.Stringer("direction", res.Direction),
		zap.Uint64("amount_in", res.AmountIn),
		zap.Uint64("fee", res.Fee),
		zap.Uint64("amount_out", res.AmountOut),
		zap.Uint64("protocol_fee_share", res.Fees.ProtocolShare),
		zap.Uint64("price_impact_ppm", res.PriceImpactPPM),
	)...)
	return res, nil
}
