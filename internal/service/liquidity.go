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

// AddLiquidity deposits into a pool and mints claim tokens to the owner.
func (s *PoolService) AddLiquidity(ctx context.Context, req dto.AddLiquidityRequest) (res amm.AddLiquidityResult, err error) {
	defer func() { s.observe(metrics.OpAddLiquidity, err) }()

	if err := validate.AddLiquidityRequestValidate(req); err != nil {
		return amm.AddLiquidityResult{}, err
	}

	err = s.mutate(ctx, req.Pool, func(p pool.Pool) (pool.Pool, pool.Plan, error) {
		res, err = amm.AddLiquidity(p, amm.AddLiquidityParams{
			Owner:          req.Owner,
			DesiredGreater: req.DesiredGreater,
			DesiredLesser:  req.DesiredLesser,
			MinGreater:     req.MinGreater,
			MinLesser:      req.MinLesser,
		})
		if err != nil {
			return pool.Pool{}, nil, errors.Wrap(err, "amm.AddLiquidity")
		}
		return res.Pool, res.Plan, nil
	})
	if err != nil {
		return amm.AddLiquidityResult{}, err
	}

	s.log.Info("liquidity added", append(poolFields(res.Pool),
		zap.Stringer("owner", req.Owner),
		zap.Uint64("used_greater", res.UsedGreater),
		zap.Uint64("used_lesser", res.UsedLesser),
		zap.Uint64("minted", res.Minted),
	)...)
	return res, nil
}

// RemoveLiquidity burns claim tokens and releases the owner's share of reserves.
func (s *PoolService) RemoveLiquidity(ctx context.Context, req dto.RemoveLiquidityRequest) (res amm.RemoveLiquidityResult, err error) {
	defer func() { s.observe(metrics.OpRemoveLiquidity, err) }()

	if err := validate.RemoveLiquidityRequestValidate(req); err != nil {
		return amm.RemoveLiquidityResult{}, err
	}

	err = s.mutate(ctx, req.Pool, func(p pool.Pool) (pool.Pool, pool.Plan, error) {
		res, err = amm.RemoveLiquidity(p, amm.RemoveLiquidityParams{
			Owner:      req.Owner,
			Claim:      req.Claim,
			MinGreater: req.MinGreater,
			MinLesser:  req.MinLesser,
		})
		if err != nil {
			return pool.Pool{}, nil, errors.Wrap(err, "amm.RemoveLiquidity")
		}
		return res.Pool, res.Plan, nil
	})
	if err != nil {
		return amm.RemoveLiquidityResult{}, err
	}

	s.log.Info("liquidity removed", append(poolFields(res.Pool),
		zap.Stringer("owner", req.Owner),
		zap.Uint64("claim", req.Claim),
		zap.Uint64("out_greater", res.OutGreater),
		zap.Uint64("out_lesser", res.OutLesser),
	)...)
	return res, nil
}
