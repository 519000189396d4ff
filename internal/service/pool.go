package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/metrics"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/service/validate"
)

// CreatePool creates an empty pool for a canonical pair and fee tier.
func (s *PoolService) CreatePool(ctx context.Context, req dto.CreatePoolRequest) (p pool.Pool, err error) {
	defer func() { s.observe(metrics.OpCreatePool, err) }()

	if err := validate.CreatePoolRequestValidate(req); err != nil {
		return pool.Pool{}, err
	}
	p, err = amm.CreatePool(amm.CreatePoolParams{
		AssetGreater: req.AssetGreater,
		AssetLesser:  req.AssetLesser,
		FeeRateBP:    req.FeeRateBP,
		Expected:     req.Expected,
	})
	if err != nil {
		return pool.Pool{}, errors.Wrap(err, "amm.CreatePool")
	}

	unlock := s.pools.Lock(p.ID)
	defer unlock()

	_, err = s.store.GetPool(ctx, p.ID)
	switch {
	case err == nil:
		return pool.Pool{}, errors.Wrapf(apperrors.ErrPoolExists, "pool %s", p.ID.Hex())
	case !errors.Is(err, apperrors.ErrPoolNotFound):
		return pool.Pool{}, errors.Wrap(err, "s.store.GetPool")
	}

	if err := s.store.PutPool(ctx, p); err != nil {
		return pool.Pool{}, errors.Wrap(err, "s.store.PutPool")
	}
	s.metrics.PoolCreated()

	s.log.Info("pool created",
		zap.Stringer("pool", p.ID),
		zap.Stringer("asset_greater", p.AssetGreater),
		zap.Stringer("asset_lesser", p.AssetLesser),
		zap.Uint16("fee_rate_bp", p.FeeRateBP),
	)
	return p, nil
}

// GetPool returns the stored pool record.
func (s *PoolService) GetPool(ctx context.Context, id common.Address) (pool.Pool, error) {
	p, err := s.store.GetPool(ctx, id)
	if err != nil {
		return pool.Pool{}, errors.Wrap(err, "s.store.GetPool")
	}
	return p, nil
}

// ListPools returns every pool ordered by identifier.
func (s *PoolService) ListPools(ctx context.Context) ([]pool.Pool, error) {
	pools, err := s.store.ListPools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "s.store.ListPools")
	}
	return pools, nil
}

// mutation is one engine call against a locked pool snapshot.
type mutation func(p pool.Pool) (pool.Pool, pool.Plan, error)

// mutate loads the pool, runs fn, applies its plan to the ledger and stores
// the new record. If storing fails the plan is reversed.
func (s *PoolService) mutate(ctx context.Context, id common.Address, fn mutation) error {
	unlock := s.pools.Lock(id)
	defer unlock()

	current, err := s.store.GetPool(ctx, id)
	if err != nil {
		return errors.Wrap(err, "s.store.GetPool")
	}
	if err := current.VerifyIdentifiers(); err != nil {
		return errors.Wrap(err, "current.VerifyIdentifiers")
	}

	next, plan, err := fn(current)
	if err != nil {
		return err
	}

	if err := s.ledger.Apply(ctx, plan); err != nil {
		return errors.Wrap(err, "s.ledger.Apply")
	}

	if err := s.store.PutPool(ctx, next); err != nil {
		err = errors.Wrap(err, "s.store.PutPool")
		if rerr := s.ledger.Apply(context.WithoutCancel(ctx), plan.Reverse()); rerr != nil {
			s.log.Error("reverting transfer plan failed",
				zap.Stringer("pool", id),
				zap.Error(rerr),
			)
			return multierr.Append(err, errors.Wrap(rerr, "revert plan"))
		}
		return err
	}
	return nil
}

func poolFields(p pool.Pool) []zap.Field {
	return []zap.Field{
		zap.Stringer("pool", p.ID),
		zap.Uint64("reserve_greater", p.ReserveGreater),
		zap.Uint64("reserve_lesser", p.ReserveLesser),
		zap.Uint64("claim_supply", p.ClaimSupply),
	}
}
