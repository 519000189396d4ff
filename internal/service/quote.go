package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/quote"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/service/validate"
)

// QuoteSwap prices a swap against the current pool state.
func (s *PoolService) QuoteSwap(ctx context.Context, req dto.QuoteSwapRequest) (quote.Swap, error) {
	if err := validate.QuoteSwapRequestValidate(req); err != nil {
		return quote.Swap{}, err
	}
	p, err := s.GetPool(ctx, req.Pool)
	if err != nil {
		return quote.Swap{}, err
	}
	q, err := quote.ForSwap(p, req.AssetIn, req.AmountIn, req.Tolerance)
	return q, errors.Wrap(err, "quote.ForSwap")
}

// QuoteDeposit prices a deposit against the current pool state.
func (s *PoolService) QuoteDeposit(ctx context.Context, req dto.QuoteDepositRequest) (quote.Deposit, error) {
	if err := validate.QuoteDepositRequestValidate(req); err != nil {
		return quote.Deposit{}, err
	}
	p, err := s.GetPool(ctx, req.Pool)
	if err != nil {
		return quote.Deposit{}, err
	}
	q, err := quote.ForDeposit(p, req.DesiredGreater, req.DesiredLesser, req.Tolerance)
	return q, errors.Wrap(err, "quote.ForDeposit")
}

// QuoteWithdrawal prices a withdrawal against the current pool state.
func (s *PoolService) QuoteWithdrawal(ctx context.Context, req dto.QuoteWithdrawalRequest) (quote.Withdrawal, error) {
	if err := validate.QuoteWithdrawalRequestValidate(req); err != nil {
		return quote.Withdrawal{}, err
	}
	p, err := s.GetPool(ctx, req.Pool)
	if err != nil {
		return quote.Withdrawal{}, err
	}
	q, err := quote.ForWithdrawal(p, req.Claim, req.Tolerance)
	return q, errors.Wrap(err, "quote.ForWithdrawal")
}
