package validate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/quote"
	"github.com/fleshka4/cpamm/internal/service/dto"
)

var zeroAddress = common.Address{}

// InitializeConfigRequestValidate validates a config initialization.
func InitializeConfigRequestValidate(req dto.InitializeConfigRequest) error {
	if req.Admin == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "admin cannot be empty")
	}
	if req.FeeRecipient == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidFeeRecipient, "fee recipient cannot be empty")
	}
	return dexmath.ValidateRate(req.ProtocolFeeRateBP)
}

// UpdateConfigRequestValidate validates a config update.
func UpdateConfigRequestValidate(req dto.UpdateConfigRequest) error {
	if req.Caller == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "caller cannot be empty")
	}
	if req.FeeRecipient == nil && req.ProtocolFeeRateBP == nil {
		return errors.Wrap(apperrors.ErrInvalidArgument, "nothing to update")
	}
	return nil
}

// CreatePoolRequestValidate validates a pool creation.
func CreatePoolRequestValidate(req dto.CreatePoolRequest) error {
	if req.AssetGreater == zeroAddress || req.AssetLesser == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "asset cannot be empty")
	}
	return dexmath.ValidateRate(req.FeeRateBP)
}

// AddLiquidityRequestValidate validates a deposit.
func AddLiquidityRequestValidate(req dto.AddLiquidityRequest) error {
	if req.Pool == zeroAddress || req.Owner == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}
	if req.DesiredGreater == 0 || req.DesiredLesser == 0 {
		return errors.Wrap(apperrors.ErrZeroAmount, "desired amounts")
	}
	return nil
}

// RemoveLiquidityRequestValidate validates a withdrawal.
func RemoveLiquidityRequestValidate(req dto.RemoveLiquidityRequest) error {
	if req.Pool == zeroAddress || req.Owner == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}
	if req.Claim == 0 {
		return errors.Wrap(apperrors.ErrZeroAmount, "claim amount")
	}
	return nil
}

// SwapRequestValidate validates a swap.
func SwapRequestValidate(req dto.SwapRequest) error {
	if req.Pool == zeroAddress || req.Owner == zeroAddress || req.AssetIn == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}
	if req.AmountIn == 0 {
		return errors.Wrap(apperrors.ErrZeroAmount, "amount in")
	}
	return nil
}

// QuoteSwapRequestValidate validates a swap quote.
func QuoteSwapRequestValidate(req dto.QuoteSwapRequest) error {
	if req.Pool == zeroAddress || req.AssetIn == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}
	if req.AmountIn == 0 {
		return errors.Wrap(apperrors.ErrZeroAmount, "amount in")
	}
	return tolerance(req.Tolerance)
}

// QuoteDepositRequestValidate validates a deposit quote.
func QuoteDepositRequestValidate(req dto.QuoteDepositRequest) error {
	if req.Pool == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool cannot be empty")
	}
	if req.DesiredGreater == 0 || req.DesiredLesser == 0 {
		return errors.Wrap(apperrors.ErrZeroAmount, "desired amounts")
	}
	return tolerance(req.Tolerance)
}

// QuoteWithdrawalRequestValidate validates a withdrawal quote.
func QuoteWithdrawalRequestValidate(req dto.QuoteWithdrawalRequest) error {
	if req.Pool == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool cannot be empty")
	}
	if req.Claim == 0 {
		return errors.Wrap(apperrors.ErrZeroAmount, "claim amount")
	}
	return tolerance(req.Tolerance)
}

func tolerance(t quote.Tolerance) error {
	if t > dexmath.BPSDenominator {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "tolerance %d bp exceeds %d", t, dexmath.BPSDenominator)
	}
	return nil
}
