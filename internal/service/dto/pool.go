package dto

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/cpamm/internal/pair"
	"github.com/fleshka4/cpamm/internal/quote"
)

// InitializeConfigRequest creates the protocol configuration.
type InitializeConfigRequest struct {
	Admin             common.Address
	FeeRecipient      common.Address
	ProtocolFeeRateBP uint16
}

// UpdateConfigRequest changes the protocol configuration on behalf of Caller.
type UpdateConfigRequest struct {
	Caller            common.Address
	FeeRecipient      *common.Address
	ProtocolFeeRateBP *uint16
}

// CreatePoolRequest creates an empty pool. The assets must be in canonical order.
type CreatePoolRequest struct {
	AssetGreater common.Address
	AssetLesser  common.Address
	FeeRateBP    uint16
	Expected     *pair.Identifiers
}

// AddLiquidityRequest deposits into a pool.
type AddLiquidityRequest struct {
	Pool           common.Address
	Owner          common.Address
	DesiredGreater uint64
	DesiredLesser  uint64
	MinGreater     uint64
	MinLesser      uint64
}

// RemoveLiquidityRequest burns claim tokens for reserves.
type RemoveLiquidityRequest struct {
	Pool       common.Address
	Owner      common.Address
	Claim      uint64
	MinGreater uint64
	MinLesser  uint64
}

// SwapRequest is an exact-input swap.
type SwapRequest struct {
	Pool         common.Address
	Owner        common.Address
	AssetIn      common.Address
	AmountIn     uint64
	MinAmountOut uint64
}

// QuoteSwapRequest prices a swap.
type QuoteSwapRequest struct {
	Pool      common.Address
	AssetIn   common.Address
	AmountIn  uint64
	Tolerance quote.Tolerance
}

// QuoteDepositRequest prices a deposit.
type QuoteDepositRequest struct {
	Pool           common.Address
	DesiredGreater uint64
	DesiredLesser  uint64
	Tolerance      quote.Tolerance
}

// QuoteWithdrawalRequest prices a withdrawal.
type QuoteWithdrawalRequest struct {
	Pool      common.Address
	Claim     uint64
	Tolerance quote.Tolerance
}
