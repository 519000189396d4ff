package validate

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/service/dto"
)

var (
	poolAddr = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	owner    = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	asset    = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
)

func TestSwapRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     dto.SwapRequest
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "valid request",
			req:     dto.SwapRequest{Pool: poolAddr, Owner: owner, AssetIn: asset, AmountIn: 1},
			wantErr: assert.NoError,
		},
		{
			name:    "empty pool",
			req:     dto.SwapRequest{Owner: owner, AssetIn: asset, AmountIn: 1},
			wantErr: assert.Error,
		},
		{
			name:    "empty owner",
			req:     dto.SwapRequest{Pool: poolAddr, AssetIn: asset, AmountIn: 1},
			wantErr: assert.Error,
		},
		{
			name:    "empty asset",
			req:     dto.SwapRequest{Pool: poolAddr, Owner: owner, AmountIn: 1},
			wantErr: assert.Error,
		},
		{
			name:    "zero amount",
			req:     dto.SwapRequest{Pool: poolAddr, Owner: owner, AssetIn: asset},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.wantErr(t, SwapRequestValidate(tt.req))
		})
	}
}

func TestLiquidityRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, AddLiquidityRequestValidate(dto.AddLiquidityRequest{
		Pool: poolAddr, Owner: owner, DesiredGreater: 1, DesiredLesser: 1,
	}))
	require.ErrorIs(t, AddLiquidityRequestValidate(dto.AddLiquidityRequest{
		Pool: poolAddr, Owner: owner, DesiredGreater: 1,
	}), apperrors.ErrZeroAmount)
	require.ErrorIs(t, AddLiquidityRequestValidate(dto.AddLiquidityRequest{
		Owner: owner, DesiredGreater: 1, DesiredLesser: 1,
	}), apperrors.ErrInvalidArgument)

	require.NoError(t, RemoveLiquidityRequestValidate(dto.RemoveLiquidityRequest{Pool: poolAddr, Owner: owner, Claim: 1}))
	require.ErrorIs(t, RemoveLiquidityRequestValidate(dto.RemoveLiquidityRequest{Pool: poolAddr, Owner: owner}), apperrors.ErrZeroAmount)
}

func TestConfigRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, InitializeConfigRequestValidate(dto.InitializeConfigRequest{Admin: owner, FeeRecipient: asset, ProtocolFeeRateBP: 100}))
	require.ErrorIs(t, InitializeConfigRequestValidate(dto.InitializeConfigRequest{Admin: owner}), apperrors.ErrInvalidFeeRecipient)
	require.ErrorIs(t, InitializeConfigRequestValidate(dto.InitializeConfigRequest{
		Admin: owner, FeeRecipient: asset, ProtocolFeeRateBP: 10_001,
	}), apperrors.ErrInvalidFeeRate)

	rate := uint16(5)
	require.NoError(t, UpdateConfigRequestValidate(dto.UpdateConfigRequest{Caller: owner, ProtocolFeeRateBP: &rate}))
	require.ErrorIs(t, UpdateConfigRequestValidate(dto.UpdateConfigRequest{Caller: owner}), apperrors.ErrInvalidArgument)
}

func TestQuoteRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, QuoteSwapRequestValidate(dto.QuoteSwapRequest{Pool: poolAddr, AssetIn: asset, AmountIn: 1, Tolerance: 500}))
	require.ErrorIs(t, QuoteSwapRequestValidate(dto.QuoteSwapRequest{
		Pool: poolAddr, AssetIn: asset, AmountIn: 1, Tolerance: 10_001,
	}), apperrors.ErrInvalidArgument)
	require.ErrorIs(t, QuoteDepositRequestValidate(dto.QuoteDepositRequest{Pool: poolAddr, DesiredGreater: 1}), apperrors.ErrZeroAmount)
	require.ErrorIs(t, QuoteWithdrawalRequestValidate(dto.QuoteWithdrawalRequest{Claim: 1}), apperrors.ErrInvalidArgument)
}
