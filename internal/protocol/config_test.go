package protocol

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

var (
	admin     = common.HexToAddress("0xad")
	recipient = common.HexToAddress("0xfee")
	stranger  = common.HexToAddress("0xbad")
)

func TestInitialize(t *testing.T) {
	t.Parallel()

	cfg, err := Initialize(Config{}, admin, recipient, 500)
	require.NoError(t, err)
	require.Equal(t, Config{Admin: admin, FeeRecipient: recipient, ProtocolFeeRateBP: 500, Initialized: true}, cfg)

	_, err = Initialize(cfg, admin, recipient, 500)
	require.ErrorIs(t, err, apperrors.ErrAlreadyInitialized)

	_, err = Initialize(Config{}, common.Address{}, recipient, 500)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = Initialize(Config{}, admin, common.Address{}, 500)
	require.ErrorIs(t, err, apperrors.ErrInvalidFeeRecipient)

	_, err = Initialize(Config{}, admin, recipient, 10_001)
	require.ErrorIs(t, err, apperrors.ErrInvalidFeeRate)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	cfg, err := Initialize(Config{}, admin, recipient, 500)
	require.NoError(t, err)

	newRecipient := common.HexToAddress("0xfee2")
	newRate := uint16(2500)
	zero := common.Address{}
	tooHigh := uint16(20_000)

	tests := []struct {
		name    string
		current Config
		caller  common.Address
		params  UpdateParams
		want    Config
		wantErr error
	}{
		{
			name:    "recipient only",
			current: cfg,
			caller:  admin,
			params:  UpdateParams{FeeRecipient: &newRecipient},
			want:    Config{Admin: admin, FeeRecipient: newRecipient, ProtocolFeeRateBP: 500, Initialized: true},
		},
		{
			name:    "rate only",
			current: cfg,
			caller:  admin,
			params:  UpdateParams{ProtocolFeeRateBP: &newRate},
			want:    Config{Admin: admin, FeeRecipient: recipient, ProtocolFeeRateBP: 2500, Initialized: true},
		},
		{name: "no fields", current: cfg, caller: admin, want: cfg},
		{name: "not admin", current: cfg, caller: stranger, params: UpdateParams{ProtocolFeeRateBP: &newRate}, wantErr: apperrors.ErrInvalidAuthority},
		{name: "zero recipient", current: cfg, caller: admin, params: UpdateParams{FeeRecipient: &zero}, wantErr: apperrors.ErrInvalidFeeRecipient},
		{name: "rate too high", current: cfg, caller: admin, params: UpdateParams{ProtocolFeeRateBP: &tooHigh}, wantErr: apperrors.ErrInvalidFeeRate},
		{name: "not initialized", current: Config{}, caller: admin, wantErr: apperrors.ErrConfigNotInitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Update(tt.current, tt.caller, tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
