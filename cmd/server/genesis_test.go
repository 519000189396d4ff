package main

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/metrics"
	"github.com/fleshka4/cpamm/internal/pair"
	"github.com/fleshka4/cpamm/internal/service"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/store"
	"github.com/fleshka4/cpamm/internal/store/memory"
	"github.com/fleshka4/cpamm/internal/store/pebble"
)

const (
	lowHex  = "0x1000000000000000000000000000000000000001"
	highHex = "0xf000000000000000000000000000000000000001"
	userHex = "0x00000000000000000000000000000000000a11ce"
)

func newService(t *testing.T, st store.Store) (service.Service, *ledger.Memory) {
	t.Helper()

	l, err := ledger.NewJournaled(context.Background(), st)
	require.NoError(t, err)
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return service.NewPoolService(st, l, m, zap.NewNop()), l
}

func testGenesis() config.Genesis {
	return config.Genesis{
		Protocol: &config.GenesisProtocol{Admin: userHex, FeeRecipient: userHex, ProtocolFeeRateBP: 2500},
		Balances: []config.GenesisBalance{
			{Owner: userHex, Asset: lowHex, Amount: 4_000},
			{Owner: userHex, Asset: highHex, Amount: 1_000},
		},
		// lesser asset first: genesis pools are canonicalized
		Pools: []config.GenesisPool{{AssetA: lowHex, AssetB: highHex, FeeRateBP: 30}},
	}
}

func TestApplyGenesis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, l := newService(t, memory.New())
	require.NoError(t, applyGenesis(ctx, svc, l, true, testGenesis(), zap.NewNop()))

	ids, err := pair.Derive(common.HexToAddress(highHex), common.HexToAddress(lowHex), 30)
	require.NoError(t, err)
	_, err = svc.GetPool(ctx, ids.Pool)
	require.NoError(t, err)

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, uint16(2500), cfg.ProtocolFeeRateBP)

	got, err := l.Balance(ctx, common.HexToAddress(userHex), common.HexToAddress(lowHex))
	require.NoError(t, err)
	require.Equal(t, uint64(4_000), got)
}

func TestRestart_LiquidityStaysWithdrawable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		open func(t *testing.T, dir string) store.Store
	}{
		{
			name: "memory",
			open: func() func(t *testing.T, dir string) store.Store {
				st := memory.New()
				return func(*testing.T, string) store.Store { return st }
			}(),
		},
		{
			name: "pebble",
			open: func(t *testing.T, dir string) store.Store {
				st, err := pebble.Open(dir)
				require.NoError(t, err)
				return st
			},
		},
		{
			name: "pebble cached",
			open: func(t *testing.T, dir string) store.Store {
				inner, err := pebble.Open(dir)
				require.NoError(t, err)
				st, err := store.NewCached(inner, 8)
				require.NoError(t, err)
				return st
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			dir := t.TempDir()
			owner := common.HexToAddress(userHex)
			g := testGenesis()

			ids, err := pair.Derive(common.HexToAddress(highHex), common.HexToAddress(lowHex), 30)
			require.NoError(t, err)

			st := tt.open(t, dir)
			svc, l := newService(t, st)
			require.Zero(t, l.Accounts())
			require.NoError(t, applyGenesis(ctx, svc, l, true, g, zap.NewNop()))

			added, err := svc.AddLiquidity(ctx, dto.AddLiquidityRequest{
				Pool: ids.Pool, Owner: owner, DesiredGreater: 1_000, DesiredLesser: 4_000,
			})
			require.NoError(t, err)
			require.NotZero(t, added.Minted)
			require.NoError(t, st.Close())

			st = tt.open(t, dir)
			defer func() { require.NoError(t, st.Close()) }()
			svc, l = newService(t, st)
			require.NotZero(t, l.Accounts())
			require.NoError(t, applyGenesis(ctx, svc, l, false, g, zap.NewNop()))

			claim, err := l.Balance(ctx, owner, added.Pool.ClaimMint)
			require.NoError(t, err)
			require.Equal(t, added.Minted, claim)

			removed, err := svc.RemoveLiquidity(ctx, dto.RemoveLiquidityRequest{
				Pool: ids.Pool, Owner: owner, Claim: claim,
			})
			require.NoError(t, err)

			high, err := l.Balance(ctx, owner, common.HexToAddress(highHex))
			require.NoError(t, err)
			require.Equal(t, 1_000-added.UsedGreater+removed.OutGreater, high)
			low, err := l.Balance(ctx, owner, common.HexToAddress(lowHex))
			require.NoError(t, err)
			require.Equal(t, 4_000-added.UsedLesser+removed.OutLesser, low)

			supply, err := l.Supply(ctx, added.Pool.ClaimMint)
			require.NoError(t, err)
			require.Equal(t, removed.Pool.ClaimSupply, supply)
		})
	}
}
