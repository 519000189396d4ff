// Package storetest holds the behaviour every store.Store implementation must share.
package storetest

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
	"github.com/fleshka4/cpamm/internal/store"
)

var (
	assetA = common.HexToAddress("0x1000000000000000000000000000000000000001")
	assetB = common.HexToAddress("0x8000000000000000000000000000000000000001")
	assetC = common.HexToAddress("0xf000000000000000000000000000000000000001")
)

// Run exercises s. s must be empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()

	ctx := context.Background()

	_, err := s.GetConfig(ctx)
	require.ErrorIs(t, err, apperrors.ErrConfigNotInitialized)

	cfg := protocol.Config{
		Admin:             common.HexToAddress("0xad"),
		FeeRecipient:      common.HexToAddress("0xfee"),
		ProtocolFeeRateBP: 2500,
		Initialized:       true,
	}
	require.NoError(t, s.PutConfig(ctx, cfg))
	got, err := s.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	p1, err := pool.New(assetC, assetA, 30)
	require.NoError(t, err)
	p2, err := pool.New(assetB, assetA, 100)
	require.NoError(t, err)

	_, err = s.GetPool(ctx, p1.ID)
	require.ErrorIs(t, err, apperrors.ErrPoolNotFound)

	require.NoError(t, s.PutPool(ctx, p1))
	require.NoError(t, s.PutPool(ctx, p2))

	p1.ReserveGreater, p1.ReserveLesser, p1.ClaimSupply = 18_446_744_073_709_551_615, 7, 11
	require.NoError(t, s.PutPool(ctx, p1))

	gotPool, err := s.GetPool(ctx, p1.ID)
	require.NoError(t, err)
	require.Equal(t, p1, gotPool)

	pools, err := s.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	require.Negative(t, pools[0].ID.Cmp(pools[1].ID))
	require.ElementsMatch(t, []pool.Pool{p1, p2}, pools)

	runBalances(t, s)
}

func runBalances(t *testing.T, s store.Store) {
	t.Helper()

	ctx := context.Background()
	owner := common.HexToAddress("0x05e7")

	snap, err := s.LoadBalances(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.Balances)
	require.Empty(t, snap.Supplies)

	require.NoError(t, s.PutBalances(ctx, ledger.Snapshot{
		Balances: []ledger.Balance{
			{Owner: owner, Asset: assetA, Amount: 18_446_744_073_709_551_615},
			{Owner: owner, Asset: assetB, Amount: 5},
		},
		Supplies: []ledger.Supply{
			{Asset: assetA, Amount: 18_446_744_073_709_551_615},
			{Asset: assetB, Amount: 5},
		},
	}))
	require.NoError(t, s.PutBalances(ctx, ledger.Snapshot{
		Balances: []ledger.Balance{
			{Owner: owner, Asset: assetB, Amount: 0},
			{Owner: owner, Asset: assetC, Amount: 9},
		},
		Supplies: []ledger.Supply{
			{Asset: assetB, Amount: 0},
			{Asset: assetC, Amount: 9},
		},
	}))

	snap, err = s.LoadBalances(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []ledger.Balance{
		{Owner: owner, Asset: assetA, Amount: 18_446_744_073_709_551_615},
		{Owner: owner, Asset: assetC, Amount: 9},
	}, snap.Balances)
	require.ElementsMatch(t, []ledger.Supply{
		{Asset: assetA, Amount: 18_446_744_073_709_551_615},
		{Asset: assetC, Amount: 9},
	}, snap.Supplies)

	pools, err := s.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
}
