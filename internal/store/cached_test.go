package store_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/store"
	"github.com/fleshka4/cpamm/internal/store/memory"
	"github.com/fleshka4/cpamm/internal/store/mock"
	"github.com/fleshka4/cpamm/internal/store/storetest"
)

func TestCached_Conformance(t *testing.T) {
	t.Parallel()

	c, err := store.NewCached(memory.New(), 8)
	require.NoError(t, err)
	storetest.Run(t, c)
}

func TestCached_ReadThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	inner := mock.NewMockStore(ctrl)

	c, err := store.NewCached(inner, 8)
	require.NoError(t, err)

	p, err := pool.New(
		common.HexToAddress("0xf000000000000000000000000000000000000001"),
		common.HexToAddress("0x1000000000000000000000000000000000000001"),
		30,
	)
	require.NoError(t, err)

	ctx := context.Background()
	inner.EXPECT().GetPool(gomock.Any(), p.ID).Return(p, nil).Times(1)

	for i := 0; i < 3; i++ {
		got, err := c.GetPool(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}

	t.Run("failed write evicts", func(t *testing.T) {
		next := p
		next.ReserveGreater, next.ReserveLesser, next.ClaimSupply = 1, 1, 1

		inner.EXPECT().PutPool(gomock.Any(), next).Return(errors.New("disk full"))
		require.Error(t, c.PutPool(ctx, next))

		inner.EXPECT().GetPool(gomock.Any(), p.ID).Return(p, nil)
		got, err := c.GetPool(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p, got)
	})
}
