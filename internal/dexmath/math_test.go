package dexmath

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

func bi(s string) *big.Int {
	z, _ := new(big.Int).SetString(s, 10)
	return z
}

func requireSqrtBounds(t *testing.T, x, r *big.Int) {
	t.Helper()

	sq := new(big.Int).Mul(r, r)
	require.True(t, sq.Cmp(x) <= 0, "r^2 > x for x=%s r=%s", x, r)

	r1 := new(big.Int).Add(r, bigOne)
	sq.Mul(r1, r1)
	require.True(t, sq.Cmp(x) > 0, "(r+1)^2 <= x for x=%s r=%s", x, r)
}

func TestIntegerSqrt(t *testing.T) {
	t.Parallel()

	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 256), bigOne)
	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 128), bigOne)

	tests := []struct {
		name string
		x    *big.Int
		want *big.Int
	}{
		{name: "zero", x: bi("0"), want: bi("0")},
		{name: "one", x: bi("1"), want: bi("1")},
		{name: "two", x: bi("2"), want: bi("1")},
		{name: "perfect square", x: bi("40000000000"), want: bi("200000")},
		{name: "just below square", x: bi("15"), want: bi("3")},
		{name: "max u256", x: maxU256, want: maxU128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := IntegerSqrt(tt.x)
			require.NoError(t, err)
			require.Equal(t, 0, tt.want.Cmp(got), "want %s got %s", tt.want, got)
			requireSqrtBounds(t, tt.x, got)
		})
	}
}

func TestIntegerSqrt_Negative(t *testing.T) {
	t.Parallel()

	_, err := IntegerSqrt(big.NewInt(-4))
	require.ErrorIs(t, err, apperrors.ErrDomain)
}

func TestIntegerSqrt_RandomBounds(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(42))
	limit := new(big.Int).Lsh(bigOne, 256)
	for i := 0; i < 500; i++ {
		x := new(big.Int).Rand(rnd, limit)
		r, err := IntegerSqrt(x)
		require.NoError(t, err)
		requireSqrtBounds(t, x, r)
	}
}

func TestSqrtProduct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(200000), SqrtProduct(100000, 400000))
	assert.Equal(t, uint64(0), SqrtProduct(0, 400000))
	assert.Equal(t, uint64(math.MaxUint64), SqrtProduct(math.MaxUint64, math.MaxUint64))
}

func TestSqrtProduct_SequentialCalls(t *testing.T) {
	t.Parallel()

	// Pooled scratch values must not leak between calls of different magnitude.
	tests := []struct {
		a, b uint64
	}{
		{a: math.MaxUint64, b: math.MaxUint64},
		{a: 3, b: 7},
		{a: 1 << 40, b: 1},
		{a: 0, b: 5},
		{a: math.MaxUint64 / 3, b: 5},
		{a: 1, b: 1},
		{a: 999_999, b: 2},
	}
	for i := 0; i < 3; i++ {
		for _, tt := range tests {
			x := new(big.Int).Mul(new(big.Int).SetUint64(tt.a), new(big.Int).SetUint64(tt.b))
			want, err := IntegerSqrt(x)
			require.NoError(t, err)
			require.Equal(t, want.Uint64(), SqrtProduct(tt.a, tt.b), "sqrt(%d*%d)", tt.a, tt.b)
		}
	}
}

func TestMulDiv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b, d   uint64
		wantFloor uint64
		wantCeil  uint64
		wantErr   error
	}{
		{name: "exact", a: 10, b: 4, d: 8, wantFloor: 5, wantCeil: 5},
		{name: "rounded", a: 10, b: 3, d: 4, wantFloor: 7, wantCeil: 8},
		{name: "zero numerator", a: 0, b: 3, d: 4, wantFloor: 0, wantCeil: 0},
		{
			name: "wide intermediate", a: math.MaxUint64, b: math.MaxUint64, d: math.MaxUint64,
			wantFloor: math.MaxUint64, wantCeil: math.MaxUint64,
		},
		{name: "overflow", a: math.MaxUint64, b: 2, d: 1, wantErr: apperrors.ErrArithmeticOverflow},
		{name: "division by zero", a: 1, b: 1, d: 0, wantErr: apperrors.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			floor, err := MulDivFloor(tt.a, tt.b, tt.d)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantFloor, floor)
			}

			ceil, err := MulDivCeil(tt.a, tt.b, tt.d)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCeil, ceil)
		})
	}
}

func TestApplyRate(t *testing.T) {
	t.Parallel()

	fee, err := ApplyRateCeil(10_000, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), fee)

	fee, err = ApplyRateCeil(1, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), fee)

	share, err := ApplyRateFloor(1, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(0), share)

	whole, err := ApplyRateFloor(12345, BPSDenominator)
	require.NoError(t, err)
	require.Equal(t, uint64(12345), whole)

	_, err = ApplyRateCeil(1, BPSDenominator+1)
	require.ErrorIs(t, err, apperrors.ErrInvalidFeeRate)
}

func TestPriceImpactPPM(t *testing.T) {
	t.Parallel()

	impact, err := PriceImpactPPM(1_000_000, 2_000_000, 1_010_000, 1_980_395)
	require.NoError(t, err)
	require.Equal(t, uint64(19606), impact)

	impact, err = PriceImpactPPM(10, 10, 10, 10)
	require.NoError(t, err)
	require.Zero(t, impact)

	_, err = PriceImpactPPM(0, 1, 1, 1)
	require.ErrorIs(t, err, apperrors.ErrDivisionByZero)
}

func TestChecked(t *testing.T) {
	t.Parallel()

	sum, err := Add(1, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), sum)

	_, err = Add(math.MaxUint64, 1)
	require.ErrorIs(t, err, apperrors.ErrArithmeticOverflow)

	_, err = Sub(1, 2)
	require.ErrorIs(t, err, apperrors.ErrArithmeticUnderflow)

	_, err = Mul(math.MaxUint64, 2)
	require.ErrorIs(t, err, apperrors.ErrArithmeticOverflow)
}

func BenchmarkMulDivFloor(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := MulDivFloor(9900, 2_000_000, 1_009_900); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSqrtProduct(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = SqrtProduct(1_234_567_890_123, 987_654_321_987)
	}
}
