// Package dexmath holds the deterministic integer primitives every pool
// engine is built on. Amounts are uint64; intermediates are computed on
// big.Int so products of two amounts never overflow.
package dexmath

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

var (
	bigOne = big.NewInt(1)

	defaultMath = newMathService()
)

type mathTmp struct {
	a *big.Int
	b *big.Int
	c *big.Int
	d *big.Int
	e *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(big.Int),
					b: new(big.Int),
					c: new(big.Int),
					d: new(big.Int),
					e: new(big.Int),
				}
			},
		},
	}
}

func (m *mathService) mulDiv(a, b, d uint64, roundUp bool) (uint64, error) {
	if d == 0 {
		return 0, apperrors.ErrDivisionByZero
	}

	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	// num := a * b.
	t.a.SetUint64(a)
	t.b.SetUint64(b)
	t.a.Mul(t.a, t.b)

	t.c.SetUint64(d)
	if roundUp {
		// num += d - 1.
		t.a.Add(t.a, t.c)
		t.a.Sub(t.a, bigOne)
	}
	t.a.Quo(t.a, t.c)

	if !t.a.IsUint64() {
		return 0, apperrors.ErrArithmeticOverflow
	}
	return t.a.Uint64(), nil
}

func (m *mathService) sqrtProduct(a, b uint64) uint64 {
	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	t.a.SetUint64(a)
	t.b.SetUint64(b)
	t.a.Mul(t.a, t.b)
	sqrtInto(t.c, t.a, t)

	// sqrt of a value below 2^128 always fits.
	return t.c.Uint64()
}

// sqrtInto writes floor(sqrt(x)) into out using the binary digit-by-digit
// method. x must be non-negative. It clobbers t.b, t.d and t.e, so out and x
// may only alias t.a or t.c.
func sqrtInto(out, x *big.Int, t *mathTmp) {
	out.SetInt64(0)
	if x.Sign() == 0 {
		return
	}

	n := t.d.Set(x)
	bit := t.e.Lsh(bigOne, uint((x.BitLen()-1)&^1))
	scratch := t.b

	for bit.Sign() > 0 {
		scratch.Add(out, bit)
		if n.Cmp(scratch) >= 0 {
			n.Sub(n, scratch)
			out.Rsh(out, 1)
			out.Add(out, bit)
		} else {
			out.Rsh(out, 1)
		}
		bit.Rsh(bit, 2)
	}
}

// IntegerSqrt returns the largest r with r*r <= x.
// Negative input fails with apperrors.ErrDomain.
func IntegerSqrt(x *big.Int) (*big.Int, error) {
	if x == nil || x.Sign() < 0 {
		return nil, errors.Wrap(apperrors.ErrDomain, "sqrt of negative value")
	}
	t := defaultMath.pool.Get().(*mathTmp)
	defer defaultMath.pool.Put(t)

	out := new(big.Int)
	sqrtInto(out, x, t)
	return out, nil
}

// SqrtProduct returns floor(sqrt(a*b)), the geometric mean used to size the
// first claim-token mint.
func SqrtProduct(a, b uint64) uint64 {
	return defaultMath.sqrtProduct(a, b)
}

// MulDivFloor computes floor(a*b/d) with a 128-bit intermediate.
func MulDivFloor(a, b, d uint64) (uint64, error) {
	return defaultMath.mulDiv(a, b, d, false)
}

// MulDivCeil computes floor((a*b + d - 1) / d).
func MulDivCeil(a, b, d uint64) (uint64, error) {
	return defaultMath.mulDiv(a, b, d, true)
}
