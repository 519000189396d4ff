package dexmath

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

// Add returns a+b or ErrArithmeticOverflow.
func Add(a, b uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, errors.Wrapf(apperrors.ErrArithmeticOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Sub returns a-b or ErrArithmeticUnderflow.
func Sub(a, b uint64) (uint64, error) {
	diff, underflow := math.SafeSub(a, b)
	if underflow {
		return 0, errors.Wrapf(apperrors.ErrArithmeticUnderflow, "%d - %d", a, b)
	}
	return diff, nil
}

// Mul returns a*b or ErrArithmeticOverflow.
func Mul(a, b uint64) (uint64, error) {
	prod, overflow := math.SafeMul(a, b)
	if overflow {
		return 0, errors.Wrapf(apperrors.ErrArithmeticOverflow, "%d * %d", a, b)
	}
	return prod, nil
}
