package dexmath

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

// BPSDenominator is the number of basis points in one whole.
const BPSDenominator = 10_000

// PPMDenominator scales price impact values.
const PPMDenominator = 1_000_000

// ValidateRate reports ErrInvalidFeeRate for rates above one whole.
func ValidateRate(rateBP uint16) error {
	if rateBP > BPSDenominator {
		return errors.Wrapf(apperrors.ErrInvalidFeeRate, "rate %d bp exceeds %d", rateBP, BPSDenominator)
	}
	return nil
}

// ApplyRateFloor returns floor(amount * rateBP / 10000).
func ApplyRateFloor(amount uint64, rateBP uint16) (uint64, error) {
	if err := ValidateRate(rateBP); err != nil {
		return 0, err
	}
	return MulDivFloor(amount, uint64(rateBP), BPSDenominator)
}

// ApplyRateCeil returns ceil(amount * rateBP / 10000). Fees are charged with it
// so the pool never under-collects.
func ApplyRateCeil(amount uint64, rateBP uint16) (uint64, error) {
	if err := ValidateRate(rateBP); err != nil {
		return 0, err
	}
	return MulDivCeil(amount, uint64(rateBP), BPSDenominator)
}

// PriceImpactPPM returns |p0 - p1| / p0 in parts per million, where
// p = reserveOut / reserveIn before and after a trade.
func PriceImpactPPM(reserveIn0, reserveOut0, reserveIn1, reserveOut1 uint64) (uint64, error) {
	if reserveIn0 == 0 || reserveOut0 == 0 || reserveIn1 == 0 {
		return 0, apperrors.ErrDivisionByZero
	}

	// 1 - p1/p0 = (i1*o0 - o1*i0) / (i1*o0).
	den := new(big.Int).Mul(new(big.Int).SetUint64(reserveIn1), new(big.Int).SetUint64(reserveOut0))
	cross := new(big.Int).Mul(new(big.Int).SetUint64(reserveOut1), new(big.Int).SetUint64(reserveIn0))
	num := new(big.Int).Sub(den, cross)
	num.Abs(num)
	num.Mul(num, big.NewInt(PPMDenominator))
	num.Quo(num, den)

	if !num.IsUint64() {
		return 0, apperrors.ErrArithmeticOverflow
	}
	return num.Uint64(), nil
}
