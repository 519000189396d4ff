// Package pair orders asset pairs canonically and derives the deterministic
// identifiers of the pool, its vaults and its claim-token mint.
package pair

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
)

// Seed tags mixed into every derivation.
var (
	seedPool  = []byte("pool")
	seedMint  = []byte("mint")
	seedVault = []byte("vault")
)

// Identifiers are the addresses owned by one pool instance.
type Identifiers struct {
	Pool         common.Address
	VaultGreater common.Address
	VaultLesser  common.Address
	ClaimMint    common.Address
}

// Compare orders identifiers byte-wise.
func Compare(a, b common.Address) int {
	return a.Cmp(b)
}

// Canonicalize returns the two assets ordered greater first.
func Canonicalize(x, y common.Address) (greater, lesser common.Address, err error) {
	switch Compare(x, y) {
	case 0:
		return common.Address{}, common.Address{}, errors.Wrapf(apperrors.ErrIdenticalAssets, "asset %s", x.Hex())
	case 1:
		return x, y, nil
	default:
		return y, x, nil
	}
}

// CheckOrder fails unless greater > lesser.
func CheckOrder(greater, lesser common.Address) error {
	switch Compare(greater, lesser) {
	case 0:
		return errors.Wrapf(apperrors.ErrIdenticalAssets, "asset %s", greater.Hex())
	case -1:
		return errors.Wrapf(apperrors.ErrInvalidTokenOrder, "%s is not greater than %s", greater.Hex(), lesser.Hex())
	}
	return nil
}

// Derive computes the identifiers of the pool for a canonical pair and fee tier.
// The result depends only on its inputs.
func Derive(greater, lesser common.Address, feeRateBP uint16) (Identifiers, error) {
	if err := CheckOrder(greater, lesser); err != nil {
		return Identifiers{}, err
	}
	if err := dexmath.ValidateRate(feeRateBP); err != nil {
		return Identifiers{}, err
	}

	var fee [2]byte
	binary.LittleEndian.PutUint16(fee[:], feeRateBP)

	poolID := hashAddress(seedPool, greater.Bytes(), lesser.Bytes(), fee[:])
	return Identifiers{
		Pool:         poolID,
		VaultGreater: hashAddress(seedVault, poolID.Bytes(), greater.Bytes()),
		VaultLesser:  hashAddress(seedVault, poolID.Bytes(), lesser.Bytes()),
		ClaimMint:    hashAddress(seedMint, greater.Bytes(), lesser.Bytes(), fee[:]),
	}, nil
}

// Verify re-derives the identifiers and compares them to supplied.
func Verify(greater, lesser common.Address, feeRateBP uint16, supplied Identifiers) error {
	derived, err := Derive(greater, lesser, feeRateBP)
	if err != nil {
		return err
	}
	if derived != supplied {
		return errors.Wrapf(apperrors.ErrSeedMismatch, "pool %s", supplied.Pool.Hex())
	}
	return nil
}

func hashAddress(parts ...[]byte) common.Address {
	return common.BytesToAddress(crypto.Keccak256(parts...)[12:])
}
