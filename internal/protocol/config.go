// Package protocol holds the singleton protocol configuration record and its
// admin-gated transitions.
package protocol

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
)

// Config is the protocol-wide configuration.
type Config struct {
	Admin             common.Address
	FeeRecipient      common.Address
	ProtocolFeeRateBP uint16
	Initialized       bool
}

// UpdateParams carries the fields to change; nil fields are left as they are.
type UpdateParams struct {
	FeeRecipient      *common.Address
	ProtocolFeeRateBP *uint16
}

// Empty reports whether no field is set.
func (p UpdateParams) Empty() bool {
	return p.FeeRecipient == nil && p.ProtocolFeeRateBP == nil
}

// Initialize creates the configuration. It may succeed only once.
func Initialize(current Config, admin, feeRecipient common.Address, protocolFeeRateBP uint16) (Config, error) {
	if current.Initialized {
		return Config{}, apperrors.ErrAlreadyInitialized
	}
	if admin == (common.Address{}) {
		return Config{}, errors.Wrap(apperrors.ErrInvalidArgument, "admin cannot be empty")
	}

	next := Config{
		Admin:             admin,
		FeeRecipient:      feeRecipient,
		ProtocolFeeRateBP: protocolFeeRateBP,
		Initialized:       true,
	}
	if err := next.Validate(); err != nil {
		return Config{}, err
	}
	return next, nil
}

// Update applies params on behalf of caller, who must be the admin.
func Update(current Config, caller common.Address, params UpdateParams) (Config, error) {
	if !current.Initialized {
		return Config{}, apperrors.ErrConfigNotInitialized
	}
	if caller != current.Admin {
		return Config{}, errors.Wrapf(apperrors.ErrInvalidAuthority, "caller %s", caller.Hex())
	}

	next := current
	if params.FeeRecipient != nil {
		next.FeeRecipient = *params.FeeRecipient
	}
	if params.ProtocolFeeRateBP != nil {
		next.ProtocolFeeRateBP = *params.ProtocolFeeRateBP
	}
	if err := next.Validate(); err != nil {
		return Config{}, err
	}
	return next, nil
}

// Validate checks the fields of an initialized configuration.
func (c Config) Validate() error {
	if c.FeeRecipient == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidFeeRecipient, "fee recipient cannot be empty")
	}
	return dexmath.ValidateRate(c.ProtocolFeeRateBP)
}
