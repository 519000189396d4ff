package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientLiquidity is returned when the pool does not have enough
	// reserves to satisfy the requested swap.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrIdenticalAssets is returned when both sides of a pair are the same asset.
	ErrIdenticalAssets = errors.New("identical assets")

	// ErrInvalidTokenOrder is returned when the supplied pair is not in canonical order.
	ErrInvalidTokenOrder = errors.New("invalid token order")

	// ErrSeedMismatch is returned when supplied identifiers differ from the derived ones.
	ErrSeedMismatch = errors.New("seed mismatch")

	// ErrArithmeticOverflow is returned when a result does not fit into 64 bits.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrArithmeticUnderflow is returned when a subtraction would go below zero.
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")

	// ErrDivisionByZero is returned on a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrDomain is returned when a math primitive receives input outside its domain.
	ErrDomain = errors.New("domain error")

	// ErrSlippageExceeded is returned when a computed amount is below the caller's minimum.
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrZeroOutput is returned when an operation would produce nothing.
	ErrZeroOutput = errors.New("zero output")

	// ErrInsufficientSupply is returned when burning more claim tokens than exist.
	ErrInsufficientSupply = errors.New("insufficient supply")

	// ErrAlreadyInitialized is returned on a second protocol config initialization.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrInvalidAuthority is returned when a non-admin tries to update the protocol config.
	ErrInvalidAuthority = errors.New("invalid authority")

	// ErrZeroAmount is returned when a request carries a zero amount where a positive one is required.
	ErrZeroAmount = errors.New("amount must be greater than zero")

	// ErrEmptyPool is returned when a swap targets a pool without reserves.
	ErrEmptyPool = errors.New("pool is empty")

	// ErrInvalidFeeRate is returned when a fee rate exceeds 10000 basis points.
	ErrInvalidFeeRate = errors.New("invalid fee rate")

	// ErrInvalidFeeRecipient is returned when the protocol fee recipient is the zero address.
	ErrInvalidFeeRecipient = errors.New("invalid fee recipient")

	// ErrInvariantViolated is returned when a pool record is inconsistent or a swap
	// would lower the reserve product.
	ErrInvariantViolated = errors.New("pool invariant violated")

	// ErrPoolNotFound is returned by stores when no pool has the requested identifier.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolExists is returned when creating a pool whose identifier is taken.
	ErrPoolExists = errors.New("pool already exists")

	// ErrConfigNotInitialized is returned when the protocol config has not been created yet.
	ErrConfigNotInitialized = errors.New("protocol config not initialized")

	// ErrInsufficientBalance is returned by the ledger when a debit exceeds the holder's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Kind codes returned by Kind.
const (
	KindUnknown = "unknown"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidArgument, "invalid_argument"},
	{ErrInsufficientLiquidity, "insufficient_liquidity"},
	{ErrIdenticalAssets, "identical_assets"},
	{ErrInvalidTokenOrder, "invalid_token_order"},
	{ErrSeedMismatch, "seed_mismatch"},
	{ErrArithmeticOverflow, "arithmetic_overflow"},
	{ErrArithmeticUnderflow, "arithmetic_underflow"},
	{ErrDivisionByZero, "division_by_zero"},
	{ErrDomain, "domain_error"},
	{ErrSlippageExceeded, "slippage_exceeded"},
	{ErrZeroOutput, "zero_output"},
	{ErrInsufficientSupply, "insufficient_supply"},
	{ErrAlreadyInitialized, "already_initialized"},
	{ErrInvalidAuthority, "invalid_authority"},
	{ErrZeroAmount, "zero_amount"},
	{ErrEmptyPool, "empty_pool"},
	{ErrInvalidFeeRate, "invalid_fee_rate"},
	{ErrInvalidFeeRecipient, "invalid_fee_recipient"},
	{ErrInvariantViolated, "invariant_violated"},
	{ErrPoolNotFound, "pool_not_found"},
	{ErrPoolExists, "pool_exists"},
	{ErrConfigNotInitialized, "config_not_initialized"},
	{ErrInsufficientBalance, "insufficient_balance"},
}

// Kind returns a stable snake_case code for err, or KindUnknown if err does not
// wrap any sentinel from this package. Kind(nil) returns "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
