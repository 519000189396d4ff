// Package dto holds the JSON bodies of the HTTP API. Amounts travel as
// base-10 strings so that clients without 64-bit integers keep precision.
package dto

import (
	"strconv"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
	"github.com/fleshka4/cpamm/internal/quote"
)

// InitializeConfigBody is the body of POST /config.
type InitializeConfigBody struct {
	Admin             string `json:"admin"`
	FeeRecipient      string `json:"fee_recipient"`
	ProtocolFeeRateBP uint16 `json:"protocol_fee_rate_bp"`
}

// UpdateConfigBody is the body of PATCH /config. Absent fields stay unchanged.
type UpdateConfigBody struct {
	Caller            string  `json:"caller"`
	FeeRecipient      *string `json:"fee_recipient,omitempty"`
	ProtocolFeeRateBP *uint16 `json:"protocol_fee_rate_bp,omitempty"`
}

// Identifiers are the derived addresses of a pool.
type Identifiers struct {
	Pool         string `json:"pool"`
	VaultGreater string `json:"vault_greater"`
	VaultLesser  string `json:"vault_lesser"`
	ClaimMint    string `json:"claim_mint"`
}

// CreatePoolBody is the body of POST /pools.
type CreatePoolBody struct {
	AssetGreater string       `json:"asset_greater"`
	AssetLesser  string       `json:"asset_lesser"`
	FeeRateBP    uint16       `json:"fee_rate_bp"`
	Expected     *Identifiers `json:"expected,omitempty"`
}

// DepositBody is the body of POST /pools/{id}/deposits.
type DepositBody struct {
	Owner          string `json:"owner"`
	DesiredGreater string `json:"desired_greater"`
	DesiredLesser  string `json:"desired_lesser"`
	MinGreater     string `json:"min_greater,omitempty"`
	MinLesser      string `json:"min_lesser,omitempty"`
}

// WithdrawalBody is the body of POST /pools/{id}/withdrawals.
type WithdrawalBody struct {
	Owner      string `json:"owner"`
	Claim      string `json:"claim"`
	MinGreater string `json:"min_greater,omitempty"`
	MinLesser  string `json:"min_lesser,omitempty"`
}

// SwapBody is the body of POST /pools/{id}/swaps.
type SwapBody struct {
	Owner        string `json:"owner"`
	AssetIn      string `json:"asset_in"`
	AmountIn     string `json:"amount_in"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
}

// Error is returned with every non-2xx status.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Config is the protocol configuration.
type Config struct {
	Admin             string `json:"admin"`
	FeeRecipient      string `json:"fee_recipient"`
	ProtocolFeeRateBP uint16 `json:"protocol_fee_rate_bp"`
	Initialized       bool   `json:"initialized"`
}

// NewConfig converts a protocol configuration.
func NewConfig(c protocol.Config) Config {
	return Config{
		Admin:             c.Admin.Hex(),
		FeeRecipient:      c.FeeRecipient.Hex(),
		ProtocolFeeRateBP: c.ProtocolFeeRateBP,
		Initialized:       c.Initialized,
	}
}

// Pool is a pool record.
type Pool struct {
	ID             string `json:"id"`
	AssetGreater   string `json:"asset_greater"`
	AssetLesser    string `json:"asset_lesser"`
	VaultGreater   string `json:"vault_greater"`
	VaultLesser    string `json:"vault_lesser"`
	ClaimMint      string `json:"claim_mint"`
	FeeRateBP      uint16 `json:"fee_rate_bp"`
	ReserveGreater string `json:"reserve_greater"`
	ReserveLesser  string `json:"reserve_lesser"`
	ClaimSupply    string `json:"claim_supply"`
	State          string `json:"state"`
}

// NewPool converts a pool record.
func NewPool(p pool.Pool) Pool {
	return Pool{
		ID:             p.ID.Hex(),
		AssetGreater:   p.AssetGreater.Hex(),
		AssetLesser:    p.AssetLesser.Hex(),
		VaultGreater:   p.VaultGreater.Hex(),
		VaultLesser:    p.VaultLesser.Hex(),
		ClaimMint:      p.ClaimMint.Hex(),
		FeeRateBP:      p.FeeRateBP,
		ReserveGreater: amount(p.ReserveGreater),
		ReserveLesser:  amount(p.ReserveLesser),
		ClaimSupply:    amount(p.ClaimSupply),
		State:          p.State().String(),
	}
}

// NewPools converts a list of pool records.
func NewPools(pools []pool.Pool) []Pool {
	out := make([]Pool, 0, len(pools))
	for _, p := range pools {
		out = append(out, NewPool(p))
	}
	return out
}

// Deposit is the outcome of POST /pools/{id}/deposits.
type Deposit struct {
	Pool        Pool   `json:"pool"`
	UsedGreater string `json:"used_greater"`
	UsedLesser  string `json:"used_lesser"`
	Minted      string `json:"minted"`
}

// NewDeposit converts a deposit result.
func NewDeposit(r amm.AddLiquidityResult) Deposit {
	return Deposit{
		Pool:        NewPool(r.Pool),
		UsedGreater: amount(r.UsedGreater),
		UsedLesser:  amount(r.UsedLesser),
		Minted:      amount(r.Minted),
	}
}

// Withdrawal is the outcome of POST /pools/{id}/withdrawals.
type Withdrawal struct {
	Pool       Pool   `json:"pool"`
	OutGreater string `json:"out_greater"`
	OutLesser  string `json:"out_lesser"`
}

// NewWithdrawal converts a withdrawal result.
func NewWithdrawal(r amm.RemoveLiquidityResult) Withdrawal {
	return Withdrawal{
		Pool:       NewPool(r.Pool),
		OutGreater: amount(r.OutGreater),
		OutLesser:  amount(r.OutLesser),
	}
}

// Swap is the outcome of POST /pools/{id}/swaps.
type Swap struct {
	Pool           Pool   `json:"pool"`
	Direction      string `json:"direction"`
	AmountIn       string `json:"amount_in"`
	Fee            string `json:"fee"`
	AmountInNet    string `json:"amount_in_net"`
	AmountOut      string `json:"amount_out"`
	PriceImpactPPM string `json:"price_impact_ppm"`
	FeeRecipient   string `json:"fee_recipient"`
	ProtocolShare  string `json:"protocol_share"`
	LPShare        string `json:"lp_share"`
}

// NewSwap converts a swap result.
func NewSwap(r amm.SwapResult) Swap {
	return Swap{
		Pool:           NewPool(r.Pool),
		Direction:      r.Direction.String(),
		AmountIn:       amount(r.AmountIn),
		Fee:            amount(r.Fee),
		AmountInNet:    amount(r.AmountInNet),
		AmountOut:      amount(r.AmountOut),
		PriceImpactPPM: amount(r.PriceImpactPPM),
		FeeRecipient:   r.Fees.Recipient.Hex(),
		ProtocolShare:  amount(r.Fees.ProtocolShare),
		LPShare:        amount(r.Fees.LPShare),
	}
}

// SwapQuote is the body of GET /pools/{id}/quote/swap.
type SwapQuote struct {
	AssetIn        string `json:"asset_in"`
	Direction      string `json:"direction"`
	AmountIn       string `json:"amount_in"`
	Fee            string `json:"fee"`
	AmountInNet    string `json:"amount_in_net"`
	AmountOut      string `json:"amount_out"`
	MinAmountOut   string `json:"min_amount_out"`
	PriceImpactPPM string `json:"price_impact_ppm"`
}

// NewSwapQuote converts a swap quote.
func NewSwapQuote(q quote.Swap) SwapQuote {
	return SwapQuote{
		AssetIn:        q.AssetIn.Hex(),
		Direction:      q.Direction.String(),
		AmountIn:       amount(q.AmountIn),
		Fee:            amount(q.Fee),
		AmountInNet:    amount(q.AmountInNet),
		AmountOut:      amount(q.AmountOut),
		MinAmountOut:   amount(q.MinAmountOut),
		PriceImpactPPM: amount(q.PriceImpactPPM),
	}
}

// DepositQuote is the body of GET /pools/{id}/quote/deposit.
type DepositQuote struct {
	UsedGreater string `json:"used_greater"`
	UsedLesser  string `json:"used_lesser"`
	Minted      string `json:"minted"`
	MinGreater  string `json:"min_greater"`
	MinLesser   string `json:"min_lesser"`
}

// NewDepositQuote converts a deposit quote.
func NewDepositQuote(q quote.Deposit) DepositQuote {
	return DepositQuote{
		UsedGreater: amount(q.UsedGreater),
		UsedLesser:  amount(q.UsedLesser),
		Minted:      amount(q.Minted),
		MinGreater:  amount(q.MinGreater),
		MinLesser:   amount(q.MinLesser),
	}
}

// WithdrawalQuote is the body of GET /pools/{id}/quote/withdrawal.
type WithdrawalQuote struct {
	Claim      string `json:"claim"`
	OutGreater string `json:"out_greater"`
	OutLesser  string `json:"out_lesser"`
	MinGreater string `json:"min_greater"`
	MinLesser  string `json:"min_lesser"`
}

// NewWithdrawalQuote converts a withdrawal quote.
func NewWithdrawalQuote(q quote.Withdrawal) WithdrawalQuote {
	return WithdrawalQuote{
		Claim:      amount(q.Claim),
		OutGreater: amount(q.OutGreater),
		OutLesser:  amount(q.OutLesser),
		MinGreater: amount(q.MinGreater),
		MinLesser:  amount(q.MinLesser),
	}
}

func amount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
