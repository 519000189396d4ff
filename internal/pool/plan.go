package pool

import (
	"github.com/ethereum/go-ethereum/common"
)

// TransferKind says how the token-transfer subsystem must treat a leg.
type TransferKind int

const (
	// Deposit moves assets from a user into a pool vault.
	Deposit TransferKind = iota
	// Release moves assets from a pool vault to a user.
	Release
	// Mint creates claim tokens for a user.
	Mint
	// Burn destroys claim tokens held by a user.
	Burn
)

func (k TransferKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Release:
		return "release"
	case Mint:
		return "mint"
	default:
		return "burn"
	}
}

func (k TransferKind) inverse() TransferKind {
	switch k {
	case Deposit:
		return Release
	case Release:
		return Deposit
	case Mint:
		return Burn
	default:
		return Mint
	}
}

// Transfer is one leg of a plan. For Mint and Burn, Asset is the claim mint
// and the mint side of From/To is the mint itself.
type Transfer struct {
	Kind   TransferKind
	Asset  common.Address
	From   common.Address
	To     common.Address
	Amount uint64
}

// Plan is the ordered list of legs one engine call produced.
type Plan []Transfer

// Reverse returns the plan that undoes p.
func (p Plan) Reverse() Plan {
	out := make(Plan, 0, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		t := p[i]
		out = append(out, Transfer{
			Kind:   t.Kind.inverse(),
			Asset:  t.Asset,
			From:   t.To,
			To:     t.From,
			Amount: t.Amount,
		})
	}
	return out
}

// DepositTo appends a user-to-vault leg. Zero amounts are skipped.
func (p Plan) DepositTo(owner common.Address, s Side, amount uint64) Plan {
	if amount == 0 {
		return p
	}
	return append(p, Transfer{Kind: Deposit, Asset: s.Asset, From: owner, To: s.Vault, Amount: amount})
}

// ReleaseTo appends a vault-to-user leg. Zero amounts are skipped.
func (p Plan) ReleaseTo(owner common.Address, s Side, amount uint64) Plan {
	if amount == 0 {
		return p
	}
	return append(p, Transfer{Kind: Release, Asset: s.Asset, From: s.Vault, To: owner, Amount: amount})
}

// MintTo appends a claim mint leg.
func (p Plan) MintTo(owner, mint common.Address, amount uint64) Plan {
	if amount == 0 {
		return p
	}
	return append(p, Transfer{Kind: Mint, Asset: mint, From: mint, To: owner, Amount: amount})
}

// BurnFrom appends a claim burn leg.
func (p Plan) BurnFrom(owner, mint common.Address, amount uint64) Plan {
	if amount == 0 {
		return p
	}
	return append(p, Transfer{Kind: Burn, Asset: mint, From: owner, To: mint, Amount: amount})
}
