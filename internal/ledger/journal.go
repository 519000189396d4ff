package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Balance is one owner's holdings of an asset.
type Balance struct {
	Owner  common.Address
	Asset  common.Address
	Amount uint64
}

// Supply is the total amount of an asset in existence.
type Supply struct {
	Asset  common.Address
	Amount uint64
}

// Snapshot is a set of ledger entries. A zero Amount removes the entry.
type Snapshot struct {
	Balances []Balance
	Supplies []Supply
}

// Journal keeps ledger entries across restarts.
type Journal interface {
	// LoadBalances returns every stored entry with a non-zero amount.
	LoadBalances(ctx context.Context) (Snapshot, error)
	// PutBalances writes every entry of snap or none of them.
	PutBalances(ctx context.Context, snap Snapshot) error
}

// NewJournaled returns a ledger restored from j that writes each applied plan
// to j before committing it.
func NewJournaled(ctx context.Context, j Journal) (*Memory, error) {
	snap, err := j.LoadBalances(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "j.LoadBalances")
	}

	m := NewMemory()
	m.journal = j
	for _, b := range snap.Balances {
		if b.Amount != 0 {
			m.balances[account{owner: b.Owner, asset: b.Asset}] = b.Amount
		}
	}
	for _, s := range snap.Supplies {
		if s.Amount != 0 {
			m.supply[s.Asset] = s.Amount
		}
	}
	return m, nil
}

func (s *staged) snapshot() Snapshot {
	snap := Snapshot{
		Balances: make([]Balance, 0, len(s.balances)),
		Supplies: make([]Supply, 0, len(s.supply)),
	}
	for a, v := range s.balances {
		snap.Balances = append(snap.Balances, Balance{Owner: a.owner, Asset: a.asset, Amount: v})
	}
	for asset, v := range s.supply {
		snap.Supplies = append(snap.Supplies, Supply{Asset: asset, Amount: v})
	}
	return snap
}
