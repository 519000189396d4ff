package config

import (
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Genesis is the initial state applied to a fresh deployment.
type Genesis struct {
	Protocol *GenesisProtocol `yaml:"protocol"`
	Balances []GenesisBalance `yaml:"balances"`
	Pools    []GenesisPool    `yaml:"pools"`
}

// GenesisProtocol initializes the protocol configuration.
type GenesisProtocol struct {
	Admin             string `yaml:"admin"`
	FeeRecipient      string `yaml:"fee_recipient"`
	ProtocolFeeRateBP uint16 `yaml:"protocol_fee_rate_bp"`
}

// GenesisBalance credits Amount of Asset to Owner.
type GenesisBalance struct {
	Owner  string `yaml:"owner"`
	Asset  string `yaml:"asset"`
	Amount uint64 `yaml:"amount"`
}

// GenesisPool creates a pool. The assets may be listed in either order.
type GenesisPool struct {
	AssetA    string `yaml:"asset_a"`
	AssetB    string `yaml:"asset_b"`
	FeeRateBP uint16 `yaml:"fee_rate_bp"`
}

// LoadGenesis reads and validates the genesis file at path.
func LoadGenesis(path string) (Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return Genesis{}, errors.Wrap(err, "os.Open")
	}
	defer f.Close()

	var g Genesis
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return Genesis{}, errors.Wrap(err, "dec.Decode")
	}
	if err := g.Validate(); err != nil {
		return Genesis{}, err
	}
	return g, nil
}

// Validate checks every address in the genesis and reports all problems at once.
func (g Genesis) Validate() error {
	var err error
	check := func(v, field string, args ...any) {
		if !common.IsHexAddress(v) {
			err = multierr.Append(err, errors.Errorf(field+": bad address %q", append(args, v)...))
		}
	}

	if g.Protocol != nil {
		check(g.Protocol.Admin, "protocol.admin")
		check(g.Protocol.FeeRecipient, "protocol.fee_recipient")
	}
	for i, b := range g.Balances {
		check(b.Owner, "balances[%d].owner", i)
		check(b.Asset, "balances[%d].asset", i)
	}
	for i, p := range g.Pools {
		check(p.AssetA, "pools[%d].asset_a", i)
		check(p.AssetB, "pools[%d].asset_b", i)
	}
	return err
}
