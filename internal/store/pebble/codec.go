package pebble

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
)

const recordVersion byte = 1

var (
	prefixPool    = []byte{0x01}
	keyConfig     = []byte{0x02}
	prefixBalance = []byte{0x03}
	prefixSupply  = []byte{0x04}
	prefixEnd     = []byte{0x05}

	errBadRecord = errors.New("bad record")
)

type poolRecord struct {
	ID             [common.AddressLength]byte
	AssetGreater   [common.AddressLength]byte
	AssetLesser    [common.AddressLength]byte
	VaultGreater   [common.AddressLength]byte
	VaultLesser    [common.AddressLength]byte
	ClaimMint      [common.AddressLength]byte
	FeeRateBP      uint16
	ReserveGreater uint64
	ReserveLesser  uint64
	ClaimSupply    uint64
}

type configRecord struct {
	Admin             [common.AddressLength]byte
	FeeRecipient      [common.AddressLength]byte
	ProtocolFeeRateBP uint16
	Initialized       bool
}

type balanceRecord struct {
	Owner  [common.AddressLength]byte
	Asset  [common.AddressLength]byte
	Amount uint64
}

type supplyRecord struct {
	Asset  [common.AddressLength]byte
	Amount uint64
}

func poolKey(id common.Address) []byte {
	return append(append([]byte{}, prefixPool...), id.Bytes()...)
}

func balanceKey(owner, asset common.Address) []byte {
	k := append(append([]byte{}, prefixBalance...), owner.Bytes()...)
	return append(k, asset.Bytes()...)
}

func supplyKey(asset common.Address) []byte {
	return append(append([]byte{}, prefixSupply...), asset.Bytes()...)
}

func encode(v any) ([]byte, error) {
	b, err := borsh.Serialize(v)
	if err != nil {
		return nil, errors.Wrap(err, "borsh.Serialize")
	}
	return append([]byte{recordVersion}, b...), nil
}

func decode(data []byte, v any) error {
	if len(data) == 0 || data[0] != recordVersion {
		return errors.Wrapf(errBadRecord, "unsupported version")
	}
	if err := borsh.Deserialize(v, data[1:]); err != nil {
		return errors.Wrap(err, "borsh.Deserialize")
	}
	return nil
}

func encodePool(p pool.Pool) ([]byte, error) {
	return encode(poolRecord{
		ID:             p.ID,
		AssetGreater:   p.AssetGreater,
		AssetLesser:    p.AssetLesser,
		VaultGreater:   p.VaultGreater,
		VaultLesser:    p.VaultLesser,
		ClaimMint:      p.ClaimMint,
		FeeRateBP:      p.FeeRateBP,
		ReserveGreater: p.ReserveGreater,
		ReserveLesser:  p.ReserveLesser,
		ClaimSupply:    p.ClaimSupply,
	})
}

func decodePool(data []byte) (pool.Pool, error) {
	var r poolRecord
	if err := decode(data, &r); err != nil {
		return pool.Pool{}, err
	}
	return pool.Pool{
		ID:             r.ID,
		AssetGreater:   r.AssetGreater,
		AssetLesser:    r.AssetLesser,
		VaultGreater:   r.VaultGreater,
		VaultLesser:    r.VaultLesser,
		ClaimMint:      r.ClaimMint,
		FeeRateBP:      r.FeeRateBP,
		ReserveGreater: r.ReserveGreater,
		ReserveLesser:  r.ReserveLesser,
		ClaimSupply:    r.ClaimSupply,
	}, nil
}

func encodeConfig(c protocol.Config) ([]byte, error) {
	return encode(configRecord{
		Admin:             c.Admin,
		FeeRecipient:      c.FeeRecipient,
		ProtocolFeeRateBP: c.ProtocolFeeRateBP,
		Initialized:       c.Initialized,
	})
}

func decodeConfig(data []byte) (protocol.Config, error) {
	var r configRecord
	if err := decode(data, &r); err != nil {
		return protocol.Config{}, err
	}
	return protocol.Config{
		Admin:             r.Admin,
		FeeRecipient:      r.FeeRecipient,
		ProtocolFeeRateBP: r.ProtocolFeeRateBP,
		Initialized:       r.Initialized,
	}, nil
}

func decodeBalance(data []byte) (ledger.Balance, error) {
	var r balanceRecord
	if err := decode(data, &r); err != nil {
		return ledger.Balance{}, err
	}
	return ledger.Balance{Owner: r.Owner, Asset: r.Asset, Amount: r.Amount}, nil
}

func decodeSupply(data []byte) (ledger.Supply, error) {
	var r supplyRecord
	if err := decode(data, &r); err != nil {
		return ledger.Supply{}, err
	}
	return ledger.Supply{Asset: r.Asset, Amount: r.Amount}, nil
}
