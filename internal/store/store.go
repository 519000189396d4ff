// Package store persists pool records and the protocol configuration.
package store

//go:generate mockgen -source=store.go -destination=mock/store.go -package=mock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
)

// Store is the reserve and supply source of the engines.
//
// GetPool returns apperrors.ErrPoolNotFound for unknown identifiers and
// GetConfig returns apperrors.ErrConfigNotInitialized before the first PutConfig.
// The embedded Journal holds the ledger balances next to the pools they back.
type Store interface {
	ledger.Journal

	GetPool(ctx context.Context, id common.Address) (pool.Pool, error)
	PutPool(ctx context.Context, p pool.Pool) error
	ListPools(ctx context.Context) ([]pool.Pool, error)
	GetConfig(ctx context.Context) (protocol.Config, error)
	PutConfig(ctx context.Context, cfg protocol.Config) error
	Close() error
}
