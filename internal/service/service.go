package service

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/metrics"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
	"github.com/fleshka4/cpamm/internal/quote"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/store"
)

// Service represents interface for business logic.
type Service interface {
	InitializeConfig(ctx context.Context, req dto.InitializeConfigRequest) (protocol.Config, error)
	UpdateConfig(ctx context.Context, req dto.UpdateConfigRequest) (protocol.Config, error)
	GetConfig(ctx context.Context) (protocol.Config, error)

	CreatePool(ctx context.Context, req dto.CreatePoolRequest) (pool.Pool, error)
	GetPool(ctx context.Context, id common.Address) (pool.Pool, error)
	ListPools(ctx context.Context) ([]pool.Pool, error)

	AddLiquidity(ctx context.Context, req dto.AddLiquidityRequest) (amm.AddLiquidityResult, error)
	RemoveLiquidity(ctx context.Context, req dto.RemoveLiquidityRequest) (amm.RemoveLiquidityResult, error)
	Swap(ctx context.Context, req dto.SwapRequest) (amm.SwapResult, error)

	QuoteSwap(ctx context.Context, req dto.QuoteSwapRequest) (quote.Swap, error)
	QuoteDeposit(ctx context.Context, req dto.QuoteDepositRequest) (quote.Deposit, error)
	QuoteWithdrawal(ctx context.Context, req dto.QuoteWithdrawalRequest) (quote.Withdrawal, error)
}

// PoolService runs the pool engines against a store and a ledger.
//
// Mutations of one pool are serialised; different pools proceed in parallel.
type PoolService struct {
	store   store.Store
	ledger  ledger.Ledger
	metrics *metrics.Metrics
	log     *zap.Logger

	pools    *keyedMutex
	configMu sync.Mutex
}

// NewPoolService creates PoolService.
func NewPoolService(st store.Store, l ledger.Ledger, m *metrics.Metrics, log *zap.Logger) *PoolService {
	return &PoolService{
		store:   st,
		ledger:  l,
		metrics: m,
		log:     log,

		pools: newKeyedMutex(),
	}
}
