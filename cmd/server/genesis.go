package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pair"
	"github.com/fleshka4/cpamm/internal/service"
	"github.com/fleshka4/cpamm/internal/service/dto"
)

// applyGenesis seeds the protocol config, ledger balances and pools. Config and
// pools that already exist are kept. Balances are credited only when fresh is
// set, since a restored ledger already holds them.
func applyGenesis(ctx context.Context, svc service.Service, l ledger.Ledger, fresh bool, g config.Genesis, log *zap.Logger) error {
	if gp := g.Protocol; gp != nil {
		_, err := svc.InitializeConfig(ctx, dto.InitializeConfigRequest{
			Admin:             common.HexToAddress(gp.Admin),
			FeeRecipient:      common.HexToAddress(gp.FeeRecipient),
			ProtocolFeeRateBP: gp.ProtocolFeeRateBP,
		})
		switch {
		case errors.Is(err, apperrors.ErrAlreadyInitialized):
			log.Info("genesis: protocol config already initialized")
		case err != nil:
			return errors.Wrap(err, "genesis protocol")
		}
	}

	for i, b := range g.Balances {
		if !fresh {
			log.Info("genesis: ledger restored, balances skipped")
			break
		}
		if err := l.Credit(ctx, common.HexToAddress(b.Owner), common.HexToAddress(b.Asset), b.Amount); err != nil {
			return errors.Wrapf(err, "genesis balances[%d]", i)
		}
	}

	for i, gp := range g.Pools {
		greater, lesser, err := pair.Canonicalize(common.HexToAddress(gp.AssetA), common.HexToAddress(gp.AssetB))
		if err != nil {
			return errors.Wrapf(err, "genesis pools[%d]", i)
		}
		p, err := svc.CreatePool(ctx, dto.CreatePoolRequest{
			AssetGreater: greater,
			AssetLesser:  lesser,
			FeeRateBP:    gp.FeeRateBP,
		})
		switch {
		case errors.Is(err, apperrors.ErrPoolExists):
			continue
		case err != nil:
			return errors.Wrapf(err, "genesis pools[%d]", i)
		}
		log.Info("genesis: pool created", zap.Stringer("pool", p.ID))
	}
	return nil
}
