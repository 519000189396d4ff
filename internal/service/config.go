package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/metrics"
	"github.com/fleshka4/cpamm/internal/protocol"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/service/validate"
)

// InitializeConfig creates the protocol configuration. A second call fails
// with apperrors.ErrAlreadyInitialized.
func (s *PoolService) InitializeConfig(ctx context.Context, req dto.InitializeConfigRequest) (cfg protocol.Config, err error) {
	defer func() { s.observe(metrics.OpInitializeConfig, err) }()

	if err := validate.InitializeConfigRequestValidate(req); err != nil {
		return protocol.Config{}, err
	}

	s.configMu.Lock()
	defer s.configMu.Unlock()

	current, err := s.currentConfig(ctx)
	if err != nil {
		return protocol.Config{}, err
	}
	next, err := protocol.Initialize(current, req.Admin, req.FeeRecipient, req.ProtocolFeeRateBP)
	if err != nil {
		return protocol.Config{}, errors.Wrap(err, "protocol.Initialize")
	}
	if err := s.store.PutConfig(ctx, next); err != nil {
		return protocol.Config{}, errors.Wrap(err, "s.store.PutConfig")
	}

	s.log.Info("protocol config initialized",
		zap.Stringer("admin", next.Admin),
		zap.Stringer("fee_recipient", next.FeeRecipient),
		zap.Uint16("protocol_fee_rate_bp", next.ProtocolFeeRateBP),
	)
	return next, nil
}

// UpdateConfig applies an admin update to the protocol configuration.
func (s *PoolService) UpdateConfig(ctx context.Context, req dto.UpdateConfigRequest) (cfg protocol.Config, err error) {
	defer func() { s.observe(metrics.OpUpdateConfig, err) }()

	if err := validate.UpdateConfigRequestValidate(req); err != nil {
		return protocol.Config{}, err
	}

	s.configMu.Lock()
	defer s.configMu.Unlock()

	current, err := s.currentConfig(ctx)
	if err != nil {
		return protocol.Config{}, err
	}
	next, err := protocol.Update(current, req.Caller, protocol.UpdateParams{
		FeeRecipient:      req.FeeRecipient,
		ProtocolFeeRateBP: req.ProtocolFeeRateBP,
	})
	if err != nil {
		return protocol.Config{}, errors.Wrap(err, "protocol.Update")
	}
	if err := s.store.PutConfig(ctx, next); err != nil {
		return protocol.Config{}, errors.Wrap(err, "s.store.PutConfig")
	}

	s.log.Info("protocol config updated",
		zap.Stringer("caller", req.Caller),
		zap.Stringer("fee_recipient", next.FeeRecipient),
		zap.Uint16("protocol_fee_rate_bp", next.ProtocolFeeRateBP),
	)
	return next, nil
}

// GetConfig returns the protocol configuration.
func (s *PoolService) GetConfig(ctx context.Context) (protocol.Config, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return protocol.Config{}, errors.Wrap(err, "s.store.GetConfig")
	}
	return cfg, nil
}

// currentConfig returns the stored configuration or the zero value before initialization.
func (s *PoolService) currentConfig(ctx context.Context) (protocol.Config, error) {
	cfg, err := s.store.GetConfig(ctx)
	if errors.Is(err, apperrors.ErrConfigNotInitialized) {
		return protocol.Config{}, nil
	}
	if err != nil {
		return protocol.Config{}, errors.Wrap(err, "s.store.GetConfig")
	}
	return cfg, nil
}

func (s *PoolService) observe(op string, err error) {
	s.metrics.Observe(op, err)
	if err != nil {
		s.log.Debug("operation rejected", zap.String("op", op), zap.Error(err))
	}
}
