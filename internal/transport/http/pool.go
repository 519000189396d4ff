package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
	"github.com/fleshka4/cpamm/internal/transport/http/validate"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch apperrors.Kind(err) {
	case "invalid_argument", "identical_assets", "invalid_token_order", "seed_mismatch",
		"zero_amount", "invalid_fee_rate", "invalid_fee_recipient", "domain_error":
		return http.StatusBadRequest
	case "slippage_exceeded", "zero_output", "insufficient_liquidity", "insufficient_supply",
		"empty_pool", "insufficient_balance", "arithmetic_overflow":
		return http.StatusUnprocessableEntity
	case "invalid_authority":
		return http.StatusForbidden
	case "pool_not_found", "config_not_initialized":
		return http.StatusNotFound
	case "already_initialized", "pool_exists":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response write error", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	body := dto.Error{Code: apperrors.Kind(err), Message: err.Error()}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
		body.Message = "internal error"
	}
	s.writeJSON(w, status, body)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.writeError(w, statusFor(err), err)
}

func (s *Server) rejectRequest(w http.ResponseWriter, code int, err error) {
	if code == 0 {
		code = http.StatusBadRequest
	}
	s.writeError(w, code, err)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.GetConfig(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewConfig(cfg))
}

func (s *Server) handleInitializeConfig(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.InitializeConfigRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	cfg, err := s.svc.InitializeConfig(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, dto.NewConfig(cfg))
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.UpdateConfigRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	cfg, err := s.svc.UpdateConfig(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewConfig(cfg))
}

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.svc.ListPools(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewPools(pools))
}

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.CreatePoolRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	p, err := s.svc.CreatePool(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, dto.NewPool(p))
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	id, code, err := validate.PoolID(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	p, err := s.svc.GetPool(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewPool(p))
}

func (s *Server) handleAddLiquidity(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.AddLiquidityRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	res, err := s.svc.AddLiquidity(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewDeposit(res))
}

func (s *Server) handleRemoveLiquidity(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.RemoveLiquidityRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	res, err := s.svc.RemoveLiquidity(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewWithdrawal(res))
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.SwapRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	res, err := s.svc.Swap(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewSwap(res))
}

func (s *Server) handleQuoteSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteSwapRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	q, err := s.svc.QuoteSwap(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewSwapQuote(q))
}

func (s *Server) handleQuoteDeposit(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteDepositRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	q, err := s.svc.QuoteDeposit(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewDepositQuote(q))
}

func (s *Server) handleQuoteWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteWithdrawalRequestValidate(r)
	if err != nil {
		s.rejectRequest(w, code, err)
		return
	}
	q, err := s.svc.QuoteWithdrawal(r.Context(), *req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewWithdrawalQuote(q))
}
