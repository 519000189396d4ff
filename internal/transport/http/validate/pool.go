package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/pair"
	"github.com/fleshka4/cpamm/internal/quote"
	sdto "github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
)

const maxBodyBytes = 1 << 16

// DefaultTolerance applies to quotes that do not name a tolerance.
const DefaultTolerance = quote.ToleranceLow

func bad(format string, args ...any) error {
	return errors.Wrapf(apperrors.ErrInvalidArgument, format, args...)
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return bad("bad json body: %v", err)
	}
	return nil
}

func address(name, v string) (common.Address, error) {
	if v == "" {
		return common.Address{}, bad("missing %s", name)
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, bad("bad %s address format", name)
	}
	return common.HexToAddress(v), nil
}

// amount parses a base-10 uint64. An empty optional value is zero.
func amount(name, v string, required bool) (uint64, error) {
	if v == "" {
		if required {
			return 0, bad("missing %s", name)
		}
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, bad("bad %s", name)
	}
	return n, nil
}

func tolerance(v string) (quote.Tolerance, error) {
	if v == "" {
		return DefaultTolerance, nil
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, bad("bad tolerance")
	}
	return quote.Tolerance(n), nil
}

// PoolID parses the {id} path segment.
func PoolID(r *http.Request) (common.Address, int, error) {
	id, err := address("pool id", r.PathValue("id"))
	if err != nil {
		return common.Address{}, http.StatusBadRequest, err
	}
	return id, 0, nil
}

// InitializeConfigRequestValidate validates POST /config.
func InitializeConfigRequestValidate(r *http.Request) (*sdto.InitializeConfigRequest, int, error) {
	var body dto.InitializeConfigBody
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	admin, err := address("admin", body.Admin)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	recipient, err := address("fee_recipient", body.FeeRecipient)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &sdto.InitializeConfigRequest{
		Admin:             admin,
		FeeRecipient:      recipient,
		ProtocolFeeRateBP: body.ProtocolFeeRateBP,
	}, 0, nil
}

// UpdateConfigRequestValidate validates PATCH /config.
func UpdateConfigRequestValidate(r *http.Request) (*sdto.UpdateConfigRequest, int, error) {
	var body dto.UpdateConfigBody
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	caller, err := address("caller", body.Caller)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &sdto.UpdateConfigRequest{Caller: caller, ProtocolFeeRateBP: body.ProtocolFeeRateBP}
	if body.FeeRecipient != nil {
		recipient, err := address("fee_recipient", *body.FeeRecipient)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		req.FeeRecipient = &recipient
	}
	return req, 0, nil
}

// CreatePoolRequestValidate validates POST /pools.
func CreatePoolRequestValidate(r *http.Request) (*sdto.CreatePoolRequest, int, error) {
	var body dto.CreatePoolBody
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	greater, err := address("asset_greater", body.AssetGreater)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	lesser, err := address("asset_lesser", body.AssetLesser)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &sdto.CreatePoolRequest{AssetGreater: greater, AssetLesser: lesser, FeeRateBP: body.FeeRateBP}
	if e := body.Expected; e != nil {
		var ids pair.Identifiers
		for _, f := range []struct {
			name string
			v    string
			dst  *common.Address
		}{
			{"expected.pool", e.Pool, &ids.Pool},
			{"expected.vault_greater", e.VaultGreater, &ids.VaultGreater},
			{"expected.vault_lesser", e.VaultLesser, &ids.VaultLesser},
			{"expected.claim_mint", e.ClaimMint, &ids.ClaimMint},
		} {
			if *f.dst, err = address(f.name, f.v); err != nil {
				return nil, http.StatusBadRequest, err
			}
		}
		req.Expected = &ids
	}
	return req, 0, nil
}

// AddLiquidityRequestValidate validates POST /pools/{id}/deposits.
func AddLiquidityRequestValidate(r *http.Request) (*sdto.AddLiquidityRequest, int, error) {
	id, code, err := PoolID(r)
	if err != nil {
		return nil, code, err
	}
	var body dto.DepositBody
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &sdto.AddLiquidityRequest{Pool: id}
	if req.Owner, err = address("owner", body.Owner); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.DesiredGreater, err = amount("desired_greater", body.DesiredGreater, true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.DesiredLesser, err = amount("desired_lesser", body.DesiredLesser, true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.MinGreater, err = amount("min_greater", body.MinGreater, false); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.MinLesser, err = amount("min_lesser", body.MinLesser, false); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// RemoveLiquidityRequestValidate validates POST /pools/{id}/withdrawals.
func RemoveLiquidityRequestValidate(r *http.Request) (*sdto.RemoveLiquidityRequest, int, error) {
	id, code, err := PoolID(r)
	if err != nil {
		return nil, code, err
	}
	var body dto.WithdrawalBody
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &sdto.RemoveLiquidityRequest{Pool: id}
	if req.Owner, err = address("owner", body.Owner); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.Claim, err = amount("claim", body.Claim, true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.MinGreater, err = amount("min_greater", body.MinGreater, false); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.MinLesser, err = amount("min_lesser", body.MinLesser, false); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// SwapRequestValidate validates POST /pools/{id}/swaps.
func SwapRequestValidate(r *http.Request) (*sdto.SwapRequest, int, error) {
	id, code, err := PoolID(r)
	if err != nil {
		return nil, code, err
	}
	var body dto.SwapBody
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &sdto.SwapRequest{Pool: id}
	if req.Owner, err = address("owner", body.Owner); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.AssetIn, err = address("asset_in", body.AssetIn); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.AmountIn, err = amount("amount_in", body.AmountIn, true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.MinAmountOut, err = amount("min_amount_out", body.MinAmountOut, false); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// QuoteSwapRequestValidate validates GET /pools/{id}/quote/swap.
func QuoteSwapRequestValidate(r *http.Request) (*sdto.QuoteSwapRequest, int, error) {
	id, code, err := PoolID(r)
	if err != nil {
		return nil, code, err
	}
	q := r.URL.Query()

	req := &sdto.QuoteSwapRequest{Pool: id}
	if req.AssetIn, err = address("asset_in", q.Get("asset_in")); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.AmountIn, err = amount("amount_in", q.Get("amount_in"), true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.Tolerance, err = tolerance(q.Get("tolerance")); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// QuoteDepositRequestValidate validates GET /pools/{id}/quote/deposit.
func QuoteDepositRequestValidate(r *http.Request) (*sdto.QuoteDepositRequest, int, error) {
	id, code, err := PoolID(r)
	if err != nil {
		return nil, code, err
	}
	q := r.URL.Query()

	req := &sdto.QuoteDepositRequest{Pool: id}
	if req.DesiredGreater, err = amount("desired_greater", q.Get("desired_greater"), true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.DesiredLesser, err = amount("desired_lesser", q.Get("desired_lesser"), true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.Tolerance, err = tolerance(q.Get("tolerance")); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// QuoteWithdrawalRequestValidate validates GET /pools/{id}/quote/withdrawal.
func QuoteWithdrawalRequestValidate(r *http.Request) (*sdto.QuoteWithdrawalRequest, int, error) {
	id, code, err := PoolID(r)
	if err != nil {
		return nil, code, err
	}
	q := r.URL.Query()

	req := &sdto.QuoteWithdrawalRequest{Pool: id}
	if req.Claim, err = amount("claim", q.Get("claim"), true); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if req.Tolerance, err = tolerance(q.Get("tolerance")); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}
