package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/protocol"
	"github.com/fleshka4/cpamm/internal/quote"
	sdto "github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/service/mock"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
)

const (
	poolHex  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	ownerHex = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	assetHex = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

func serve(t *testing.T, h http.Handler, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestPingHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	server := NewServer(mock.NewMockService(ctrl), config.Config{}, nil, nil)

	resp, body := serve(t, server.mux, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "pong", string(body))
}

func TestSwapHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := mock.NewMockService(ctrl)
	server := NewServer(mockService, config.Config{}, nil, nil)

	target := "/pools/" + poolHex + "/swaps"

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().
			Swap(gomock.Any(), sdto.SwapRequest{
				Pool:         common.HexToAddress(poolHex),
				Owner:        common.HexToAddress(ownerHex),
				AssetIn:      common.HexToAddress(assetHex),
				AmountIn:     10_000,
				MinAmountOut: 19_000,
			}).
			Return(amm.SwapResult{
				SwapQuote: amm.SwapQuote{
					Direction:      pool.GreaterToLesser,
					AmountIn:       10_000,
					Fee:            100,
					AmountInNet:    9_900,
					AmountOut:      19_605,
					PriceImpactPPM: 19_606,
				},
				Fees: amm.FeeDistribution{Total: 100, ProtocolShare: 25, LPShare: 75},
			}, nil)

		resp, body := serve(t, server.mux, http.MethodPost, target,
			`{"owner":"`+ownerHex+`","asset_in":"`+assetHex+`","amount_in":"10000","min_amount_out":"19000"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var out dto.Swap
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "19605", out.AmountOut)
		require.Equal(t, "25", out.ProtocolShare)
		require.Equal(t, "19606", out.PriceImpactPPM)
	})

	t.Run("validation error - bad amount", func(t *testing.T) {
		resp, body := serve(t, server.mux, http.MethodPost, target,
			`{"owner":"`+ownerHex+`","asset_in":"`+assetHex+`","amount_in":"-1"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out dto.Error
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "invalid_argument", out.Code)
	})

	t.Run("validation error - bad pool id", func(t *testing.T) {
		resp, _ := serve(t, server.mux, http.MethodPost, "/pools/invalid/swaps",
			`{"owner":"`+ownerHex+`","asset_in":"`+assetHex+`","amount_in":"1"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	testServiceError := func(t *testing.T, serviceError error, expectedStatusCode int, expectedCode string) {
		mockService.EXPECT().
			Swap(gomock.Any(), gomock.Any()).
			Return(amm.SwapResult{}, serviceError)

		resp, body := serve(t, server.mux, http.MethodPost, target,
			`{"owner":"`+ownerHex+`","asset_in":"`+assetHex+`","amount_in":"1"}`)
		require.Equal(t, expectedStatusCode, resp.StatusCode)

		var out dto.Error
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, expectedCode, out.Code)
	}

	t.Run("service error - slippage", func(t *testing.T) {
		testServiceError(t, errors.Wrap(apperrors.ErrSlippageExceeded, "amm.Swap"), http.StatusUnprocessableEntity, "slippage_exceeded")
	})

	t.Run("service error - zero amount", func(t *testing.T) {
		testServiceError(t, apperrors.ErrZeroAmount, http.StatusBadRequest, "zero_amount")
	})

	t.Run("service error - pool not found", func(t *testing.T) {
		testServiceError(t, errors.Wrap(apperrors.ErrPoolNotFound, "s.store.GetPool"), http.StatusNotFound, "pool_not_found")
	})

	t.Run("service error - insufficient balance", func(t *testing.T) {
		testServiceError(t, apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance")
	})

	t.Run("service error - overflow", func(t *testing.T) {
		testServiceError(t, errors.Wrap(apperrors.ErrArithmeticOverflow, "reserve"), http.StatusUnprocessableEntity, "arithmetic_overflow")
	})
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "overflow", err: errors.Wrap(apperrors.ErrArithmeticOverflow, "dexmath.Add"), want: http.StatusUnprocessableEntity},
		{name: "insufficient balance", err: apperrors.ErrInsufficientBalance, want: http.StatusUnprocessableEntity},
		{name: "zero amount", err: apperrors.ErrZeroAmount, want: http.StatusBadRequest},
		{name: "deadline", err: errors.Wrap(context.DeadlineExceeded, "ctx.Err"), want: http.StatusGatewayTimeout},
		{name: "unknown", err: errors.New("disk full"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestConfigHandlers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := mock.NewMockService(ctrl)
	server := NewServer(mockService, config.Config{}, nil, nil)

	cfg := protocol.Config{
		Admin:             common.HexToAddress(ownerHex),
		FeeRecipient:      common.HexToAddress(assetHex),
		ProtocolFeeRateBP: 2500,
		Initialized:       true,
	}

	t.Run("initialize", func(t *testing.T) {
		mockService.EXPECT().InitializeConfig(gomock.Any(), gomock.Any()).Return(cfg, nil)

		resp, body := serve(t, server.mux, http.MethodPost, "/config",
			`{"admin":"`+ownerHex+`","fee_recipient":"`+assetHex+`","protocol_fee_rate_bp":2500}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var out dto.Config
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, dto.NewConfig(cfg), out)
	})

	t.Run("initialize twice", func(t *testing.T) {
		mockService.EXPECT().InitializeConfig(gomock.Any(), gomock.Any()).Return(protocol.Config{}, apperrors.ErrAlreadyInitialized)

		resp, _ := serve(t, server.mux, http.MethodPost, "/config",
			`{"admin":"`+ownerHex+`","fee_recipient":"`+assetHex+`"}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("update by stranger", func(t *testing.T) {
		mockService.EXPECT().UpdateConfig(gomock.Any(), gomock.Any()).Return(protocol.Config{}, apperrors.ErrInvalidAuthority)

		resp, _ := serve(t, server.mux, http.MethodPatch, "/config", `{"caller":"`+assetHex+`","protocol_fee_rate_bp":1}`)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("not initialized", func(t *testing.T) {
		mockService.EXPECT().GetConfig(gomock.Any()).Return(protocol.Config{}, apperrors.ErrConfigNotInitialized)

		resp, _ := serve(t, server.mux, http.MethodGet, "/config", "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := serve(t, server.mux, http.MethodDelete, "/config", "")
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestPoolHandlers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := mock.NewMockService(ctrl)
	server := NewServer(mockService, config.Config{}, nil, nil)

	p, err := pool.New(common.HexToAddress(assetHex), common.HexToAddress(ownerHex), 30)
	require.NoError(t, err)
	p.ReserveGreater, p.ReserveLesser, p.ClaimSupply = 1000, 2000, 1414

	t.Run("create", func(t *testing.T) {
		mockService.EXPECT().CreatePool(gomock.Any(), sdto.CreatePoolRequest{
			AssetGreater: p.AssetGreater,
			AssetLesser:  p.AssetLesser,
			FeeRateBP:    30,
		}).Return(p, nil)

		resp, body := serve(t, server.mux, http.MethodPost, "/pools",
			`{"asset_greater":"`+assetHex+`","asset_lesser":"`+ownerHex+`","fee_rate_bp":30}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var out dto.Pool
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, p.ID.Hex(), out.ID)
	})

	t.Run("create existing", func(t *testing.T) {
		mockService.EXPECT().CreatePool(gomock.Any(), gomock.Any()).Return(pool.Pool{}, apperrors.ErrPoolExists)

		resp, _ := serve(t, server.mux, http.MethodPost, "/pools",
			`{"asset_greater":"`+assetHex+`","asset_lesser":"`+ownerHex+`","fee_rate_bp":30}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("get", func(t *testing.T) {
		mockService.EXPECT().GetPool(gomock.Any(), p.ID).Return(p, nil)

		resp, body := serve(t, server.mux, http.MethodGet, "/pools/"+p.ID.Hex(), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.Pool
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "1000", out.ReserveGreater)
		require.Equal(t, "1414", out.ClaimSupply)
		require.Equal(t, pool.Funded.String(), out.State)
	})

	t.Run("list", func(t *testing.T) {
		mockService.EXPECT().ListPools(gomock.Any()).Return([]pool.Pool{p}, nil)

		resp, body := serve(t, server.mux, http.MethodGet, "/pools", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out []dto.Pool
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out, 1)
	})

	t.Run("deposit", func(t *testing.T) {
		mockService.EXPECT().AddLiquidity(gomock.Any(), gomock.Any()).
			Return(amm.AddLiquidityResult{Pool: p, UsedGreater: 100, UsedLesser: 200, Minted: 141}, nil)

		resp, body := serve(t, server.mux, http.MethodPost, "/pools/"+p.ID.Hex()+"/deposits",
			`{"owner":"`+ownerHex+`","desired_greater":"100","desired_lesser":"300"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.Deposit
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "141", out.Minted)
	})

	t.Run("withdrawal", func(t *testing.T) {
		mockService.EXPECT().RemoveLiquidity(gomock.Any(), gomock.Any()).
			Return(amm.RemoveLiquidityResult{}, apperrors.ErrInsufficientSupply)

		resp, _ := serve(t, server.mux, http.MethodPost, "/pools/"+p.ID.Hex()+"/withdrawals",
			`{"owner":"`+ownerHex+`","claim":"1415"}`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("quotes", func(t *testing.T) {
		mockService.EXPECT().QuoteSwap(gomock.Any(), sdto.QuoteSwapRequest{
			Pool: p.ID, AssetIn: p.AssetGreater, AmountIn: 100, Tolerance: quote.ToleranceLow,
		}).Return(quote.Swap{SwapQuote: amm.SwapQuote{AmountOut: 196}, AssetIn: p.AssetGreater, MinAmountOut: 195}, nil)
		mockService.EXPECT().QuoteDeposit(gomock.Any(), gomock.Any()).Return(quote.Deposit{MinGreater: 99}, nil)
		mockService.EXPECT().QuoteWithdrawal(gomock.Any(), gomock.Any()).Return(quote.Withdrawal{}, apperrors.ErrZeroAmount)

		resp, body := serve(t, server.mux, http.MethodGet, "/pools/"+p.ID.Hex()+"/quote/swap?asset_in="+assetHex+"&amount_in=100", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var sq dto.SwapQuote
		require.NoError(t, json.Unmarshal(body, &sq))
		require.Equal(t, "195", sq.MinAmountOut)

		resp, _ = serve(t, server.mux, http.MethodGet, "/pools/"+p.ID.Hex()+"/quote/deposit?desired_greater=100&desired_lesser=200", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = serve(t, server.mux, http.MethodGet, "/pools/"+p.ID.Hex()+"/quote/withdrawal?claim=0", "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandler_RequestTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := mock.NewMockService(ctrl)
	server := NewServer(mockService, config.Config{RequestTimeout: time.Second}, nil, nil)

	mockService.EXPECT().GetConfig(gomock.Any()).DoAndReturn(func(ctx context.Context) (protocol.Config, error) {
		_, ok := ctx.Deadline()
		require.True(t, ok)
		return protocol.Config{}, errors.Wrap(context.DeadlineExceeded, "s.store.GetConfig")
	})

	resp, _ := serve(t, server.Handler(), http.MethodGet, "/config", "")
	require.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "cpamm_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	ctrl := gomock.NewController(t)
	server := NewServer(mock.NewMockService(ctrl), config.Config{}, nil, reg)

	resp, body := serve(t, server.mux, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "cpamm_test_total 1")
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	server := NewServer(mock.NewMockService(ctrl), config.Config{GraceTimeout: time.Second}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
