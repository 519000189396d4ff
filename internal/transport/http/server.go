package http

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/service"
)

// Server represents the HTTP transport layer.
type Server struct {
	svc service.Service
	mux *http.ServeMux
	log *zap.Logger

	graceTimeout      time.Duration
	readHeaderTimeout time.Duration
	requestTimeout    time.Duration
}

// NewServer creates a new HTTP server with registered routes. A nil gatherer
// leaves /metrics unregistered.
func NewServer(svc service.Service, cfg config.Config, log *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		svc: svc,
		mux: http.NewServeMux(),
		log: log,

		graceTimeout:      cfg.GraceTimeout,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		requestTimeout:    cfg.RequestTimeout,
	}

	s.mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Warn("ping write error", zap.Error(err))
		}
	})

	s.mux.HandleFunc("GET /config", s.handleGetConfig)
	s.mux.HandleFunc("POST /config", s.handleInitializeConfig)
	s.mux.HandleFunc("PATCH /config", s.handleUpdateConfig)

	s.mux.HandleFunc("GET /pools", s.handleListPools)
	s.mux.HandleFunc("POST /pools", s.handleCreatePool)
	s.mux.HandleFunc("GET /pools/{id}", s.handleGetPool)
	s.mux.HandleFunc("POST /pools/{id}/deposits", s.handleAddLiquidity)
	s.mux.HandleFunc("POST /pools/{id}/withdrawals", s.handleRemoveLiquidity)
	s.mux.HandleFunc("POST /pools/{id}/swaps", s.handleSwap)
	s.mux.HandleFunc("GET /pools/{id}/quote/swap", s.handleQuoteSwap)
	s.mux.HandleFunc("GET /pools/{id}/quote/deposit", s.handleQuoteDeposit)
	s.mux.HandleFunc("GET /pools/{id}/quote/withdrawal", s.handleQuoteWithdrawal)

	if gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

// Handler returns the routes wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return s.logMiddleware(s.timeoutMiddleware(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the configured grace timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("http server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "srv.ListenAndServe")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.graceTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "srv.Shutdown")
		}
		s.log.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}

// timeoutMiddleware bounds every request by the configured request timeout.
func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	if s.requestTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logMiddleware logs each HTTP request and the time taken to process it.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
