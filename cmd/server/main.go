package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/logging"
	"github.com/fleshka4/cpamm/internal/metrics"
	"github.com/fleshka4/cpamm/internal/service"
	transport "github.com/fleshka4/cpamm/internal/transport/http"
)

func main() {
	root := &cobra.Command{
		Use:          "cpamm",
		Short:        "Constant-product liquidity pool service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", os.Getenv("CONFIG_PATH"), "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pool API over HTTP",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen-addr", ":1337", "HTTP listen address")
	serveCmd.Flags().Duration("shutdown-timeout", 5*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().Duration("request-timeout", 5*time.Second, "per-request timeout")
	serveCmd.Flags().Duration("read-header-timeout", 5*time.Second, "read header timeout")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	serveCmd.Flags().String("store-driver", config.DriverMemory, "pool store (memory, pebble, postgres)")
	serveCmd.Flags().String("store-path", "", "pebble data directory")
	serveCmd.Flags().String("store-dsn", "", "Postgres DSN")
	serveCmd.Flags().Int("store-cache-size", 1024, "pool cache entries, 0 disables the cache")
	serveCmd.Flags().String("genesis", "", "genesis file applied on start")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("store close", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return errors.Wrap(err, "metrics.New")
	}

	l, err := ledger.NewJournaled(ctx, st)
	if err != nil {
		return errors.Wrap(err, "ledger.NewJournaled")
	}
	log.Info("ledger restored", zap.Int("accounts", l.Accounts()))
	fresh := l.Accounts() == 0
	svc := service.NewPoolService(st, l, m, log.Named("service"))

	if cfg.Genesis != "" {
		g, err := config.LoadGenesis(cfg.Genesis)
		if err != nil {
			return errors.Wrap(err, "config.LoadGenesis")
		}
		if err := applyGenesis(ctx, svc, l, fresh, g, log); err != nil {
			return err
		}
	}

	pools, err := svc.ListPools(ctx)
	if err != nil {
		return err
	}
	m.SetPools(len(pools))
	log.Info("pools loaded", zap.Int("count", len(pools)), zap.String("store", cfg.Store.Driver))

	srv := transport.NewServer(svc, cfg, log.Named("http"), reg)
	return srv.ListenAndServe(ctx, cfg.ListenAddr)
}
