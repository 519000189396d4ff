package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, ":1337", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.GraceTimeout)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
	require.Equal(t, 1024, cfg.Store.CacheSize)
}

func TestLoad_FileAndFlags(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", `
listen_addr: ":8080"
request_timeout: 2s
shutdown_timeout: 0s
log_level: debug
store:
  driver: pebble
  path: /var/lib/cpamm
  cache_size: 16
genesis: genesis.yaml
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen-addr", "", "")
	flags.Int("store-cache-size", 0, "")
	require.NoError(t, flags.Parse([]string{"--listen-addr=:9090"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, 2*time.Second, cfg.RequestTimeout)
	require.Equal(t, defaultTimeout, cfg.GraceTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, StoreConfig{Driver: DriverPebble, Path: "/var/lib/cpamm", CacheSize: 16}, cfg.Store)
	require.Equal(t, "genesis.yaml", cfg.Genesis)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		store   StoreConfig
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "memory", store: StoreConfig{Driver: DriverMemory}, wantErr: assert.NoError},
		{name: "pebble", store: StoreConfig{Driver: DriverPebble, Path: "data"}, wantErr: assert.NoError},
		{name: "pebble without path", store: StoreConfig{Driver: DriverPebble}, wantErr: assert.Error},
		{name: "postgres", store: StoreConfig{Driver: DriverPostgres, DSN: "postgres://localhost/cpamm"}, wantErr: assert.NoError},
		{name: "postgres without dsn", store: StoreConfig{Driver: DriverPostgres}, wantErr: assert.Error},
		{name: "unknown driver", store: StoreConfig{Driver: "redis"}, wantErr: assert.Error},
		{name: "negative cache", store: StoreConfig{Driver: DriverMemory, CacheSize: -1}, wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.wantErr(t, Config{Store: tt.store}.Validate())
		})
	}
}

func TestLoadGenesis(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "genesis.yaml", `
protocol:
  admin: "0x00000000000000000000000000000000000000ad"
  fee_recipient: "0x0000000000000000000000000000000000000fee"
  protocol_fee_rate_bp: 2500
balances:
  - owner: "0x00000000000000000000000000000000000a11ce"
    asset: "0x1000000000000000000000000000000000000001"
    amount: 1000000
pools:
  - asset_a: "0x1000000000000000000000000000000000000001"
    asset_b: "0xf000000000000000000000000000000000000001"
    fee_rate_bp: 30
`)

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	require.NotNil(t, g.Protocol)
	require.Equal(t, uint16(2500), g.Protocol.ProtocolFeeRateBP)
	require.Len(t, g.Balances, 1)
	require.Equal(t, uint64(1_000_000), g.Balances[0].Amount)
	require.Len(t, g.Pools, 1)
	require.Equal(t, uint16(30), g.Pools[0].FeeRateBP)
}

func TestLoadGenesis_Invalid(t *testing.T) {
	t.Parallel()

	t.Run("bad addresses", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "genesis.yaml", `
balances:
  - owner: "nope"
    asset: "0x1000000000000000000000000000000000000001"
    amount: 1
pools:
  - asset_a: "0x12"
    asset_b: "0xf000000000000000000000000000000000000001"
`)
		_, err := LoadGenesis(path)
		require.ErrorContains(t, err, "balances[0].owner")
		require.ErrorContains(t, err, "pools[0].asset_a")
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := LoadGenesis(writeFile(t, "genesis.yaml", "accounts: []\n"))
		require.Error(t, err)
	})
}
