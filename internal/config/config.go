package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPebble   = "pebble"
	DriverPostgres = "postgres"
)

const defaultTimeout = 5 * time.Second

// Config holds application configuration loaded from file, env and flags.
type Config struct {
	ListenAddr        string
	GraceTimeout      time.Duration
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	LogLevel          string
	Store             StoreConfig
	// Genesis is an optional path to a genesis file applied on start.
	Genesis string
}

// StoreConfig selects and configures the pool store.
type StoreConfig struct {
	Driver    string
	Path      string
	DSN       string
	CacheSize int
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"listen-addr":         "listen_addr",
	"shutdown-timeout":    "shutdown_timeout",
	"request-timeout":     "request_timeout",
	"read-header-timeout": "read_header_timeout",
	"log-level":           "log_level",
	"store-driver":        "store.driver",
	"store-path":          "store.path",
	"store-dsn":           "store.dsn",
	"store-cache-size":    "store.cache_size",
	"genesis":             "genesis",
}

// Load merges defaults, the config file at path, CPAMM_* environment
// variables and flags into Config. An empty path skips the file.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CPAMM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":1337")
	v.SetDefault("shutdown_timeout", defaultTimeout)
	v.SetDefault("request_timeout", defaultTimeout)
	v.SetDefault("read_header_timeout", defaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.cache_size", 1024)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, errors.Wrapf(err, "v.BindPFlag %s", name)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "v.ReadInConfig")
		}
	}

	cfg := Config{
		ListenAddr:        v.GetString("listen_addr"),
		GraceTimeout:      v.GetDuration("shutdown_timeout"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		ReadHeaderTimeout: v.GetDuration("read_header_timeout"),
		LogLevel:          v.GetString("log_level"),
		Store: StoreConfig{
			Driver:    strings.ToLower(v.GetString("store.driver")),
			Path:      v.GetString("store.path"),
			DSN:       v.GetString("store.dsn"),
			CacheSize: v.GetInt("store.cache_size"),
		},
		Genesis: v.GetString("genesis"),
	}

	// Fallbacks
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":1337"
	}
	if cfg.GraceTimeout <= 0 {
		cfg.GraceTimeout = defaultTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultTimeout
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the store section at once.
func (c Config) Validate() error {
	var err error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPebble:
		if c.Store.Path == "" {
			err = multierr.Append(err, errors.New("store.path is required for the pebble driver"))
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			err = multierr.Append(err, errors.New("store.dsn is required for the postgres driver"))
		}
	default:
		err = multierr.Append(err, errors.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Store.CacheSize < 0 {
		err = multierr.Append(err, errors.Errorf("store.cache_size must not be negative, got %d", c.Store.CacheSize))
	}
	return err
}
