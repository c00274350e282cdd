// Package config loads bloomctl settings from defaults, an optional config
// file, DYNBLOOM_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	bloom "github.com/naivewong/dynbloom"
	"github.com/naivewong/dynbloom/internal/logging"
)

const EnvPrefix = "DYNBLOOM"

type (
	Config struct {
		Filter FilterConfig   `mapstructure:"filter"`
		Server ServerConfig   `mapstructure:"server"`
		Log    logging.Config `mapstructure:"log"`
		Ingest IngestConfig   `mapstructure:"ingest"`
	}

	FilterConfig struct {
		ExpectedElements  uint64  `mapstructure:"expected_elements"`
		FalsePositiveRate float64 `mapstructure:"false_positive_rate"`
	}

	ServerConfig struct {
		Addr            string        `mapstructure:"addr"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}

	IngestConfig struct {
		Columns []string `mapstructure:"columns"`
	}
)

var defaults = map[string]any{
	"filter.expected_elements":   1000,
	"filter.false_positive_rate": 0.01,
	"server.addr":                ":8080",
	"server.shutdown_timeout":    "10s",
	"log.level":                  "info",
	"log.encoding":               "console",
	"ingest.columns":             []string{"FROM", "TO"},
}

// FlagKeys maps flag names to the config keys they override. Flags missing
// from the set passed to Load are skipped.
var FlagKeys = map[string]string{
	"expected":  "filter.expected_elements",
	"fp-rate":   "filter.false_positive_rate",
	"addr":      "server.addr",
	"log-level": "log.level",
	"log-json":  "log.encoding",
	"columns":   "ingest.columns",
}

// Load resolves the configuration. path may be empty.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			fl := flags.Lookup(name)
			if fl == nil || !fl.Changed {
				continue
			}
			if name == "log-json" {
				// boolean switch onto a string setting
				if fl.Value.String() == "true" {
					v.Set(key, "json")
				}
				continue
			}
			if err := v.BindPFlag(key, fl); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var ErrNoColumns = errors.New("config: ingest.columns must name at least one column")

// Validate rejects settings the filter or adapters cannot use.
func (c *Config) Validate() error {
	if err := bloom.CheckParams(c.Filter.ExpectedElements, c.Filter.FalsePositiveRate); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.Ingest.Columns) == 0 {
		return ErrNoColumns
	}
	return nil
}
