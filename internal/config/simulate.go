package config

import (
	"time"

	"github.com/spf13/pflag"
)

// SimulateConfig holds configuration for the simulate command.
type SimulateConfig struct {
	RPCURL       string
	Pool         string
	Swaps        int
	Interval     time.Duration
	GasSource    string
	BaseFee      uint32
	MaxFee       uint32
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadSimulate merges config file, environment variables, and flags into
// SimulateConfig.
func LoadSimulate(cfgFile string, flags *pflag.FlagSet) (SimulateConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"swaps":         10,
		"interval":      3 * time.Second,
		"gas-source":    "suggest",
		"base-fee":      uint32(3000),
		"max-fee":       uint32(1_000_000),
		"max-retries":   5,
		"retry-backoff": 500 * time.Millisecond,
		"log-level":     "info",
	})
	if err != nil {
		return SimulateConfig{}, err
	}

	cfg := SimulateConfig{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		Swaps:        v.GetInt("swaps"),
		Interval:     v.GetDuration("interval"),
		GasSource:    v.GetString("gas-source"),
		BaseFee:      v.GetUint32("base-fee"),
		MaxFee:       v.GetUint32("max-fee"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
