package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ReplayConfig holds configuration for the replay command.
type ReplayConfig struct {
	Input     string
	Out       string
	PGDSN     string
	BatchSize int
	StateFile string
	BaseFee   uint32
	MaxFee    uint32
	LogLevel  string
}

// LoadReplay merges config file, environment variables, and flags into
// ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":        "./data/decisions.jsonl",
		"batch-size": 1000,
		"base-fee":   uint32(3000),
		"max-fee":    uint32(1_000_000),
		"log-level":  "info",
	})
	if err != nil {
		return ReplayConfig{}, err
	}

	cfg := ReplayConfig{
		Input:     v.GetString("in"),
		Out:       v.GetString("out"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		StateFile: v.GetString("state-file"),
		BaseFee:   v.GetUint32("base-fee"),
		MaxFee:    v.GetUint32("max-fee"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("FEESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

// ValidateFees checks the fee policy bounds shared by both commands.
func ValidateFees(baseFee, maxFee uint32, feeCeiling uint32) error {
	if maxFee == 0 || maxFee > feeCeiling {
		return fmt.Errorf("max-fee must be in (0, %d]", feeCeiling)
	}
	if baseFee == 0 || baseFee > maxFee {
		return fmt.Errorf("base-fee must be in (0, max-fee]")
	}
	return nil
}
