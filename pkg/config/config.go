// Copyright 2025 Certen Protocol
//
// Package config loads the lineage ledger's runtime configuration:
// hardcoded defaults, overlaid by an optional YAML file (with
// ${VAR_NAME} / ${VAR_NAME:-default} environment variable
// substitution), overlaid in turn by environment-variable overrides,
// which take precedence over the YAML values.

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/certen/lineage-ledger/pkg/ledger"
)

// Config is the lineage ledger's runtime configuration.
type Config struct {
	Environment string `yaml:"environment"`

	Store      StoreSettings      `yaml:"store"`
	Monitoring MonitoringSettings `yaml:"monitoring"`
}

// StoreSettings configures the durable lineage log.
type StoreSettings struct {
	DataDir        string `yaml:"data_dir"`
	DBName         string `yaml:"db_name"`
	FlushBatchSize int    `yaml:"flush_batch_size"`
}

// MonitoringSettings configures observability of the verifier.
type MonitoringSettings struct {
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns the configuration a driver gets with no config file
// and no environment overrides.
func Default() *Config {
	return &Config{
		Environment: "development",
		Store: StoreSettings{
			DataDir:        ".",
			DBName:         "poc_integrity",
			FlushBatchSize: ledger.DefaultFlushBatchSize,
		},
		Monitoring: MonitoringSettings{
			MetricsEnabled: true,
			LogLevel:       "info",
		},
	}
}

// Load reads and parses a YAML config file at path, substituting
// environment variables, then layers environment-variable overrides on
// top, falling back to Default() for anything unset.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		expanded := substituteEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Store.DataDir == "" {
		cfg.Store.DataDir = "."
	}
	if cfg.Store.DBName == "" {
		cfg.Store.DBName = "poc_integrity"
	}
	if cfg.Store.FlushBatchSize <= 0 {
		cfg.Store.FlushBatchSize = ledger.DefaultFlushBatchSize
	}
	if cfg.Monitoring.LogLevel == "" {
		cfg.Monitoring.LogLevel = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEDGER_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("LEDGER_DB_NAME"); v != "" {
		cfg.Store.DBName = v
	}
	if v := os.Getenv("LEDGER_FLUSH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.FlushBatchSize = n
		}
	}
	if v := os.Getenv("LEDGER_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Monitoring.MetricsEnabled = b
		}
	}
	if v := os.Getenv("LEDGER_LOG_LEVEL"); v != "" {
		cfg.Monitoring.LogLevel = v
	}
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
