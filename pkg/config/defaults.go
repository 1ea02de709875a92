package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced with defaults; explicit values are
// preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applySampleDefaults(&cfg.Sample)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Addr == "" {
		cfg.Addr = ":9090"
	}
}

// applySampleDefaults sets sample-command defaults.
func applySampleDefaults(cfg *SampleConfig) {
	if cfg.RadianceKiB == 0 {
		cfg.RadianceKiB = 4096
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
}

// GetDefaultConfig returns a Config struct with all default values
// applied.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
