package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "DEBUG"
sample:
  radiance_kib: 8192
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected default format text, got %q", cfg.Logging.Format)
	}
	if cfg.Sample.RadianceKiB != 8192 {
		t.Errorf("expected radiance_kib 8192, got %d", cfg.Sample.RadianceKiB)
	}
	if cfg.Sample.Timeout != 5*time.Minute {
		t.Errorf("expected default sample timeout 5m, got %v", cfg.Sample.Timeout)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected default level INFO, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "VERBOSE"
	if err := Validate(cfg); err == nil {
		t.Error("expected validation error for invalid log level")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := GetDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("expected default config to validate, got: %v", err)
	}
}

func TestApplyMetricsDefaultsOnlyWhenEnabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Metrics.Addr != "" {
		t.Errorf("expected no metrics addr default when disabled, got %q", cfg.Metrics.Addr)
	}

	cfg2 := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg2)
	if cfg2.Metrics.Addr != ":9090" {
		t.Errorf("expected default metrics addr :9090, got %q", cfg2.Metrics.Addr)
	}
}
