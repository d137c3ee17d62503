package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name:    "zero window length",
			mutate:  func(c *Config) { c.Analysis.WindowLength = 0 },
			wantErr: true,
		},
		{
			name:    "unknown output mode",
			mutate:  func(c *Config) { c.Analysis.OutputMode = "ratio" },
			wantErr: true,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Analysis.Workers = -1 },
			wantErr: true,
		},
		{
			name: "kafka without brokers",
			mutate: func(c *Config) {
				c.Queue.Enabled = true
				c.Queue.Type = "kafka"
			},
			wantErr: true,
		},
		{
			name: "same job and report subject",
			mutate: func(c *Config) {
				c.Queue.Enabled = true
				c.Queue.ReportSubject = c.Queue.JobSubject
			},
			wantErr: true,
		},
		{
			name: "disabled queue is not validated",
			mutate: func(c *Config) {
				c.Queue.Type = "carrier-pigeon"
			},
			wantErr: false,
		},
		{
			name:    "redis cache without url",
			mutate:  func(c *Config) { c.Cache.Type = "redis" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 5580 {
		t.Errorf("expected HTTPPort 5580, got %d", cfg.Server.HTTPPort)
	}

	if cfg.Analysis.WindowLength != 20 {
		t.Errorf("expected WindowLength 20, got %d", cfg.Analysis.WindowLength)
	}

	if cfg.Analysis.OutputMode != "mask" {
		t.Errorf("expected OutputMode mask, got %s", cfg.Analysis.OutputMode)
	}

	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected cache TTL 1h, got %v", cfg.Cache.TTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.IsProduction() {
		t.Error("default config should be production mode")
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"

	if !cfg.IsDevelopment() {
		t.Error("config with debug/console should be development mode")
	}

	if addr := cfg.GetServerAddress(); addr != "0.0.0.0:5580" {
		t.Errorf("expected '0.0.0.0:5580', got %s", addr)
	}
}

func TestGetLocation(t *testing.T) {
	tests := []struct {
		timezone   string
		wantOffset int
	}{
		{"", 0},
		{"UTC", 0},
		{"+09:00", 9 * 3600},
		{"-05:30", -(5*3600 + 30*60)},
		{"not/a/zone", 0},
	}

	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			c := AnalysisConfig{Timezone: tt.timezone}
			_, offset := ref.In(c.GetLocation()).Zone()
			if offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gapscan.yaml")
	yaml := `
server:
  http_port: 6000
analysis:
  window_length: 60
  output_mode: percentage
cache:
  type: memory
  ttl: 10m
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPPort != 6000 {
		t.Errorf("expected HTTPPort 6000, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Analysis.WindowLength != 60 || cfg.Analysis.OutputMode != "percentage" {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Cache.Type != "memory" || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// untouched sections keep defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gapscan.yaml")
	if err := os.WriteFile(path, []byte("analysis:\n  window_length: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GAPSCAN_ANALYSIS_WINDOW_LENGTH", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analysis.WindowLength != 30 {
		t.Errorf("expected env override 30, got %d", cfg.Analysis.WindowLength)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gapscan.yaml")
	if err := os.WriteFile(path, []byte("analysis:\n  window_length: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
	if cfg := LoadOrDefault(path); cfg.Analysis.WindowLength != 20 {
		t.Errorf("LoadOrDefault should fall back to defaults, got %d", cfg.Analysis.WindowLength)
	}
}
