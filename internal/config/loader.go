package config

import (
	"fmt"
	"strings"

	"github.com/soltixdb/gapscan/internal/utils"
	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")            // Current directory
		v.AddConfigPath("./configs")    // Project configs directory
		v.AddConfigPath("/etc/gapscan") // System-wide config
	}

	setDefaults(v)

	// Environment overrides, e.g. GAPSCAN_ANALYSIS_WINDOW_LENGTH=60
	v.SetEnvPrefix("GAPSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("analysis.window_length", d.Analysis.WindowLength)
	v.SetDefault("analysis.output_mode", d.Analysis.OutputMode)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.max_rows", d.Analysis.MaxRows)
	v.SetDefault("analysis.timezone", d.Analysis.Timezone)

	v.SetDefault("queue.enabled", d.Queue.Enabled)
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.job_subject", d.Queue.JobSubject)
	v.SetDefault("queue.report_subject", d.Queue.ReportSubject)

	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.compression", d.Cache.Compression)

	v.SetDefault("auth.enabled", d.Auth.Enabled)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			HTTPPort:  5580,
			BodyLimit: 64 * 1024 * 1024,
		},
		Analysis: AnalysisConfig{
			WindowLength: utils.DefaultWindowLength,
			OutputMode:   "mask",
			Workers:      0,
			MaxRows:      utils.DefaultMaxRows,
			Timezone:     "UTC",
		},
		Queue: QueueConfig{
			Enabled:       false,
			Type:          "nats",
			URL:           "nats://localhost:4222",
			JobSubject:    utils.SubjectJobs,
			ReportSubject: utils.SubjectReports,
		},
		Cache: CacheConfig{
			Type:        "none",
			TTL:         utils.DefaultReportTTL,
			Prefix:      "gapscan:report",
			Compression: "snappy",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
