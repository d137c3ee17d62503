package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`       // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort  int    `mapstructure:"http_port"`  // HTTP server port
	BodyLimit int    `mapstructure:"body_limit"` // Max request body in bytes
}

// AnalysisConfig holds the defaults applied to gap analysis requests
type AnalysisConfig struct {
	WindowLength int    `mapstructure:"window_length"` // Trailing window, in rows
	OutputMode   string `mapstructure:"output_mode"`   // mask or percentage
	Workers      int    `mapstructure:"workers"`       // Columns analyzed concurrently (0 = GOMAXPROCS)
	MaxRows      int    `mapstructure:"max_rows"`      // Largest accepted table
	Timezone     string `mapstructure:"timezone"`      // Zone for index labels without offset (e.g., "Asia/Tokyo", "+09:00")
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Enabled  bool   `mapstructure:"enabled"`  // Publish reports and accept jobs
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "gapscan")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "gapscan-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID

	JobSubject    string `mapstructure:"job_subject"`    // Subject workers consume jobs from
	ReportSubject string `mapstructure:"report_subject"` // Subject finished reports go to
}

// CacheConfig represents the report cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // none (default), memory, redis
	URL      string        `mapstructure:"url"`  // Redis URL
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"` // Key prefix (default: "gapscan:report")

	Compression string `mapstructure:"compression"` // none or snappy (default)
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.WindowLength < 1 {
		return fmt.Errorf("analysis.window_length must be at least 1")
	}

	if c.OutputMode != "mask" && c.OutputMode != "percentage" {
		return fmt.Errorf("analysis.output_mode must be 'mask' or 'percentage'")
	}

	if c.Workers < 0 {
		return fmt.Errorf("analysis.workers cannot be negative")
	}

	if c.MaxRows < 0 {
		return fmt.Errorf("analysis.max_rows cannot be negative")
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.Type {
	case "", "nats", "redis", "memory":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("queue.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}

	if c.JobSubject == "" || c.ReportSubject == "" {
		return fmt.Errorf("queue.job_subject and queue.report_subject are required")
	}

	if c.JobSubject == c.ReportSubject {
		return fmt.Errorf("queue.job_subject and queue.report_subject cannot be the same")
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "", "none", "memory":
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis")
		}
	default:
		return fmt.Errorf("cache.type must be one of: none, memory, redis")
	}

	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}

	if c.Compression != "" && c.Compression != "none" && c.Compression != "snappy" {
		return fmt.Errorf("cache.compression must be 'none' or 'snappy'")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
