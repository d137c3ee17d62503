package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/compression"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/logging"
)

// RedisCache stores reports as compressed JSON with a TTL
type RedisCache struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	compressor compression.Compressor
	logger     *logging.Logger
}

// NewRedisCache connects to cfg.URL and verifies the connection
func NewRedisCache(cfg config.CacheConfig, logger *logging.Logger) (*RedisCache, error) {
	algo, err := compression.ParseAlgorithm(cfg.Compression)
	if err != nil {
		return nil, err
	}
	compressor, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.URL}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "gapscan:report"
	}

	return &RedisCache{
		client:     client,
		prefix:     prefix,
		ttl:        cfg.TTL,
		compressor: compressor,
		logger:     logger,
	}, nil
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get fetches and decodes the report stored under key
func (c *RedisCache) Get(ctx context.Context, key string) (*gaps.Report, bool, error) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	data, err := compression.Unpack(payload)
	if err != nil {
		c.logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		c.client.Del(ctx, c.key(key))
		return nil, false, nil
	}

	var report gaps.Report
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		c.client.Del(ctx, c.key(key))
		return nil, false, nil
	}
	return &report, true, nil
}

// Set encodes and stores report under key
func (c *RedisCache) Set(ctx context.Context, key string, report *gaps.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	payload, err := compression.Pack(c.compressor, data)
	if err != nil {
		return fmt.Errorf("cache compress: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	c.logger.Debug("Report cached", "key", key, "raw_bytes", len(data), "stored_bytes", len(payload))
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
