// Package cache stores finished gap reports keyed by their input.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/frame"
	"github.com/soltixdb/gapscan/internal/logging"
)

// ReportCache stores reports by key. A miss is (nil, false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string) (*gaps.Report, bool, error)
	Set(ctx context.Context, key string, report *gaps.Report) error
	Close() error
}

// Key derives the cache key of an analysis: a SHA-256 over the table's
// JSON encoding, the window length and the output mode.
func Key(t *frame.Table, window int, mode string) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode table: %w", err)
	}

	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(window)))
	h.Write([]byte{0})
	h.Write([]byte(mode))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// New builds the cache selected by cfg.Type. "none" and "" yield a
// cache that never hits.
func New(cfg config.CacheConfig, logger *logging.Logger) (ReportCache, error) {
	if logger == nil {
		logger = logging.Global()
	}
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemoryCache(cfg.TTL), nil
	case "redis":
		return NewRedisCache(cfg, logger.Component("cache"))
	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: none, memory, redis)", cfg.Type)
	}
}

// Nop is a ReportCache that stores nothing
type Nop struct{}

func (Nop) Get(context.Context, string) (*gaps.Report, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, *gaps.Report) error         { return nil }
func (Nop) Close() error                                            { return nil }
