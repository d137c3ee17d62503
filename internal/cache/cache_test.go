package cache

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/frame"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(last float64) *frame.Table {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)}
	return frame.MustNew(idx, []string{"x"}, [][]float64{{1, math.NaN(), last}})
}

func testReport(t *testing.T) *gaps.Report {
	t.Helper()
	r, err := gaps.Analyze(context.Background(), testTable(3), gaps.Options{Window: 2})
	require.NoError(t, err)
	return r
}

func TestKey(t *testing.T) {
	k1, err := Key(testTable(3), 20, "mask")
	require.NoError(t, err)
	assert.Len(t, k1, 64)

	same, _ := Key(testTable(3), 20, "mask")
	assert.Equal(t, k1, same, "key is deterministic")

	for name, other := range map[string]func() (string, error){
		"value":  func() (string, error) { return Key(testTable(4), 20, "mask") },
		"window": func() (string, error) { return Key(testTable(3), 21, "mask") },
		"mode":   func() (string, error) { return Key(testTable(3), 20, "percentage") },
	} {
		k, err := other()
		require.NoError(t, err)
		assert.NotEqual(t, k1, k, "changing %s must change the key", name)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	report := testReport(t)
	require.NoError(t, c.Set(ctx, "k", report))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, report, got)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry expires after ttl")
	assert.Zero(t, c.Len())
}

func TestMemoryCache_NoTTL(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", testReport(t)))
	c.now = func() time.Time { return time.Now().AddDate(10, 0, 0) }

	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, c.Close())
	assert.Zero(t, c.Len())
}

func TestNew(t *testing.T) {
	c, err := New(config.CacheConfig{}, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	c, err = New(config.CacheConfig{Type: "memory", TTL: time.Second}, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(config.CacheConfig{Type: "memcached"}, logging.Nop())
	assert.Error(t, err)

	_, err = New(config.CacheConfig{Type: "redis", URL: "redis://127.0.0.1:1"}, logging.Nop())
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var c Nop
	require.NoError(t, c.Set(context.Background(), "k", testReport(t)))
	_, ok, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379"
	}
	c, err := NewRedisCache(config.CacheConfig{
		URL:         url,
		TTL:         time.Minute,
		Prefix:      "test-gapscan",
		Compression: "snappy",
	}, logging.Nop())
	if err != nil {
		t.Skip("Redis not available, skipping test")
	}
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	key, err := Key(testTable(3), 2, "report")
	require.NoError(t, err)
	defer c.client.Del(ctx, c.key(key))

	report := testReport(t)
	require.NoError(t, c.Set(ctx, key, report))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, report.Rows, got.Rows)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, report.Columns[0].Runs[0].Length, got.Columns[0].Runs[0].Length)
	assert.Equal(t, *report.Columns[0].MissingPercentage, *got.Columns[0].MissingPercentage)

	// corrupt entries are treated as misses
	require.NoError(t, c.client.Set(ctx, c.key(key), []byte{0x7f, 1, 2}, time.Minute).Err())
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisCache_BadCompression(t *testing.T) {
	_, err := NewRedisCache(config.CacheConfig{URL: "redis://localhost:6379", Compression: "lz4"}, logging.Nop())
	assert.Error(t, err)
}
