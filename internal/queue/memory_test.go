package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	q := newMemoryQueue(logging.Nop())
	defer func() { _ = q.Close() }()

	received := make(chan string, 3)
	require.NoError(t, q.Subscribe("gapscan.jobs", func(ctx context.Context, data []byte) error {
		received <- string(data)
		return nil
	}))

	for _, m := range []string{"a", "b", "c"} {
		require.NoError(t, q.Publish(context.Background(), "gapscan.jobs", []byte(m)))
	}

	for _, want := range []string{"a", "b", "c"} {
		select {
		case got := <-received:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for %q", want)
		}
	}
}

func TestMemoryQueue_PublishCopiesData(t *testing.T) {
	q := newMemoryQueue(logging.Nop())
	defer func() { _ = q.Close() }()

	data := []byte("report")
	require.NoError(t, q.Publish(context.Background(), "s", data))
	data[0] = 'X'

	got := make(chan []byte, 1)
	require.NoError(t, q.Subscribe("s", func(ctx context.Context, d []byte) error {
		got <- d
		return nil
	}))

	select {
	case d := <-got:
		assert.Equal(t, "report", string(d))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
}

func TestMemoryQueue_HandlerErrorKeepsConsuming(t *testing.T) {
	q := newMemoryQueue(logging.Nop())
	defer func() { _ = q.Close() }()

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})
	require.NoError(t, q.Subscribe("s", func(ctx context.Context, d []byte) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(d))
		if len(seen) == 2 {
			close(done)
		}
		return errors.New("boom")
	}))

	require.NoError(t, q.Publish(context.Background(), "s", []byte("1")))
	require.NoError(t, q.Publish(context.Background(), "s", []byte("2")))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
	mu.Lock()
	assert.Equal(t, []string{"1", "2"}, seen)
	mu.Unlock()
}

func TestMemoryQueue_Errors(t *testing.T) {
	q := newMemoryQueue(logging.Nop())

	noop := func(context.Context, []byte) error { return nil }
	require.NoError(t, q.Subscribe("s", noop))
	assert.Error(t, q.Subscribe("s", noop), "double subscribe")
	assert.Error(t, q.Unsubscribe("other"), "unsubscribe unknown subject")
	assert.NoError(t, q.Unsubscribe("s"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Publish(ctx, "s", []byte("x")), context.Canceled)

	require.NoError(t, q.Close())
	assert.NoError(t, q.Close(), "close is idempotent")
	assert.Error(t, q.Publish(context.Background(), "s", []byte("x")))
	assert.Error(t, q.Subscribe("s", noop))
}

func TestMemoryQueue_Full(t *testing.T) {
	q := newMemoryQueue(logging.Nop())
	defer func() { _ = q.Close() }()

	for i := 0; i < memoryQueueCapacity; i++ {
		require.NoError(t, q.Publish(context.Background(), "s", []byte{byte(i)}))
	}
	assert.Equal(t, memoryQueueCapacity, q.Pending("s"))
	assert.Error(t, q.Publish(context.Background(), "s", []byte("overflow")))
	assert.Zero(t, q.Pending("unknown"))
}
