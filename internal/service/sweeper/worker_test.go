package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) SweepTimeouts(context.Context) int {
	c.calls.Add(1)
	return 1
}

func TestWorker_TicksUntilCancelled(t *testing.T) {
	engine := &countingSweeper{}
	w := NewWorker(engine, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return engine.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNewWorker_DefaultInterval(t *testing.T) {
	w := NewWorker(&countingSweeper{}, 0, zap.NewNop())

	assert.Equal(t, 250*time.Millisecond, w.interval)
}
