package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_RunsImmediatelyAndOnTicks(t *testing.T) {
	var runs atomic.Int32

	p := New("test", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	p.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	p.Stop()

	// One immediate run plus at least two ticks.
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestPoller_StopHaltsFurtherTicks(t *testing.T) {
	var runs atomic.Int32

	p := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	p.Start(context.Background())
	time.Sleep(25 * time.Millisecond)
	p.Stop()

	after := runs.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestPoller_TaskErrorDoesNotStopLoop(t *testing.T) {
	var runs atomic.Int32

	p := New("test", 15*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return assert.AnError
	})

	p.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}
