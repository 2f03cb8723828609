package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerSkipsTicksWhileJobRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	sched := New(10 * time.Millisecond)
	sched.Start(context.Background(), func(ctx context.Context) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
	})
	defer sched.Stop()

	<-started
	// Several ticks elapse while the first run is blocked.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "ticks during a running job are skipped, not queued")

	close(release)
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond,
		"ticking resumes once the job finishes")
}

func TestSchedulerStopHaltsRuns(t *testing.T) {
	var calls atomic.Int32

	sched := New(5 * time.Millisecond)
	sched.Start(context.Background(), func(ctx context.Context) { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	sched.Stop()
	sched.Stop()

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	// At most one run can already be in flight when Stop lands.
	assert.LessOrEqual(t, calls.Load(), after+1)

	// A stopped scheduler does not restart.
	sched.Start(context.Background(), func(ctx context.Context) { calls.Add(1) })
	final := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), final+1)
}

func TestSchedulerIgnoresBadConfig(t *testing.T) {
	var calls atomic.Int32

	New(0).Start(context.Background(), func(ctx context.Context) { calls.Add(1) })
	New(time.Millisecond).Start(context.Background(), nil)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	sched := New(5 * time.Millisecond)
	sched.Start(ctx, func(ctx context.Context) { calls.Add(1) })
	defer sched.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), after+1)
}
