package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchly/dispatch/common/stats"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(2, nil)
	var running, peak int32
	var done sync.WaitGroup
	release := make(chan struct{})

	for i := 0; i < 6; i++ {
		done.Add(1)
		p.Submit(func(ctx context.Context) {
			defer done.Done()
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
		})
	}
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 2, atomic.LoadInt32(&running))
	close(release)
	done.Wait()
	assert.EqualValues(t, 2, atomic.LoadInt32(&peak))
	p.Close()
}

func TestPoolRecoversPanics(t *testing.T) {
	stat := stats.DefaultStatsReceiver()
	p := NewPool(1, stat)
	panics := stat.Scope("pool").Counter(stats.PoolTaskPanicCounter)
	p.Submit(func(ctx context.Context) { panic("boom") })
	require.Eventually(t, func() bool { return panics.Count() == 1 }, time.Second, time.Millisecond)

	ran := make(chan struct{})
	p.Submit(func(ctx context.Context) { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task after panic never ran")
	}
	p.Close()
	assert.EqualValues(t, 1, panics.Count())
}

func TestPoolScheduleDelays(t *testing.T) {
	p := NewPool(1, nil)
	start := time.Now()
	ran := make(chan time.Duration, 1)
	p.Schedule(func(ctx context.Context) { ran <- time.Since(start) }, 30*time.Millisecond)

	select {
	case elapsed := <-ran:
		assert.True(t, elapsed >= 30*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("delayed task never ran")
	}
	p.Close()
}

func TestPoolCloseDropsDelayedTasks(t *testing.T) {
	p := NewPool(1, nil)
	var ran int32
	p.Schedule(func(ctx context.Context) { atomic.StoreInt32(&ran, 1) }, time.Hour)
	p.Close()
	p.Submit(func(ctx context.Context) { atomic.StoreInt32(&ran, 1) })
	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&ran))
}

func TestManualRunsInOrder(t *testing.T) {
	m := NewManual()
	order := []int{}
	m.Submit(func(ctx context.Context) {
		order = append(order, 1)
		m.Schedule(func(ctx context.Context) { order = append(order, 3) }, time.Second)
	})
	m.Schedule(func(ctx context.Context) { order = append(order, 2) }, 500*time.Millisecond)
	require.Equal(t, 2, m.Pending())

	assert.Equal(t, 3, m.RunPending(context.Background()))
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, []time.Duration{0, 500 * time.Millisecond, time.Second}, m.Delays())
	assert.Equal(t, 0, m.Pending())
}
