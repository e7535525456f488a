// Package pool runs fire-and-forget tasks with bounded concurrency.
package pool

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/benchly/dispatch/common/stats"
)

const DefaultSize = 50

// Task is a unit of work. Tasks handle their own errors.
type Task func(ctx context.Context)

// Executor is injected wherever tasks are spawned. Neither method blocks
// on the task itself.
type Executor interface {
	Submit(task Task)
	// Schedule runs task once delay has elapsed.
	Schedule(task Task, delay time.Duration)
}

// Pool queues tasks without bound but runs at most size at once.
// Panics are recovered and logged.
type Pool struct {
	sem  *semaphore.Weighted
	quit context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
	stat stats.StatsReceiver

	mu      sync.Mutex
	closed  bool
	running int64
}

var _ Executor = (*Pool)(nil)

func NewPool(size int, stat stats.StatsReceiver) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	quit, stop := context.WithCancel(context.Background())
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		quit: quit,
		stop: stop,
		stat: stat.Scope("pool"),
	}
}

func (p *Pool) Submit(task Task) {
	p.Schedule(task, 0)
}

func (p *Pool) Schedule(task Task, delay time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		log.Warn("Pool is closed, dropping task")
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-p.quit.Done():
				timer.Stop()
				return
			}
		}
		if err := p.sem.Acquire(p.quit, 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		p.run(task)
	}()
}

func (p *Pool) run(task Task) {
	p.stat.Gauge(stats.PoolRunningTasksGauge).Update(atomic.AddInt64(&p.running, 1))
	defer func() {
		p.stat.Gauge(stats.PoolRunningTasksGauge).Update(atomic.AddInt64(&p.running, -1))
		if r := recover(); r != nil {
			p.stat.Counter(stats.PoolTaskPanicCounter).Inc(1)
			log.WithFields(log.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Task panicked")
		}
	}()
	// Running tasks are left to finish on Close, so they never see quit.
	task(context.Background())
}

// Close drops delayed and queued tasks and waits for running ones.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.stop()
	p.wg.Wait()
}

// Manual is an Executor for tests: nothing runs until RunPending.
type Manual struct {
	mu      sync.Mutex
	pending []Task
	delays  []time.Duration
}

var _ Executor = (*Manual)(nil)

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Submit(task Task) {
	m.Schedule(task, 0)
}

// Schedule ignores the delay apart from recording it.
func (m *Manual) Schedule(task Task, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, task)
	m.delays = append(m.delays, delay)
}

// RunPending runs queued tasks in order, including those they queue, and
// returns how many ran.
func (m *Manual) RunPending(ctx context.Context) int {
	ran := 0
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return ran
		}
		task := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		task(ctx)
		ran++
	}
}

func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Delays returns the delay of every task ever scheduled, in order.
func (m *Manual) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.delays...)
}
