package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sethgrid/pester"
	"github.com/stretchr/testify/require"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/scheduler/pool"
	"github.com/benchly/dispatch/store"
	"github.com/benchly/dispatch/workerapi/client"
	"github.com/benchly/dispatch/workerapi/server"
)

const gb = int64(1000 * 1000 * 1000)

var t0 = time.Unix(1500000000, 0)

// harness wires a Dispatcher to an in-memory store, simulated contacts and a
// manual executor, on a clock tests move by hand.
type harness struct {
	t     *testing.T
	ctx   context.Context
	store *store.MemoryStore
	exec  *pool.Manual
	stat  stats.StatsReceiver
	disp  *Dispatcher
	now   time.Time

	servers []*httptest.Server
}

func noWaitPester(tries int) *pester.Client {
	c := client.MakePesterClient(tries, time.Second)
	c.Backoff = func(int) time.Duration { return 0 }
	return c
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:     t,
		ctx:   context.Background(),
		store: store.NewMemoryStore(),
		exec:  pool.NewManual(),
		stat:  stats.DefaultStatsReceiver(),
		now:   t0,
	}
	cl := client.NewCustomHTTPClient(noWaitPester(2), noWaitPester(1), nil, h.stat)
	h.disp = NewDispatcher(Config{DeleteDataTries: 1}, h.store, cl, h.exec, h.stat)
	h.disp.SetClock(func() time.Time { return h.now })
	t.Cleanup(func() {
		for _, s := range h.servers {
			s.Close()
		}
	})
	return h
}

func (h *harness) counter(name string) int64 {
	return h.stat.Scope("dispatcher").Counter(name).Count()
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

// serve starts a simulated contact and returns its endpoint.
func (h *harness) serve(name string, memory int64) (*server.Contact, string) {
	sim := server.NewContact(name, memory, nil)
	sim.SetClock(func() time.Time { return h.now })
	ts := httptest.NewServer(sim)
	h.servers = append(h.servers, ts)
	return sim, ts.URL
}

// addContact registers a simulated contact with the given advertised load.
// It counts as freshly checked so the contact watcher leaves it alone.
func (h *harness) addContact(name string, memory int64, running int) (*server.Contact, *domain.Contact) {
	sim, endpoint := h.serve(name, memory)
	checked := h.now
	contact := &domain.Contact{
		Name:                    name,
		Endpoint:                endpoint,
		ApproximateUsableMemory: memory,
		ApproximateRunningJobs:  running,
		LastChecked:             &checked,
	}
	require.NoError(h.t, h.store.CreateContact(h.ctx, contact))
	return sim, contact
}

func (h *harness) createJob(memory int64) *domain.Job {
	wf, err := h.store.CreateWorkflow(h.ctx, 1, `{"steps":[]}`)
	require.NoError(h.t, err)
	job := &domain.Job{OwnerID: 1, WorkflowID: wf, EstimatedTime: 60, EstimatedMemory: memory}
	require.NoError(h.t, h.disp.CreateJob(h.ctx, job))
	return job
}

func (h *harness) job(id int64) *domain.Job {
	job, err := h.store.GetJob(h.ctx, id)
	require.NoError(h.t, err)
	return job
}

func (h *harness) contact(id int64) *domain.Contact {
	c, err := h.store.GetContact(h.ctx, id)
	require.NoError(h.t, err)
	return c
}

func (h *harness) messages(jobID int64) []string {
	msgs, err := h.store.ListJobMessages(h.ctx, jobID)
	require.NoError(h.t, err)
	out := []string{}
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out
}

// tick runs one tick of the named loop and every task it queued.
func (h *harness) tick(loop int) int {
	h.disp.Loops()[loop].Tick(h.ctx)
	return h.exec.RunPending(h.ctx)
}

const (
	jobSchedulerLoop = iota
	jobWatcherLoop
	contactWatcherLoop
	reportPrunerLoop
)

// submitted places a new job on contact through a scheduler tick.
func (h *harness) submitted(memory int64, contact *domain.Contact) *domain.Job {
	job := h.createJob(memory)
	h.tick(jobSchedulerLoop)
	job = h.job(job.ID)
	require.Equal(h.t, domain.Submitted, job.State)
	require.Equal(h.t, contact.ID, job.ExecutingContactID)
	return job
}
