package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/scheduler/pool"
	"github.com/benchly/dispatch/workerapi"
)

func TestUpdateRemoteFailureEndsJob(t *testing.T) {
	h := newHarness(t)
	sim, contact := h.addContact("A", 4*gb, 0)
	job := h.submitted(gb, contact)

	endedAt := t0.Add(30 * time.Second).Unix()
	require.NoError(t, sim.Finish(job.ID, true, endedAt))
	sim.SetDeleteFailure(http.StatusInternalServerError)

	h.advance(time.Minute)
	assert.Equal(t, 1, h.tick(jobWatcherLoop))

	job = h.job(job.ID)
	assert.Equal(t, domain.Failed, job.State)
	require.NotNil(t, job.EndedAt)
	assert.Equal(t, time.Unix(endedAt, 0), *job.EndedAt)
	require.NotNil(t, job.LastChecked)
	assert.Equal(t, h.now, *job.LastChecked)
	assert.Equal(t, contact.ID, job.ExecutingContactID)

	// Issued even though it fails, with the idempotent client's retries.
	assert.Equal(t, 2, sim.Requests("DELETE jobs/{id}"))
	assert.EqualValues(t, 1, h.counter(stats.SchedDeleteJobDataErrCounter))
	assert.EqualValues(t, 1, h.counter(stats.SchedJobFailedCounter))

	// Ended jobs are no longer watched.
	h.advance(time.Hour)
	assert.Equal(t, 0, h.tick(jobWatcherLoop))
}

func TestUpdateRemoteSuccessReleasesData(t *testing.T) {
	h := newHarness(t)
	sim, contact := h.addContact("A", 4*gb, 0)
	job := h.submitted(gb, contact)

	require.NoError(t, sim.Finish(job.ID, false, t0.Add(time.Second).Unix()))
	h.tick(jobWatcherLoop)

	job = h.job(job.ID)
	assert.Equal(t, domain.Succeeded, job.State)
	assert.Equal(t, t0.Add(time.Second), *job.EndedAt)
	assert.Equal(t, 1, sim.Requests("DELETE jobs/{id}"))
	assert.Empty(t, sim.Jobs())
	assert.EqualValues(t, 0, h.counter(stats.SchedDeleteJobDataErrCounter))
}

func TestUpdateImportsEventsOnce(t *testing.T) {
	h := newHarness(t)
	sim, contact := h.addContact("A", 4*gb, 0)
	job := h.submitted(gb, contact)

	require.NoError(t, sim.AddEvent(job.ID, workerapi.Event{ID: "ev-1", Message: "started", RecordedAt: t0.Unix()}))
	h.tick(jobWatcherLoop)

	// Still running, picked again once stale.
	job = h.job(job.ID)
	assert.Equal(t, domain.Submitted, job.State)
	assert.Nil(t, job.EndedAt)
	assert.Equal(t, h.now, *job.LastChecked)
	assert.Equal(t, 0, h.tick(jobWatcherLoop))

	require.NoError(t, sim.AddEvent(job.ID, workerapi.Event{ID: "ev-2", Message: "halfway", RecordedAt: t0.Unix() + 5}))
	h.advance(DefaultJobCheckThreshold)
	assert.Equal(t, 1, h.tick(jobWatcherLoop))

	msgs, err := h.store.ListJobMessages(h.ctx, job.ID)
	require.NoError(t, err)
	imported := map[string]int{}
	for _, m := range msgs {
		if m.OriginContactID != 0 {
			imported[m.ID]++
			assert.Equal(t, contact.ID, m.OriginContactID)
			assert.Equal(t, job.WorkflowID, m.WorkflowID)
		}
	}
	assert.Equal(t, map[string]int{"ev-1": 1, "ev-2": 1}, imported)
	assert.EqualValues(t, 2, h.counter(stats.SchedJobMessagesImportedCounter))
}

func TestUpdateRemoteErrorOnlyStampsLastChecked(t *testing.T) {
	h := newHarness(t)
	sim, contact := h.addContact("A", 4*gb, 0)
	job := h.submitted(gb, contact)
	sim.SetFetchFailure(http.StatusBadGateway)

	h.advance(time.Second)
	h.tick(jobWatcherLoop)

	job = h.job(job.ID)
	assert.Equal(t, domain.Submitted, job.State)
	assert.Equal(t, h.now, *job.LastChecked)
	assert.EqualValues(t, 1, h.counter(stats.SchedUpdateRemoteErrCounter))
	// Not picked again until the threshold passes.
	h.advance(time.Second)
	assert.Equal(t, 0, h.tick(jobWatcherLoop))
	// Logged only, no message for the owner.
	assert.Len(t, h.messages(job.ID), 1)
}

// failingDeleteClient counts DeleteJobData calls, all of which fail.
type failingDeleteClient struct {
	refusingClient
	deletes int32
}

func (c *failingDeleteClient) DeleteJobData(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error) {
	atomic.AddInt32(&c.deletes, 1)
	return nil, workerapi.NewServerAccessError(http.StatusServiceUnavailable, "Disk busy")
}

func TestDeleteJobDataSingleTryGivesUp(t *testing.T) {
	cl := &failingDeleteClient{}
	stat := stats.DefaultStatsReceiver()
	d := &deps{client: cl, exec: pool.NewManual(), stat: stat,
		now: func() time.Time { return t0 }, config: Config{DeleteDataTries: 1}.WithDefaults()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.newUpdateTask(1).deleteJobData(context.Background(), &domain.Contact{ID: 1, Endpoint: "http://a"}, &domain.Job{ID: 1})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delete kept retrying past its single try")
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&cl.deletes))
	assert.EqualValues(t, 1, stat.Counter(stats.SchedDeleteJobDataErrCounter).Count())
}

func TestDeleteDataBackOffIsBounded(t *testing.T) {
	for tries := 0; tries <= 4; tries++ {
		b := deleteDataBackOff(tries)
		retries := 0
		for b.NextBackOff() != backoff.Stop {
			retries++
			require.True(t, retries < 10, "tries=%d never stops", tries)
		}
		expected := tries - 1
		if expected < 0 {
			expected = 0
		}
		assert.Equal(t, expected, retries, "tries=%d", tries)
	}
}
