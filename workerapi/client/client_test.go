package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sethgrid/pester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/workerapi"
	"github.com/benchly/dispatch/workerapi/server"
)

func noWaitPester(tries int) *pester.Client {
	c := MakePesterClient(tries, time.Second)
	c.Backoff = func(int) time.Duration { return 0 }
	return c
}

func newTestClient(stat stats.StatsReceiver) Client {
	return NewCustomHTTPClient(noWaitPester(3), noWaitPester(1), nil, stat)
}

func TestContactURL(t *testing.T) {
	u, err := ContactURL("http://h:8080/api", "jobs", "7")
	require.NoError(t, err)
	assert.Equal(t, "http://h:8080/api/jobs/7", u)

	u, err = ContactURL("http://h:8080/api/", "status")
	require.NoError(t, err)
	assert.Equal(t, "http://h:8080/api/status", u)

	u, err = ContactURL("http://h", "jobs", "7", "cancel")
	require.NoError(t, err)
	assert.Equal(t, "http://h/jobs/7/cancel", u)

	_, err = ContactURL("not a url")
	assert.True(t, workerapi.IsServerAccessError(err))
}

func TestFetchStatusUnderPrefix(t *testing.T) {
	contact := server.NewContact("alpha", 8000, nil)
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", contact))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	report, err := newTestClient(nil).FetchStatus(context.Background(), ts.URL+"/api")
	require.NoError(t, err)
	assert.Equal(t, "alpha", report.Name)
	assert.Equal(t, int64(8000), report.LongTermUsableMemory)
}

func TestSubmitJobOutcomes(t *testing.T) {
	contact := server.NewContact("alpha", 1000, nil)
	ts := httptest.NewServer(contact)
	defer ts.Close()
	c := newTestClient(nil)
	ctx := context.Background()

	require.NoError(t, c.SubmitJob(ctx, ts.URL, &domain.Job{ID: 1, EstimatedMemory: 10, WorkflowDefinition: "wf"}))
	jobs := contact.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "wf", jobs[0].WorkflowDefinition)

	err := c.SubmitJob(ctx, ts.URL, &domain.Job{ID: 2, EstimatedMemory: 5000})
	require.Error(t, err)
	sae := err.(*workerapi.ServerAccessError)
	assert.Equal(t, http.StatusBadRequest, sae.StatusCode)
	assert.Equal(t, "Job was rejected for processing with message: Not enough memory", sae.Message)

	contact.SetSubmitFailure(http.StatusServiceUnavailable)
	err = c.SubmitJob(ctx, ts.URL, &domain.Job{ID: 3})
	require.Error(t, err)
	assert.Equal(t, "Unexpected response on job submittal, message: Not accepting jobs", err.(*workerapi.ServerAccessError).Message)
	// A submit is never retried.
	assert.Equal(t, 3, contact.Requests("POST jobs"))
}

func TestIdempotentCallsRetryOnServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"id":4,"endedAt":20,"failed":true}`))
	}))
	defer ts.Close()

	job, err := newTestClient(nil).FetchJob(context.Background(), ts.URL, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.True(t, job.Failed)
}

func TestNonOKStatusIsServerAccessError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"gone"}`))
	}))
	defer ts.Close()
	c := newTestClient(nil)

	_, err := c.DeleteJobData(context.Background(), ts.URL, 4)
	require.Error(t, err)
	sae := err.(*workerapi.ServerAccessError)
	assert.Equal(t, http.StatusNotFound, sae.StatusCode)
	assert.Contains(t, sae.Message, "gone")

	_, err = c.CancelJob(context.Background(), ts.URL, 4)
	assert.True(t, workerapi.IsServerAccessError(err))
}

func TestMalformedAndUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":`))
	}))
	c := newTestClient(nil)
	_, err := c.FetchStatus(context.Background(), ts.URL)
	assert.True(t, workerapi.IsServerAccessError(err))

	ts.Close()
	_, err = c.FetchStatus(context.Background(), ts.URL)
	assert.True(t, workerapi.IsServerAccessError(err))
}

func TestMissingCollectionTimeIsRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"a","longTermUsableMemory":5}`))
	}))
	defer ts.Close()
	_, err := newTestClient(nil).FetchStatus(context.Background(), ts.URL)
	assert.True(t, workerapi.IsServerAccessError(err))
}

func TestRequestsAreCounted(t *testing.T) {
	contact := server.NewContact("alpha", 1000, nil)
	ts := httptest.NewServer(contact)
	defer ts.Close()
	stat := stats.DefaultStatsReceiver()

	c := newTestClient(stat)
	c.FetchStatus(context.Background(), ts.URL)
	c.FetchJob(context.Background(), ts.URL, 99)
	assert.EqualValues(t, 2, stat.Scope("remote").Counter(stats.RemoteRequestCounter).Count())
	assert.EqualValues(t, 1, stat.Scope("remote").Counter(stats.RemoteRequestErrCounter).Count())
}

func TestCanceledContextStopsLimiter(t *testing.T) {
	c := NewCustomHTTPClient(noWaitPester(1), noWaitPester(1), MakeLimiter(0.001), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchStatus(ctx, "http://localhost:1")
	assert.True(t, workerapi.IsServerAccessError(err))
}
