package server

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/workerapi"
)

const noCandidateMessage = "No suitable server contact found for job. Delaying execution for later."

// submitTask tries to place one pending job on the best candidate that accepts it.
type submitTask struct {
	*deps
	job *domain.Job
	// Failed attempts when the job was read. Writes only land if the stored
	// job is still pending with this many.
	attempts int
}

func (d *deps) newSubmitTask(job *domain.Job) *submitTask {
	return &submitTask{deps: d, job: job, attempts: job.FailedSubmittalAttempts}
}

func (t *submitTask) run(ctx context.Context) {
	t.stat.Counter(stats.SchedSubmitTaskCounter).Inc(1)
	defer t.stat.Latency(stats.SchedSubmitLatency_ms).Time().Stop()

	logger := log.WithFields(jobFields(t.job))
	candidates, err := t.store.FetchCandidates(ctx, t.job.EstimatedMemory)
	if err != nil {
		logger.Errorf("Unable to fetch candidates, will retry next cycle: %v", err)
		t.recordJobMessage(ctx, t.job, noCandidateMessage)
		return
	}
	defer candidates.Close()

	tried := 0
	for candidates.Next() {
		contact := candidates.Contact()
		tried++
		err := t.trySubmit(ctx, contact)
		if err == nil {
			t.submitted(ctx, contact)
			return
		}
		if workerapi.IsServerAccessError(err) {
			logger.WithFields(contactFields(contact)).Infof("Contact refused job: %v", err)
			t.recordJobMessage(ctx, t.job, err.Error())
		} else {
			logger.WithFields(contactFields(contact)).Errorf("Unexpected error during job submission. %v", err)
		}
	}
	if err := candidates.Err(); err != nil {
		logger.Errorf("Candidate cursor failed after %d contacts: %v", tried, err)
		if tried == 0 {
			return
		}
	}

	if tried == 0 {
		t.stat.Counter(stats.SchedNoCandidateCounter).Inc(1)
		t.recordJobMessage(ctx, t.job, noCandidateMessage)
		return
	}
	t.deferred(ctx)
}

// trySubmit turns a panic while talking to one contact into an error so the
// cycle is still charged.
func (t *submitTask) trySubmit(ctx context.Context, contact *domain.Contact) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(jobFields(t.job)).WithField("stack", string(debug.Stack())).
				Errorf("Panic submitting to %s: %v", contact.Name, r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.client.SubmitJob(ctx, contact.Endpoint, t.job)
}

func (t *submitTask) submitted(ctx context.Context, contact *domain.Contact) {
	t.job.SetSubmitted(contact, t.now())
	if !t.persist(ctx, "Job accepted by contact but not persisted") {
		return
	}
	t.stat.Counter(stats.SchedJobSubmittedCounter).Inc(1)
	t.recordJobMessage(ctx, t.job,
		fmt.Sprintf("Successfully submitted job %d for processing on: %s", t.job.ID, contact.Name))
}

// deferred charges one attempt for a cycle where no candidate accepted.
func (t *submitTask) deferred(ctx context.Context) {
	t.stat.Counter(stats.SchedSubmitFailedCounter).Inc(1)
	attempts := t.job.IncrementFailedSubmittalAttempts()
	abandoned := attempts >= MaxSubmittalAttempts
	content := fmt.Sprintf("Job submission deferred. Remaining attempts: %d", MaxSubmittalAttempts-attempts)
	if abandoned {
		t.job.SetFailed(t.now())
		content = "Job canceled due to too many failed submissions."
	}
	if !t.persist(ctx, "Unable to persist failed submission") {
		return
	}
	if abandoned {
		t.stat.Counter(stats.SchedJobAbandonedCounter).Inc(1)
	}
	t.recordJobMessage(ctx, t.job, content)
}

// persist writes the job if nobody changed it since it was read.
func (t *submitTask) persist(ctx context.Context, what string) bool {
	logger := log.WithFields(jobFields(t.job))
	ok, err := t.store.UpdatePendingJob(ctx, t.job, t.attempts)
	if err != nil {
		logger.Errorf("%s: %v", what, errors.Wrap(err, "update job"))
		return false
	}
	if !ok {
		t.stat.Counter(stats.SchedSubmitConflictCounter).Inc(1)
		logger.Warnf("%s: job changed since it was read", what)
		return false
	}
	return true
}
