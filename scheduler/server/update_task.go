package server

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/luci/go-render/render"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/workerapi"
)

// updateTask reconciles one submitted job with the contact executing it.
type updateTask struct {
	*deps
	jobID int64
}

func (d *deps) newUpdateTask(jobID int64) *updateTask {
	return &updateTask{deps: d, jobID: jobID}
}

func (t *updateTask) run(ctx context.Context) {
	t.stat.Counter(stats.SchedUpdateTaskCounter).Inc(1)
	logger := log.WithField("jobID", t.jobID)

	job, err := t.store.GetJob(ctx, t.jobID)
	if err != nil {
		logger.Errorf("Unable to load job for update: %v", err)
		return
	}
	logger = log.WithFields(jobFields(job))
	if job.State != domain.Submitted || !job.HasExecutingContact() {
		logger.Debug("Job is not running on a contact, nothing to update")
		return
	}
	contact, err := t.store.GetContact(ctx, job.ExecutingContactID)
	if err != nil {
		logger.Errorf("Unable to load executing contact: %v", err)
		return
	}
	logger = logger.WithFields(contactFields(contact))

	remote, err := t.client.FetchJob(ctx, contact.Endpoint, job.ID)
	if err != nil {
		// Checked again next cycle, not on the next tick.
		t.stat.Counter(stats.SchedUpdateRemoteErrCounter).Inc(1)
		logger.Warnf("Unable to fetch remote job: %v", err)
		job.SetLastChecked(t.now())
		if err := t.store.UpdateJob(ctx, job); err != nil {
			logger.Errorf("Unable to stamp job as checked: %v", err)
		}
		return
	}
	logger.Debugf("Remote job: %s", render.Render(remote))

	ended := false
	if endedAt, ok := remote.EndedTime(); ok {
		ended = true
		if remote.Failed {
			job.SetFailed(endedAt)
		} else {
			job.SetSucceeded(endedAt)
		}
	}
	job.SetLastChecked(t.now())

	messages := make([]*domain.JobMessage, 0, len(remote.Events))
	for _, ev := range remote.Events {
		messages = append(messages, workerapi.WireEventToMessage(ev, job))
	}
	imported, err := t.store.ReconcileJob(ctx, job, messages)
	if err != nil {
		logger.Errorf("Unable to reconcile job: %v", err)
		return
	}
	t.stat.Counter(stats.SchedJobMessagesImportedCounter).Inc(int64(imported))

	if !ended {
		return
	}
	if job.State == domain.Failed {
		t.stat.Counter(stats.SchedJobFailedCounter).Inc(1)
	} else {
		t.stat.Counter(stats.SchedJobSucceededCounter).Inc(1)
	}
	logger.Infof("Job ended at %s", job.EndedAt)
	t.deleteJobData(ctx, contact, job)
}

// deleteJobData releases the contact's copy of an ended job. The local state
// is already recorded so failures are only logged.
func (t *updateTask) deleteJobData(ctx context.Context, contact *domain.Contact, job *domain.Job) {
	op := func() error {
		_, err := t.client.DeleteJobData(ctx, contact.Endpoint, job.ID)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(deleteDataBackOff(t.config.DeleteDataTries), ctx)); err != nil {
		t.stat.Counter(stats.SchedDeleteJobDataErrCounter).Inc(1)
		log.WithFields(jobFields(job)).WithFields(contactFields(contact)).
			Warnf("Unable to delete remote job data: %v", err)
	}
}

// Bounds the whole deletion, whatever the number of tries.
const deleteDataMaxElapsed = 30 * time.Second

// deleteDataBackOff allows tries attempts in total. WithMaxRetries treats
// zero retries as unlimited, so a single try must stop outright.
func deleteDataBackOff(tries int) backoff.BackOff {
	if tries <= 1 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = deleteDataMaxElapsed
	return backoff.WithMaxRetries(b, uint64(tries-1))
}
