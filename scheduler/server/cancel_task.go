package server

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
)

// cancelTask asks the executing contact to cancel a job. The local state only
// changes once a later update sees the remote end time.
type cancelTask struct {
	*deps
	jobID int64
}

func (d *deps) newCancelTask(jobID int64) *cancelTask {
	return &cancelTask{deps: d, jobID: jobID}
}

func (t *cancelTask) run(ctx context.Context) error {
	job, err := t.store.GetJob(ctx, t.jobID)
	if err != nil {
		return err
	}
	if job.State != domain.Submitted || !job.HasExecutingContact() {
		return errors.NewDataIntegrityError("Job %d is %s and not running on a contact, it can't be canceled", job.ID, job.State)
	}
	contact, err := t.store.GetContact(ctx, job.ExecutingContactID)
	if err != nil {
		return err
	}

	logger := log.WithFields(jobFields(job)).WithFields(contactFields(contact))
	if _, err := t.client.CancelJob(ctx, contact.Endpoint, job.ID); err != nil {
		t.stat.Counter(stats.SchedCancelErrCounter).Inc(1)
		logger.Warnf("Cancel refused: %v", err)
		t.recordJobMessage(ctx, job, "Received an error while attempting to cancel the remote job. Got: "+err.Error())
		return err
	}
	t.stat.Counter(stats.SchedCancelAckCounter).Inc(1)
	logger.Info("Cancel acknowledged, rechecking shortly")
	update := t.newUpdateTask(job.ID)
	t.exec.Schedule(update.run, t.config.CancelRecheckDelay)
	return nil
}
