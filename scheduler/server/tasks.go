package server

import (
	"context"
	"sync"
	"time"

	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/scheduler/pool"
	"github.com/benchly/dispatch/store"
	"github.com/benchly/dispatch/workerapi/client"
)

// deps is shared by every loop and task of one Dispatcher.
type deps struct {
	store  store.Store
	client client.Client
	exec   pool.Executor
	stat   stats.StatsReceiver
	now    func() time.Time
	config Config

	// Jobs with a submit task queued or running.
	submitting jobClaims
}

// jobClaims is a set of job IDs. The zero value is empty and ready to use.
type jobClaims struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

// claim adds id and reports whether it was absent.
func (c *jobClaims) claim(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ids[id]; ok {
		return false
	}
	if c.ids == nil {
		c.ids = map[int64]struct{}{}
	}
	c.ids[id] = struct{}{}
	return true
}

func (c *jobClaims) release(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, id)
}

func jobFields(job *domain.Job) log.Fields {
	return log.Fields{
		"jobID":      job.ID,
		"workflowID": job.WorkflowID,
		"state":      job.State,
	}
}

func contactFields(contact *domain.Contact) log.Fields {
	return log.Fields{
		"contactID": contact.ID,
		"contact":   contact.Name,
		"endpoint":  contact.Endpoint,
	}
}

func newMessageID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// Only fails if the system's random source does.
		panic(err)
	}
	return id.String()
}

// recordJobMessage leaves a local audit message on the job. Failures are logged only.
func (d *deps) recordJobMessage(ctx context.Context, job *domain.Job, content string) {
	logger := log.WithFields(jobFields(job))
	logger.Debugf("Message for job: %s", content)
	msg := &domain.JobMessage{
		ID:         newMessageID(),
		JobID:      job.ID,
		WorkflowID: job.WorkflowID,
		Content:    content,
		RecordedAt: d.now(),
	}
	if err := d.store.CreateJobMessage(ctx, msg); err != nil {
		logger.Errorf("Unable to record job message: %v. Unpersisted message: %s", err, content)
	}
}

// raiseAdminMessage stores an alert for operators. If that fails the alert
// goes to the log at error level so it is never lost.
func (d *deps) raiseAdminMessage(ctx context.Context, contactID int64, content string) {
	msg := &domain.AdminMessage{
		ContactID: contactID,
		Content:   content,
		CreatedAt: d.now(),
	}
	if err := d.store.CreateAdminMessage(ctx, msg); err != nil {
		d.stat.Counter(stats.SchedAdminMessageErrCounter).Inc(1)
		log.WithFields(log.Fields{
			"contactID": contactID,
			"err":       err,
		}).Errorf("Unable to store admin message: %s", content)
		return
	}
	log.WithField("contactID", contactID).Warn(content)
}
