package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/endpoints"
	dispatcherrors "github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/scheduler/pool"
	"github.com/benchly/dispatch/store"
	"github.com/benchly/dispatch/workerapi/client"
)

// Dispatcher runs the loops against one store. Its inputs are new pending
// jobs and new contacts, everything else happens in the background.
type Dispatcher struct {
	deps  *deps
	loops []Loop

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewDispatcher(
	cfg Config,
	st store.Store,
	cl client.Client,
	exec pool.Executor,
	stat stats.StatsReceiver,
) *Dispatcher {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	cfg = cfg.WithDefaults()
	log.Info(cfg)
	d := &deps{
		store:  st,
		client: cl,
		exec:   exec,
		stat:   stat.Scope("dispatcher"),
		now:    time.Now,
		config: cfg,
	}
	return &Dispatcher{
		deps: d,
		loops: []Loop{
			&JobScheduler{d},
			&JobWatcher{d},
			&ContactWatcher{d},
			&ReportPruner{d},
		},
	}
}

// SetClock replaces time.Now for every loop and task.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.deps.now = now
}

// Loops returns the loops in the order JobScheduler, JobWatcher,
// ContactWatcher, ReportPruner so callers can tick them directly.
func (d *Dispatcher) Loops() []Loop {
	return d.loops
}

// Start schedules every loop. Ticks run until Stop.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cron != nil {
		return errors.New("dispatcher already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c, err := newCron(ctx, d.loops...)
	if err != nil {
		cancel()
		return err
	}
	c.Start()
	d.cron, d.cancel = c, cancel
	return nil
}

// Stop halts the loops and waits for ticks in progress. Tasks already
// handed to the executor are the executor's to finish or drop.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cron == nil {
		return
	}
	d.cancel()
	<-d.cron.Stop().Done()
	d.cron, d.cancel = nil, nil
}

// AddContact registers the server at endpoint under the name it asserts.
func (d *Dispatcher) AddContact(ctx context.Context, endpoint string) (*domain.Contact, error) {
	name, err := d.deps.checkName(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "name check of %s", endpoint)
	}
	contact := &domain.Contact{
		Name:         name,
		Endpoint:     endpoint,
		Reachability: domain.Reachable,
	}
	if err := d.deps.store.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	log.WithFields(contactFields(contact)).Info("Added contact")
	return contact, nil
}

// CreateJob queues a new pending job for the given workflow.
func (d *Dispatcher) CreateJob(ctx context.Context, job *domain.Job) error {
	if job.EstimatedMemory < 0 || job.EstimatedTime < 0 {
		return dispatcherrors.NewDataIntegrityError("Job estimates must not be negative: %s", job)
	}
	job.State = domain.Pending
	job.ExecutingContactID = 0
	job.FailedSubmittalAttempts = 0
	job.SubmittedAt, job.EndedAt, job.LastChecked = nil, nil, nil
	job.CreatedAt = d.deps.now()
	if err := d.deps.store.CreateJob(ctx, job); err != nil {
		return err
	}
	log.WithFields(jobFields(job)).Info("Created job")
	return nil
}

// CancelJob asks the job's contact to cancel it and schedules a recheck.
// Only submitted jobs can be canceled.
func (d *Dispatcher) CancelJob(ctx context.Context, jobID int64) error {
	return d.deps.newCancelTask(jobID).run(ctx)
}

// RegisterViews exposes contacts, admin messages and a job's messages on srv.
func (d *Dispatcher) RegisterViews(srv *endpoints.TwitterServer) {
	srv.AddJSONView("/admin/contacts.json", func(r *http.Request) (interface{}, error) {
		return d.deps.store.ListContacts(r.Context())
	})
	srv.AddJSONView("/admin/messages.json", func(r *http.Request) (interface{}, error) {
		return d.deps.store.ListAdminMessages(r.Context())
	})
	srv.AddJSONView("/admin/job_messages.json", func(r *http.Request) (interface{}, error) {
		id, err := strconv.ParseInt(r.URL.Query().Get("job"), 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "job query parameter")
		}
		return d.deps.store.ListJobMessages(r.Context(), id)
	})
}
