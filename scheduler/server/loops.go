package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/stats"
)

// Loop is one periodic scan of the store. A tick hands rows to tasks and
// returns without waiting for them.
type Loop interface {
	Name() string
	Interval() time.Duration
	Tick(ctx context.Context)
}

// JobScheduler submits every pending job, staggered. A job whose previous
// submit task has not finished yet is skipped.
type JobScheduler struct{ *deps }

func (l *JobScheduler) Name() string            { return "jobScheduler" }
func (l *JobScheduler) Interval() time.Duration { return l.config.JobSchedulerInterval }

func (l *JobScheduler) Tick(ctx context.Context) {
	jobs, err := l.store.FetchPendingJobs(ctx)
	if err != nil {
		l.tickFailed(l, err)
		return
	}
	l.stat.Gauge(stats.SchedPendingJobsGauge).Update(int64(len(jobs)))
	scheduled := 0
	for _, job := range jobs {
		if !l.submitting.claim(job.ID) {
			log.WithFields(jobFields(job)).Debug("Submission still outstanding, skipping")
			continue
		}
		task := l.newSubmitTask(job)
		l.exec.Schedule(func(ctx context.Context) {
			defer l.submitting.release(task.job.ID)
			task.run(ctx)
		}, time.Duration(scheduled)*l.config.StaggerDelay)
		scheduled++
	}
}

// JobWatcher reconciles at most one stale submitted job per tick.
type JobWatcher struct{ *deps }

func (l *JobWatcher) Name() string            { return "jobWatcher" }
func (l *JobWatcher) Interval() time.Duration { return l.config.JobWatcherInterval }

func (l *JobWatcher) Tick(ctx context.Context) {
	now := l.now()
	job, err := l.store.PickJobToCheck(ctx, now.Add(-l.config.JobCheckThreshold), now)
	if err != nil {
		l.tickFailed(l, err)
		return
	}
	if job == nil {
		return
	}
	l.exec.Submit(l.newUpdateTask(job.ID).run)
}

// ContactWatcher checks at most one stale contact per tick.
type ContactWatcher struct{ *deps }

func (l *ContactWatcher) Name() string            { return "contactWatcher" }
func (l *ContactWatcher) Interval() time.Duration { return l.config.ContactWatcherInterval }

func (l *ContactWatcher) Tick(ctx context.Context) {
	now := l.now()
	contact, err := l.store.PickContactToCheck(ctx, now.Add(-l.config.ContactCheckThreshold), now)
	if err != nil {
		l.tickFailed(l, err)
		return
	}
	if contact == nil {
		return
	}
	l.exec.Submit(l.newStatusTask(contact).run)
}

// ReportPruner drops status reports past their retention. Runs inline, it's one statement.
type ReportPruner struct{ *deps }

func (l *ReportPruner) Name() string            { return "reportPruner" }
func (l *ReportPruner) Interval() time.Duration { return l.config.ReportPrunerInterval }

func (l *ReportPruner) Tick(ctx context.Context) {
	n, err := l.store.DeleteReportsOlderThan(ctx, l.now().Add(-l.config.ReportRetention))
	if err != nil {
		l.tickFailed(l, err)
		return
	}
	l.stat.Counter(stats.SchedReportsPrunedCounter).Inc(n)
	if n > 0 {
		log.Infof("Pruned %d status reports", n)
	}
}

func (d *deps) tickFailed(l Loop, err error) {
	d.stat.Counter(stats.SchedTickStoreErrCounter).Inc(1)
	log.WithField("loop", l.Name()).Errorf("Tick aborted: %v", err)
}

// newCron drives loops on fixed rate schedules. Ticks still running when
// the next one is due are skipped. Intervals are truncated to whole seconds,
// with a minimum of one.
func newCron(ctx context.Context, loops ...Loop) (*cron.Cron, error) {
	logger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))
	for _, l := range loops {
		l := l
		schedule := fmt.Sprintf("@every %s", l.Interval())
		if _, err := c.AddFunc(schedule, func() { l.Tick(ctx) }); err != nil {
			return nil, fmt.Errorf("scheduling %s with %q: %v", l.Name(), schedule, err)
		}
		log.Infof("Scheduled %s %s", l.Name(), schedule)
	}
	return c, nil
}
