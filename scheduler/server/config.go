package server

import (
	"fmt"
	"time"
)

const (
	// Submission cycles without an accepting contact before a job fails.
	MaxSubmittalAttempts = 3

	DefaultJobSchedulerInterval = 2 * time.Second
	DefaultStaggerDelay         = 500 * time.Millisecond

	DefaultJobWatcherInterval = 1 * time.Second
	DefaultJobCheckThreshold  = 60 * time.Second

	DefaultContactWatcherInterval = 1 * time.Second
	DefaultContactCheckThreshold  = 60 * time.Second

	DefaultReportPrunerInterval = 1 * time.Hour
	DefaultReportRetention      = 7 * 24 * time.Hour

	// Contacts may take a moment to act on a cancel.
	DefaultCancelRecheckDelay = 1500 * time.Millisecond

	// Attempts at deleting remote data of an ended job.
	DefaultDeleteDataTries = 3
)

// Config holds the timing of loops and tasks. Zero fields take defaults.
//
// Loop intervals are truncated to whole seconds by the loop timer.
type Config struct {
	JobSchedulerInterval time.Duration
	StaggerDelay         time.Duration

	JobWatcherInterval time.Duration
	JobCheckThreshold  time.Duration

	ContactWatcherInterval time.Duration
	ContactCheckThreshold  time.Duration

	ReportPrunerInterval time.Duration
	ReportRetention      time.Duration

	CancelRecheckDelay time.Duration
	DeleteDataTries    int
}

func (c Config) String() string {
	return fmt.Sprintf("DispatcherConfig: JobSchedulerInterval: %s, StaggerDelay: %s, "+
		"JobWatcherInterval: %s, JobCheckThreshold: %s, ContactWatcherInterval: %s, ContactCheckThreshold: %s, "+
		"ReportPrunerInterval: %s, ReportRetention: %s, CancelRecheckDelay: %s, DeleteDataTries: %d",
		c.JobSchedulerInterval, c.StaggerDelay, c.JobWatcherInterval, c.JobCheckThreshold,
		c.ContactWatcherInterval, c.ContactCheckThreshold, c.ReportPrunerInterval, c.ReportRetention,
		c.CancelRecheckDelay, c.DeleteDataTries)
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	setDuration(&c.JobSchedulerInterval, DefaultJobSchedulerInterval)
	setDuration(&c.StaggerDelay, DefaultStaggerDelay)
	setDuration(&c.JobWatcherInterval, DefaultJobWatcherInterval)
	setDuration(&c.JobCheckThreshold, DefaultJobCheckThreshold)
	setDuration(&c.ContactWatcherInterval, DefaultContactWatcherInterval)
	setDuration(&c.ContactCheckThreshold, DefaultContactCheckThreshold)
	setDuration(&c.ReportPrunerInterval, DefaultReportPrunerInterval)
	setDuration(&c.ReportRetention, DefaultReportRetention)
	setDuration(&c.CancelRecheckDelay, DefaultCancelRecheckDelay)
	if c.DeleteDataTries <= 0 {
		c.DeleteDataTries = DefaultDeleteDataTries
	}
	return c
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}
