// Package domain provides definitions for dispatched Jobs, the Contacts they
// run on and the messages recorded about both.
package domain

import (
	"fmt"
	"time"
)

// JobState is the lifecycle state of a Job.
type JobState int

const (
	// Waiting to be placed on a contact.
	Pending JobState = iota

	// Accepted by a contact, awaiting its end.
	Submitted

	// Ended successfully on its contact.
	Succeeded

	// Ended unsuccessfully, either remotely or because no contact accepted it.
	Failed
)

var jobStateNames = [...]string{"PENDING", "SUBMITTED", "SUCCEEDED", "FAILED"}

func (s JobState) String() string {
	if s < 0 || int(s) >= len(jobStateNames) {
		return fmt.Sprintf("JobState(%d)", int(s))
	}
	return jobStateNames[s]
}

// ParseJobState is the inverse of String, used by stores.
func ParseJobState(s string) (JobState, error) {
	for i, name := range jobStateNames {
		if name == s {
			return JobState(i), nil
		}
	}
	return Pending, fmt.Errorf("unknown job state: %q", s)
}

// IsEnded reports whether no further transitions are possible.
func (s JobState) IsEnded() bool {
	return s == Succeeded || s == Failed
}

// Job is a unit of work bound to a workflow definition and an owner.
type Job struct {
	ID                 int64
	State              JobState
	OwnerID            int64
	WorkflowID         int64
	WorkflowDefinition string

	// Zero until the job was accepted by a contact.
	ExecutingContactID int64

	// Seconds, as estimated by the owner.
	EstimatedTime int64
	// Bytes, as estimated by the owner. Input to candidate selection.
	EstimatedMemory int64

	FailedSubmittalAttempts int

	CreatedAt   time.Time
	SubmittedAt *time.Time
	EndedAt     *time.Time
	LastChecked *time.Time
}

func (j *Job) String() string {
	return fmt.Sprintf("{id:%d, state:%s, workflow:%d, contact:%d, attempts:%d}",
		j.ID, j.State, j.WorkflowID, j.ExecutingContactID, j.FailedSubmittalAttempts)
}

// HasExecutingContact reports whether a contact accepted this job.
func (j *Job) HasExecutingContact() bool {
	return j.ExecutingContactID != 0
}

// SetSubmitted marks the job as accepted by contact.
func (j *Job) SetSubmitted(contact *Contact, now time.Time) {
	j.State = Submitted
	j.ExecutingContactID = contact.ID
	j.SubmittedAt = timePtr(now)
}

// IncrementFailedSubmittalAttempts returns the new attempt count.
func (j *Job) IncrementFailedSubmittalAttempts() int {
	j.FailedSubmittalAttempts++
	return j.FailedSubmittalAttempts
}

func (j *Job) SetFailed(at time.Time) {
	j.State = Failed
	j.EndedAt = timePtr(at)
}

func (j *Job) SetSucceeded(at time.Time) {
	j.State = Succeeded
	j.EndedAt = timePtr(at)
}

func (j *Job) SetLastChecked(now time.Time) {
	j.LastChecked = timePtr(now)
}

// Clone returns a deep copy, so stores never hand out shared pointers.
func (j *Job) Clone() *Job {
	c := *j
	c.SubmittedAt = copyTime(j.SubmittedAt)
	c.EndedAt = copyTime(j.EndedAt)
	c.LastChecked = copyTime(j.LastChecked)
	return &c
}

// Reachability is the last known belief about whether a contact answers.
// An enum rather than a bool so that administrative states can be added.
type Reachability int

const (
	Reachable Reachability = iota
	Unreachable
)

func (r Reachability) String() string {
	switch r {
	case Reachable:
		return "DEFAULT"
	case Unreachable:
		return "UNREACHABLE"
	}
	return fmt.Sprintf("Reachability(%d)", int(r))
}

func ParseReachability(s string) (Reachability, error) {
	switch s {
	case "DEFAULT":
		return Reachable, nil
	case "UNREACHABLE":
		return Unreachable, nil
	}
	return Reachable, fmt.Errorf("unknown reachability: %q", s)
}

// Contact is a remote execution server known to the dispatcher.
type Contact struct {
	ID int64
	// Asserted by the remote on first contact, immutable afterwards.
	Name     string
	Endpoint string

	Reachability Reachability

	// Advisory, last observed values.
	ApproximateUsableMemory int64
	ApproximateRunningJobs  int

	LastChecked *time.Time
}

func (c *Contact) String() string {
	return fmt.Sprintf("{id:%d, name:%s, endpoint:%s, reach:%s, mem:%dMB, running:%d}",
		c.ID, c.Name, c.Endpoint, c.Reachability, c.ApproximateUsableMemory/1000000, c.ApproximateRunningJobs)
}

// SetUnreachable marks the contact as failing its last check.
func (c *Contact) SetUnreachable(now time.Time) {
	c.Reachability = Unreachable
	c.LastChecked = timePtr(now)
}

// ApplyReport copies the advertised capacity of report onto the contact.
// The long term usable memory is used since placement outlives the snapshot.
func (c *Contact) ApplyReport(report *StatusReport, now time.Time) {
	c.ApproximateUsableMemory = report.LongTermUsableMemory
	c.ApproximateRunningJobs = report.RunningJobs
	c.Reachability = Reachable
	c.LastChecked = timePtr(now)
}

func (c *Contact) Clone() *Contact {
	cp := *c
	cp.LastChecked = copyTime(c.LastChecked)
	return &cp
}

// JobMessage is an event about a job, emitted locally or by a contact.
// ID is the natural key: remote event ids are kept as-is so imports are idempotent.
type JobMessage struct {
	ID         string
	JobID      int64
	WorkflowID int64
	// Zero for locally generated messages.
	OriginContactID int64
	Content         string
	RecordedAt      time.Time
}

// AdminMessage is an alert for the operators, optionally about a contact.
type AdminMessage struct {
	ID        int64
	ContactID int64
	Content   string
	CreatedAt time.Time
}

// StatusReport is a point in time capacity snapshot of one contact.
type StatusReport struct {
	ID                   int64
	ContactID            int64
	Name                 string
	AvailableProcessors  int
	MaxMemory            int64
	TotalMemory          int64
	FreeMemory           int64
	UsedMemory           int64
	UsableMemory         int64
	LongTermUsableMemory int64
	RunningJobs          int
	CollectedAt          time.Time
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return timePtr(*t)
}
