// Package workerapi defines the HTTP/JSON protocol spoken with contacts and
// the translation between its wire objects and domain objects.
package workerapi

import (
	"fmt"
	"time"

	"github.com/benchly/dispatch/scheduler/domain"
)

// Paths relative to a contact's endpoint.
const (
	StatusPath   = "status"
	JobsPath     = "jobs"
	CancelAction = "cancel"
)

// ServerAccessError is the single failure channel for talking to a contact:
// unexpected statuses, unparseable bodies and transport failures alike.
type ServerAccessError struct {
	Message string
	// Zero when no response was received.
	StatusCode int
	cause      error
}

func (e *ServerAccessError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Transport returns the transport failure, nil when a response was received.
func (e *ServerAccessError) Transport() error {
	return e.cause
}

func NewServerAccessError(statusCode int, format string, args ...interface{}) *ServerAccessError {
	return &ServerAccessError{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

func WrapServerAccessError(cause error, format string, args ...interface{}) *ServerAccessError {
	return &ServerAccessError{Message: fmt.Sprintf(format, args...), cause: cause}
}

// IsServerAccessError does not unwrap, callers get these straight from the client.
func IsServerAccessError(err error) bool {
	_, ok := err.(*ServerAccessError)
	return ok
}

// SimpleMessage is the body of every non-200 response.
type SimpleMessage struct {
	Message string `json:"message"`
}

// StatusReport is the body of GET status.
type StatusReport struct {
	Name                 string `json:"name"`
	AvailableProcessors  int    `json:"availableProcessors"`
	MaxMemory            int64  `json:"maxMemory"`
	TotalMemory          int64  `json:"totalMemory"`
	FreeMemory           int64  `json:"freeMemory"`
	UsedMemory           int64  `json:"usedMemory"`
	UsableMemory         int64  `json:"usableMemory"`
	LongTermUsableMemory int64  `json:"longTermUsableMemory"`
	RunningJobs          int    `json:"runningJobs"`
	// Epoch seconds.
	CollectedAt int64 `json:"collectedAt"`
}

// Job is posted on submission and returned by GET and DELETE jobs/{id}.
// Fields below WorkflowDefinition are only ever set by the contact.
type Job struct {
	ID                 int64  `json:"id"`
	MaxTime            int64  `json:"maxTime"`
	MaxMemory          int64  `json:"maxMemory"`
	WorkflowDefinition string `json:"workflowDefinition"`

	Failed    bool    `json:"failed,omitempty"`
	CreatedAt *int64  `json:"createdAt,omitempty"`
	StartedAt *int64  `json:"startedAt,omitempty"`
	EndedAt   *int64  `json:"endedAt,omitempty"`
	Events    []Event `json:"events,omitempty"`
}

// Event is a message recorded by the contact about a job.
type Event struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	RecordedAt int64  `json:"recordedAt"`
}

// DomainJobToWire builds the submission payload.
func DomainJobToWire(job *domain.Job) *Job {
	return &Job{
		ID:                 job.ID,
		MaxTime:            job.EstimatedTime,
		MaxMemory:          job.EstimatedMemory,
		WorkflowDefinition: job.WorkflowDefinition,
	}
}

// WireReportToDomain validates the collection time, the only field we can't default.
func WireReportToDomain(wire *StatusReport) (*domain.StatusReport, error) {
	if wire.CollectedAt <= 0 {
		return nil, NewServerAccessError(0, "Unable to parse timestamp returned by server for status report: %d", wire.CollectedAt)
	}
	return &domain.StatusReport{
		Name:                 wire.Name,
		AvailableProcessors:  wire.AvailableProcessors,
		MaxMemory:            wire.MaxMemory,
		TotalMemory:          wire.TotalMemory,
		FreeMemory:           wire.FreeMemory,
		UsedMemory:           wire.UsedMemory,
		UsableMemory:         wire.UsableMemory,
		LongTermUsableMemory: wire.LongTermUsableMemory,
		RunningJobs:          wire.RunningJobs,
		CollectedAt:          time.Unix(wire.CollectedAt, 0),
	}, nil
}

// DomainReportToWire is used by fake contacts.
func DomainReportToWire(report *domain.StatusReport) *StatusReport {
	return &StatusReport{
		Name:                 report.Name,
		AvailableProcessors:  report.AvailableProcessors,
		MaxMemory:            report.MaxMemory,
		TotalMemory:          report.TotalMemory,
		FreeMemory:           report.FreeMemory,
		UsedMemory:           report.UsedMemory,
		UsableMemory:         report.UsableMemory,
		LongTermUsableMemory: report.LongTermUsableMemory,
		RunningJobs:          report.RunningJobs,
		CollectedAt:          report.CollectedAt.Unix(),
	}
}

// WireEventToMessage keeps the event id as the message's natural key.
func WireEventToMessage(ev Event, job *domain.Job) *domain.JobMessage {
	return &domain.JobMessage{
		ID:              ev.ID,
		JobID:           job.ID,
		WorkflowID:      job.WorkflowID,
		OriginContactID: job.ExecutingContactID,
		Content:         ev.Message,
		RecordedAt:      time.Unix(ev.RecordedAt, 0),
	}
}

// EndedTime returns the remote end time, if the job has ended.
func (j *Job) EndedTime() (time.Time, bool) {
	if j.EndedAt == nil {
		return time.Time{}, false
	}
	return time.Unix(*j.EndedAt, 0), true
}
