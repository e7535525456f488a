// Package store defines the persistent state shared by all dispatcher loops
// and tasks: jobs, contacts, status reports and messages.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/benchly/dispatch/scheduler/domain"
)

//go:generate mockgen -source=store.go -package=store -destination=store_mock.go

// Store is safe for concurrent use. Lookups of missing rows return a
// common/errors NotFoundError. Pick operations return nil, nil when nothing
// qualifies.
type Store interface {
	// CreateWorkflow stores a workflow definition for jobs to reference.
	CreateWorkflow(ctx context.Context, ownerID int64, definition string) (int64, error)

	// CreateJob assigns the job's ID. The referenced workflow must exist.
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job) error
	// UpdatePendingJob writes job only if the stored row is still PENDING
	// with the given failed attempts, and reports whether it did. A job
	// changed by someone else since it was read is left alone.
	UpdatePendingJob(ctx context.Context, job *domain.Job, attempts int) (bool, error)
	// FetchPendingJobs returns PENDING jobs, oldest first, with their workflow definitions.
	FetchPendingJobs(ctx context.Context) ([]*domain.Job, error)
	// PickJobToCheck claims one SUBMITTED job whose lastChecked is unset or
	// not after staleBefore by stamping it with now.
	PickJobToCheck(ctx context.Context, staleBefore, now time.Time) (*domain.Job, error)
	// ReconcileJob updates the job and imports every message not yet known,
	// atomically. Returns the number of messages imported.
	ReconcileJob(ctx context.Context, job *domain.Job, messages []*domain.JobMessage) (int, error)

	// FetchCandidates ranks reachable contacts with enough usable memory.
	FetchCandidates(ctx context.Context, memoryDemand int64) (Candidates, error)

	// CreateContact assigns the contact's ID. Names are unique, a duplicate
	// is a DataIntegrityError.
	CreateContact(ctx context.Context, contact *domain.Contact) error
	GetContact(ctx context.Context, id int64) (*domain.Contact, error)
	ListContacts(ctx context.Context) ([]*domain.Contact, error)
	UpdateContact(ctx context.Context, contact *domain.Contact) error
	// PickContactToCheck claims one contact of any reachability, like PickJobToCheck.
	PickContactToCheck(ctx context.Context, staleBefore, now time.Time) (*domain.Contact, error)

	// RecordStatusReport applies the report's capacity to the contact, marks
	// it reachable and appends the report, atomically. A report whose name
	// differs from the stored contact's is a DataIntegrityError.
	RecordStatusReport(ctx context.Context, contact *domain.Contact, report *domain.StatusReport, now time.Time) error
	ListStatusReports(ctx context.Context, contactID int64) ([]*domain.StatusReport, error)
	DeleteReportsOlderThan(ctx context.Context, before time.Time) (int64, error)

	CreateJobMessage(ctx context.Context, msg *domain.JobMessage) error
	// CreateJobMessageIfAbsent reports whether the message was new.
	CreateJobMessageIfAbsent(ctx context.Context, msg *domain.JobMessage) (bool, error)
	ListJobMessages(ctx context.Context, jobID int64) ([]*domain.JobMessage, error)

	CreateAdminMessage(ctx context.Context, msg *domain.AdminMessage) error
	ListAdminMessages(ctx context.Context) ([]*domain.AdminMessage, error)

	Close() error
}

// Candidates is a lazy, ranked cursor of contacts. Callers must Close it.
type Candidates interface {
	Next() bool
	Contact() *domain.Contact
	Err() error
	Close() error
}

// RankCandidates keeps reachable contacts with at least memoryDemand usable
// memory, least busy first and then most memory first.
func RankCandidates(contacts []*domain.Contact, memoryDemand int64) []*domain.Contact {
	ranked := []*domain.Contact{}
	for _, c := range contacts {
		if c.Reachability == domain.Reachable && c.ApproximateUsableMemory >= memoryDemand {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ApproximateRunningJobs != b.ApproximateRunningJobs {
			return a.ApproximateRunningJobs < b.ApproximateRunningJobs
		}
		if a.ApproximateUsableMemory != b.ApproximateUsableMemory {
			return a.ApproximateUsableMemory > b.ApproximateUsableMemory
		}
		return a.ID < b.ID
	})
	return ranked
}

// NewSliceCandidates walks an already ranked slice.
func NewSliceCandidates(contacts []*domain.Contact) Candidates {
	return &sliceCandidates{contacts: contacts, pos: -1}
}

type sliceCandidates struct {
	contacts []*domain.Contact
	pos      int
}

func (s *sliceCandidates) Next() bool {
	if s.pos+1 >= len(s.contacts) {
		s.pos = len(s.contacts)
		return false
	}
	s.pos++
	return true
}

func (s *sliceCandidates) Contact() *domain.Contact {
	if s.pos < 0 || s.pos >= len(s.contacts) {
		return nil
	}
	return s.contacts[s.pos]
}

func (s *sliceCandidates) Err() error   { return nil }
func (s *sliceCandidates) Close() error { return nil }
