package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/scheduler/domain"
)

// MemoryStore keeps everything in process memory and is not durable.
// Only suitable for tests and single process local setups.
type MemoryStore struct {
	mu sync.RWMutex

	nextID      int64
	workflows   map[int64]string
	jobs        map[int64]*domain.Job
	contacts    map[int64]*domain.Contact
	reports     []*domain.StatusReport
	jobMessages map[string]*domain.JobMessage
	// Insertion order of jobMessages.
	jobMessageIDs []string
	adminMessages []*domain.AdminMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workflows:   map[int64]string{},
		jobs:        map[int64]*domain.Job{},
		contacts:    map[int64]*domain.Contact{},
		jobMessages: map[string]*domain.JobMessage{},
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) CreateWorkflow(ctx context.Context, ownerID int64, definition string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.workflows[id] = definition
	return id, nil
}

func (s *MemoryStore) CreateJob(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.workflows[job.WorkflowID]
	if !ok {
		return errors.NewNotFoundError("workflow", job.WorkflowID)
	}
	job.ID = s.id()
	job.WorkflowDefinition = def
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *MemoryStore) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.NewNotFoundError("job", id)
	}
	return job.Clone(), nil
}

func (s *MemoryStore) UpdateJob(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateJob(job)
}

func (s *MemoryStore) UpdatePendingJob(ctx context.Context, job *domain.Job, attempts int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.jobs[job.ID]
	if !ok {
		return false, errors.NewNotFoundError("job", job.ID)
	}
	if stored.State != domain.Pending || stored.FailedSubmittalAttempts != attempts {
		return false, nil
	}
	s.jobs[job.ID] = job.Clone()
	return true, nil
}

func (s *MemoryStore) updateJob(job *domain.Job) error {
	if _, ok := s.jobs[job.ID]; !ok {
		return errors.NewNotFoundError("job", job.ID)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *MemoryStore) FetchPendingJobs(ctx context.Context) ([]*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := []*domain.Job{}
	for _, job := range s.jobs {
		if job.State == domain.Pending {
			pending = append(pending, job.Clone())
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	return pending, nil
}

// staler orders never checked rows first, then by lastChecked and id.
func staler(a, b *time.Time, aID, bID int64) bool {
	switch {
	case a == nil && b != nil:
		return true
	case a != nil && b == nil:
		return false
	case a != nil && b != nil && !a.Equal(*b):
		return a.Before(*b)
	}
	return aID < bID
}

func isStale(lastChecked *time.Time, staleBefore time.Time) bool {
	return lastChecked == nil || !lastChecked.After(staleBefore)
}

func (s *MemoryStore) PickJobToCheck(ctx context.Context, staleBefore, now time.Time) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var picked *domain.Job
	for _, job := range s.jobs {
		if job.State != domain.Submitted || !isStale(job.LastChecked, staleBefore) {
			continue
		}
		if picked == nil || staler(job.LastChecked, picked.LastChecked, job.ID, picked.ID) {
			picked = job
		}
	}
	if picked == nil {
		return nil, nil
	}
	picked.SetLastChecked(now)
	return picked.Clone(), nil
}

func (s *MemoryStore) ReconcileJob(ctx context.Context, job *domain.Job, messages []*domain.JobMessage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateJob(job); err != nil {
		return 0, err
	}
	imported := 0
	for _, msg := range messages {
		if s.addJobMessage(msg) {
			imported++
		}
	}
	return imported, nil
}

func (s *MemoryStore) FetchCandidates(ctx context.Context, memoryDemand int64) (Candidates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*domain.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		all = append(all, c.Clone())
	}
	return NewSliceCandidates(RankCandidates(all, memoryDemand)), nil
}

func (s *MemoryStore) CreateContact(ctx context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.Name == contact.Name {
			return errors.NewDataIntegrityError("A contact named '%s' already exists", contact.Name)
		}
	}
	contact.ID = s.id()
	s.contacts[contact.ID] = contact.Clone()
	return nil
}

func (s *MemoryStore) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, errors.NewNotFoundError("contact", id)
	}
	return c.Clone(), nil
}

func (s *MemoryStore) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.contacts[contact.ID]
	if !ok {
		return errors.NewNotFoundError("contact", contact.ID)
	}
	if stored.Name != contact.Name {
		return errors.NewDataIntegrityError("Contact %d is named '%s', refusing rename to '%s'", contact.ID, stored.Name, contact.Name)
	}
	s.contacts[contact.ID] = contact.Clone()
	return nil
}

func (s *MemoryStore) PickContactToCheck(ctx context.Context, staleBefore, now time.Time) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var picked *domain.Contact
	for _, c := range s.contacts {
		if !isStale(c.LastChecked, staleBefore) {
			continue
		}
		if picked == nil || staler(c.LastChecked, picked.LastChecked, c.ID, picked.ID) {
			picked = c
		}
	}
	if picked == nil {
		return nil, nil
	}
	t := now
	picked.LastChecked = &t
	return picked.Clone(), nil
}

func (s *MemoryStore) RecordStatusReport(ctx context.Context, contact *domain.Contact, report *domain.StatusReport, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.contacts[contact.ID]
	if !ok {
		return errors.NewNotFoundError("contact", contact.ID)
	}
	if stored.Name != report.Name {
		return errors.NewDataIntegrityError("Contact %d is named '%s' but reported as '%s'", contact.ID, stored.Name, report.Name)
	}
	stored.ApplyReport(report, now)
	contact.ApplyReport(report, now)

	r := *report
	r.ID = s.id()
	r.ContactID = contact.ID
	s.reports = append(s.reports, &r)
	report.ID, report.ContactID = r.ID, r.ContactID
	return nil
}

func (s *MemoryStore) ListStatusReports(ctx context.Context, contactID int64) ([]*domain.StatusReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.StatusReport{}
	for _, r := range s.reports {
		if r.ContactID == contactID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteReportsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reports[:0]
	var deleted int64
	for _, r := range s.reports {
		if r.CollectedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.reports = kept
	return deleted, nil
}

func (s *MemoryStore) CreateJobMessage(ctx context.Context, msg *domain.JobMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.addJobMessage(msg) {
		return errors.NewDataIntegrityError("Job message '%s' already exists", msg.ID)
	}
	return nil
}

func (s *MemoryStore) CreateJobMessageIfAbsent(ctx context.Context, msg *domain.JobMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addJobMessage(msg), nil
}

func (s *MemoryStore) addJobMessage(msg *domain.JobMessage) bool {
	if _, ok := s.jobMessages[msg.ID]; ok {
		return false
	}
	cp := *msg
	s.jobMessages[msg.ID] = &cp
	s.jobMessageIDs = append(s.jobMessageIDs, msg.ID)
	return true
}

func (s *MemoryStore) ListJobMessages(ctx context.Context, jobID int64) ([]*domain.JobMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.JobMessage{}
	for _, id := range s.jobMessageIDs {
		if m := s.jobMessages[id]; m.JobID == jobID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateAdminMessage(ctx context.Context, msg *domain.AdminMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.id()
	cp := *msg
	s.adminMessages = append(s.adminMessages, &cp)
	return nil
}

func (s *MemoryStore) ListAdminMessages(ctx context.Context) ([]*domain.AdminMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.AdminMessage, 0, len(s.adminMessages))
	for _, m := range s.adminMessages {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
