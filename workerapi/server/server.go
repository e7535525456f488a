// Package server provides a simulated contact speaking the workerapi protocol.
// It runs nothing: jobs stay running until Finish is called. Used by tests
// and by the contactsim binary for local setups.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luci/go-render/render"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/workerapi"
)

// Contact is an http.Handler serving status, jobs, jobs/{id} and jobs/{id}/cancel.
type Contact struct {
	mu     sync.Mutex
	report workerapi.StatusReport
	jobs   map[int64]*workerapi.Job
	order  []int64

	// Non-zero codes make the matching route fail with that status.
	statusFailure int
	submitFailure int
	fetchFailure  int
	cancelFailure int
	deleteFailure int

	requests map[string]int
	now      func() time.Time
	stat     stats.StatsReceiver
}

// NewContact returns a contact advertising memory bytes of long term usable memory.
func NewContact(name string, memory int64, stat stats.StatsReceiver) *Contact {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Contact{
		report: workerapi.StatusReport{
			Name:                 name,
			AvailableProcessors:  4,
			MaxMemory:            memory,
			TotalMemory:          memory,
			FreeMemory:           memory,
			UsableMemory:         memory,
			LongTermUsableMemory: memory,
		},
		jobs:     map[int64]*workerapi.Job{},
		requests: map[string]int{},
		now:      time.Now,
		stat:     stat.Scope("contact"),
	}
}

func (c *Contact) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Name = name
}

func (c *Contact) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Contact) SetStatusFailure(code int) { c.setFailure(&c.statusFailure, code) }
func (c *Contact) SetSubmitFailure(code int) { c.setFailure(&c.submitFailure, code) }
func (c *Contact) SetFetchFailure(code int)  { c.setFailure(&c.fetchFailure, code) }
func (c *Contact) SetCancelFailure(code int) { c.setFailure(&c.cancelFailure, code) }
func (c *Contact) SetDeleteFailure(code int) { c.setFailure(&c.deleteFailure, code) }

func (c *Contact) setFailure(field *int, code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*field = code
}

// Finish ends a job at the given epoch.
func (c *Contact) Finish(jobID int64, failed bool, endedAt int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[jobID]
	if !ok {
		return fmt.Errorf("no job %d", jobID)
	}
	if job.EndedAt == nil {
		c.report.RunningJobs--
	}
	job.Failed = failed
	job.EndedAt = &endedAt
	return nil
}

// AddEvent records an event that will be returned with the job.
func (c *Contact) AddEvent(jobID int64, ev workerapi.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[jobID]
	if !ok {
		return fmt.Errorf("no job %d", jobID)
	}
	job.Events = append(job.Events, ev)
	return nil
}

// Jobs returns copies of the accepted jobs in submission order.
func (c *Contact) Jobs() []workerapi.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []workerapi.Job{}
	for _, id := range c.order {
		if job, ok := c.jobs[id]; ok {
			out = append(out, *job)
		}
	}
	return out
}

// Requests counts requests by "METHOD route", e.g. "POST jobs".
func (c *Contact) Requests(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[key]
}

func (c *Contact) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == workerapi.StatusPath && r.Method == http.MethodGet:
		c.serveStatus(w)
	case len(parts) == 1 && parts[0] == workerapi.JobsPath && r.Method == http.MethodPost:
		c.serveSubmit(w, r)
	case len(parts) == 2 && parts[0] == workerapi.JobsPath:
		c.serveJob(w, r, parts[1])
	case len(parts) == 3 && parts[0] == workerapi.JobsPath && parts[2] == workerapi.CancelAction && r.Method == http.MethodPost:
		c.serveCancel(w, parts[1])
	default:
		writeMessage(w, http.StatusNotFound, "No route for "+r.Method+" "+r.URL.Path)
	}
}

func (c *Contact) count(key string) {
	c.requests[key]++
	c.stat.Counter(strings.Replace(key, " ", "_", -1)).Inc(1)
}

func (c *Contact) serveStatus(w http.ResponseWriter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count("GET status")
	if c.statusFailure != 0 {
		writeMessage(w, c.statusFailure, "Status unavailable")
		return
	}
	report := c.report
	report.CollectedAt = c.now().Unix()
	writeJSON(w, report)
}

func (c *Contact) serveSubmit(w http.ResponseWriter, r *http.Request) {
	var job workerapi.Job
	err := json.NewDecoder(r.Body).Decode(&job)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.count("POST jobs")
	switch {
	case err != nil:
		writeMessage(w, http.StatusBadRequest, "Malformed job: "+err.Error())
		return
	case c.submitFailure != 0:
		writeMessage(w, c.submitFailure, "Not accepting jobs")
		return
	case job.MaxMemory > c.report.LongTermUsableMemory:
		writeMessage(w, http.StatusBadRequest, "Not enough memory")
		return
	}
	if _, ok := c.jobs[job.ID]; ok {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Job %d already known", job.ID))
		return
	}
	created := c.now().Unix()
	job.CreatedAt = &created
	job.StartedAt = &created
	c.jobs[job.ID] = &job
	c.order = append(c.order, job.ID)
	c.report.RunningJobs++
	log.Debugf("Contact %s accepted %s", c.report.Name, render.Render(job))
	writeMessage(w, http.StatusOK, "Job accepted")
}

func (c *Contact) serveJob(w http.ResponseWriter, r *http.Request, rawID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(r.Method + " jobs/{id}")
	failure := c.fetchFailure
	if r.Method == http.MethodDelete {
		failure = c.deleteFailure
	} else if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if failure != 0 {
		writeMessage(w, failure, "Job unavailable")
		return
	}
	job, ok := c.lookup(w, rawID)
	if !ok {
		return
	}
	if r.Method == http.MethodDelete {
		delete(c.jobs, job.ID)
	}
	writeJSON(w, job)
}

func (c *Contact) serveCancel(w http.ResponseWriter, rawID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count("POST jobs/{id}/cancel")
	if c.cancelFailure != 0 {
		writeMessage(w, c.cancelFailure, "Cancel refused")
		return
	}
	job, ok := c.lookup(w, rawID)
	if !ok {
		return
	}
	if job.EndedAt == nil {
		ended := c.now().Unix()
		job.Failed = true
		job.EndedAt = &ended
		c.report.RunningJobs--
	}
	writeJSON(w, job)
}

func (c *Contact) lookup(w http.ResponseWriter, rawID string) (*workerapi.Job, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid job id "+rawID)
		return nil, false
	}
	job, ok := c.jobs[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Job %d not found", id))
		return nil, false
	}
	return job, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(workerapi.SimpleMessage{Message: message})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Unable to encode response: %v", err)
	}
}
