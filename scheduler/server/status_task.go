package server

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
)

// statusTask refreshes one contact's capacity and reachability.
type statusTask struct {
	*deps
	contact *domain.Contact
}

func (d *deps) newStatusTask(contact *domain.Contact) *statusTask {
	return &statusTask{deps: d, contact: contact}
}

func (t *statusTask) run(ctx context.Context) {
	t.stat.Counter(stats.SchedStatusTaskCounter).Inc(1)
	defer t.stat.Latency(stats.SchedStatusLatency_ms).Time().Stop()
	logger := log.WithFields(contactFields(t.contact))

	report, err := t.client.FetchStatus(ctx, t.contact.Endpoint)
	if err != nil {
		t.stat.Counter(stats.SchedContactUnreachableCounter).Inc(1)
		t.markUnreachable(ctx, fmt.Sprintf("Unable to contact Server for report on: %s, got: %s", t.contact.Endpoint, err))
		return
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		logger.Debugf("Status report: %s", spew.Sdump(report))
	}

	if report.Name != t.contact.Name {
		err = errors.NewDataIntegrityError("Server at %s reported name '%s' but is registered as '%s'",
			t.contact.Endpoint, report.Name, t.contact.Name)
	} else {
		err = t.store.RecordStatusReport(ctx, t.contact, report, t.now())
	}
	switch {
	case err == nil:
		logger.Debugf("Contact has %d running jobs, %d usable bytes", report.RunningJobs, report.LongTermUsableMemory)
	case errors.IsDataIntegrity(err):
		t.stat.Counter(stats.SchedContactIntegrityErrCounter).Inc(1)
		t.markUnreachable(ctx, err.Error())
	default:
		logger.Errorf("Unable to record status report: %v", err)
	}
}

func (t *statusTask) markUnreachable(ctx context.Context, reason string) {
	t.contact.SetUnreachable(t.now())
	if err := t.store.UpdateContact(ctx, t.contact); err != nil {
		log.WithFields(contactFields(t.contact)).Errorf("Unable to mark contact unreachable: %v", err)
	}
	t.raiseAdminMessage(ctx, t.contact.ID, reason)
}
