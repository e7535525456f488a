package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/scheduler/pool"
	"github.com/benchly/dispatch/store"
)

func TestStatusRecordsReport(t *testing.T) {
	h := newHarness(t)
	sim, endpoint := h.serve("alpha", 6*gb)
	contact, err := h.disp.AddContact(h.ctx, endpoint)
	require.NoError(t, err)
	assert.Equal(t, "alpha", contact.Name)
	assert.Nil(t, contact.LastChecked)

	assert.Equal(t, 1, h.tick(contactWatcherLoop))

	got := h.contact(contact.ID)
	assert.Equal(t, domain.Reachable, got.Reachability)
	assert.Equal(t, 6*gb, got.ApproximateUsableMemory)
	assert.Equal(t, 0, got.ApproximateRunningJobs)
	assert.Equal(t, t0, *got.LastChecked)
	// One from the name check when the contact was added.
	assert.Equal(t, 2, sim.Requests("GET status"))

	reports, err := h.store.ListStatusReports(h.ctx, contact.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "alpha", reports[0].Name)
	assert.Equal(t, t0, reports[0].CollectedAt)

	// Fresh contacts are left alone until the threshold passes.
	assert.Equal(t, 0, h.tick(contactWatcherLoop))
	h.advance(DefaultContactCheckThreshold)
	assert.Equal(t, 1, h.tick(contactWatcherLoop))
}

func TestStatusUnavailableMarksContactUnreachable(t *testing.T) {
	h := newHarness(t)
	sim, contact := h.addContact("A", 4*gb, 1)
	sim.SetStatusFailure(http.StatusServiceUnavailable)

	h.advance(DefaultContactCheckThreshold)
	h.tick(contactWatcherLoop)

	got := h.contact(contact.ID)
	assert.Equal(t, domain.Unreachable, got.Reachability)
	assert.Equal(t, h.now, *got.LastChecked)
	// Capacity is kept as last observed.
	assert.Equal(t, 4*gb, got.ApproximateUsableMemory)

	msgs, err := h.store.ListAdminMessages(h.ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, contact.ID, msgs[0].ContactID)
	assert.Contains(t, msgs[0].Content, "Unable to contact Server for report on: "+contact.Endpoint)

	reports, err := h.store.ListStatusReports(h.ctx, contact.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.EqualValues(t, 1, h.counter(stats.SchedContactUnreachableCounter))

	// Unreachable contacts get no jobs, but are still checked and can recover.
	job := h.createJob(gb)
	h.tick(jobSchedulerLoop)
	assert.Equal(t, domain.Pending, h.job(job.ID).State)

	sim.SetStatusFailure(0)
	h.advance(DefaultContactCheckThreshold)
	h.tick(contactWatcherLoop)
	assert.Equal(t, domain.Reachable, h.contact(contact.ID).Reachability)

	h.tick(jobSchedulerLoop)
	assert.Equal(t, domain.Submitted, h.job(job.ID).State)
}

func TestStatusNameMismatchIsIntegrityError(t *testing.T) {
	h := newHarness(t)
	sim, contact := h.addContact("A", 4*gb, 0)
	sim.SetName("impostor")

	h.advance(DefaultContactCheckThreshold)
	h.tick(contactWatcherLoop)

	got := h.contact(contact.ID)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, domain.Unreachable, got.Reachability)

	msgs, _ := h.store.ListAdminMessages(h.ctx)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "impostor")
	reports, _ := h.store.ListStatusReports(h.ctx, contact.ID)
	assert.Empty(t, reports)
	assert.EqualValues(t, 1, h.counter(stats.SchedContactIntegrityErrCounter))
}

func TestAdminMessageFailureIsContained(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := store.NewMockStore(ctrl)
	stat := stats.DefaultStatsReceiver()

	contact := &domain.Contact{ID: 3, Name: "A", Endpoint: "http://a"}
	st.EXPECT().UpdateContact(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, c *domain.Contact) error {
			assert.Equal(t, domain.Unreachable, c.Reachability)
			return nil
		})
	st.EXPECT().CreateAdminMessage(gomock.Any(), gomock.Any()).Return(errors.New("store down"))

	d := &deps{store: st, client: &refusingClient{}, exec: pool.NewManual(), stat: stat,
		now: func() time.Time { return t0 }, config: Config{}.WithDefaults()}
	d.newStatusTask(contact).run(context.Background())

	assert.EqualValues(t, 1, stat.Counter(stats.SchedAdminMessageErrCounter).Count())
}
