package inquiry

import (
	"testing"
	"time"

	"islandeats/models"
	"islandeats/services/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTimeout() (*TimeoutMonitor, *DefaultRegistry, *scheduler.ManualScheduler, *fakeMessenger) {
	reg := NewDefaultRegistry()
	sched := scheduler.NewManualScheduler()
	msgr := &fakeMessenger{}
	mon := &TimeoutMonitor{
		Registry:  reg,
		Scheduler: sched,
		Messenger: msgr,
		Logger:    zap.NewNop(),
	}
	return mon, reg, sched, msgr
}

func TestTimeout_NoResponsesNotifiesRequester(t *testing.T) {
	mon, reg, sched, msgr := newTestTimeout()
	inq := reg.Create(testPreferences("user-1"), 15*time.Minute)

	mon.Arm(inq.ID)
	require.Equal(t, 1, sched.Pending())

	sched.Advance(inq.Deadline)

	got, _ := reg.Get(inq.ID)
	assert.True(t, got.Closed)
	assert.False(t, got.Confirmed)

	sent := msgr.requesterMessages(models.MsgNoProviders)
	require.Len(t, sent, 1)
	assert.Equal(t, "user-1", sent[0].To)
}

func TestTimeout_WithAcceptanceStaysSilent(t *testing.T) {
	// Scenario B: the deadline closes the inquiry, but a pending acceptance
	// means the requester is not told "no providers".
	mon, reg, sched, msgr := newTestTimeout()
	inq := reg.Create(testPreferences("user-1"), 15*time.Minute)
	reg.Update(inq.ID, func(cur *models.Inquiry) {
		cur.AcceptedProviders = append(cur.AcceptedProviders, "ST1")
	})

	mon.Arm(inq.ID)
	sched.Advance(inq.Deadline)

	got, _ := reg.Get(inq.ID)
	assert.True(t, got.Closed)
	assert.Empty(t, msgr.requesterMessages(models.MsgNoProviders))
}

func TestTimeout_ArmIsIdempotent(t *testing.T) {
	mon, reg, sched, _ := newTestTimeout()
	inq := reg.Create(testPreferences("user-1"), 15*time.Minute)

	mon.Arm(inq.ID)
	mon.Arm(inq.ID)
	mon.Arm(inq.ID)

	assert.Equal(t, 1, sched.Pending())
}

func TestTimeout_ArmUnknownInquiry(t *testing.T) {
	mon, _, sched, _ := newTestTimeout()
	mon.Arm("REQ-missing")
	assert.Zero(t, sched.Pending())
}

func TestTimeout_FireAfterCloseIsNoOp(t *testing.T) {
	// The cap or a confirmation already closed the inquiry before the timer
	// fired; the late timer must not send anything.
	mon, reg, sched, msgr := newTestTimeout()
	inq := reg.Create(testPreferences("user-1"), 15*time.Minute)
	mon.Arm(inq.ID)

	closedAt := time.Now()
	reg.Update(inq.ID, func(cur *models.Inquiry) {
		cur.Closed = true
		cur.ClosedAt = closedAt
	})

	sched.Advance(inq.Deadline)

	got, _ := reg.Get(inq.ID)
	assert.Equal(t, closedAt.Unix(), got.ClosedAt.Unix())
	assert.Empty(t, msgr.requesterMessages(models.MsgNoProviders))
}
