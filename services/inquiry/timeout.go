package inquiry

import (
	"time"

	"islandeats/models"
	"islandeats/services/notification"
	"islandeats/services/scheduler"

	"go.uber.org/zap"
)

// TimeoutMonitor closes every inquiry whose deadline elapses, so an inquiry
// reaches closed=true even if no provider ever responds and the requester
// never acts.
type TimeoutMonitor struct {
	Registry  Registry
	Scheduler scheduler.Scheduler
	Messenger notification.Messenger
	Logger    *zap.Logger
}

// Arm schedules exactly one deferred check at the inquiry's deadline. Arming
// twice is a no-op: the armed flag is checked-and-set inside the registry
// update, before anything is handed to the scheduler.
func (m *TimeoutMonitor) Arm(inquiryID string) {
	var deadline time.Time
	armed := false
	found := m.Registry.Update(inquiryID, func(inq *models.Inquiry) {
		if inq.TimeoutArmed {
			return
		}
		inq.TimeoutArmed = true
		deadline = inq.Deadline
		armed = true
	})
	if !found || !armed {
		return
	}
	m.Scheduler.ScheduleAt(deadline, func() { m.fire(inquiryID) })
}

// fire runs at the deadline. Already closed means someone else won the race
// (cap or finalization) and there is nothing to do.
func (m *TimeoutMonitor) fire(inquiryID string) {
	var snapshot *models.Inquiry
	notifyEmpty := false
	m.Registry.Update(inquiryID, func(inq *models.Inquiry) {
		if inq.Closed {
			return
		}
		inq.Closed = true
		inq.ClosedAt = time.Now()
		notifyEmpty = len(inq.AcceptedProviders) == 0
		snapshot = inq.Clone()
	})
	if snapshot == nil {
		return
	}

	m.Logger.Info("inquiry deadline elapsed",
		zap.String("inquiryId", inquiryID),
		zap.Int("accepted", len(snapshot.AcceptedProviders)))

	if notifyEmpty {
		m.Messenger.SendToRequester(snapshot.RequesterID, models.Message{
			Kind:    models.MsgNoProviders,
			Locale:  snapshot.Locale,
			Inquiry: snapshot,
		})
	}
}
