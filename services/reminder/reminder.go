package reminder

import (
	"time"

	"islandeats/models"
	"islandeats/services/inquiry"
	"islandeats/services/notification"
	"islandeats/services/scheduler"

	"go.uber.org/zap"
)

// Scheduler sends one pre-appointment reminder per confirmed inquiry to both
// sides of the booking. Delivery is fire-and-forget and never re-arms.
type Scheduler struct {
	Registry  inquiry.Registry
	Directory directoryLookup
	Scheduler scheduler.Scheduler
	Messenger notification.Messenger
	Logger    *zap.Logger

	// Lead is how long before the appointment the reminder fires.
	Lead time.Duration
}

type directoryLookup interface {
	Lookup(providerID string) (*models.ProviderRecord, bool)
}

func NewScheduler(reg inquiry.Registry, dir directoryLookup, sched scheduler.Scheduler, msgr notification.Messenger, lead time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Registry:  reg,
		Directory: dir,
		Scheduler: sched,
		Messenger: msgr,
		Lead:      lead,
		Logger:    logger,
	}
}

// Arm schedules the one-shot reminder at wantedTime − lead. It is a no-op
// unless the inquiry is confirmed, and the armed flag is checked-and-set
// inside the registry update so arming twice never schedules two callbacks.
// A fire time already in the past fires immediately.
func (s *Scheduler) Arm(inquiryID string) {
	armed := false
	var fireAt time.Time
	s.Registry.Update(inquiryID, func(inq *models.Inquiry) {
		if !inq.Confirmed || inq.ReminderArmed {
			return
		}
		inq.ReminderArmed = true
		fireAt = inq.WantedTime.Add(-s.Lead)
		armed = true
	})
	if !armed {
		return
	}

	s.Logger.Info("reminder armed",
		zap.String("inquiryId", inquiryID),
		zap.Time("fireAt", fireAt))

	s.Scheduler.ScheduleAt(fireAt, func() { s.fire(inquiryID) })
}

func (s *Scheduler) fire(inquiryID string) {
	inq, ok := s.Registry.Get(inquiryID)
	if !ok {
		s.Logger.Warn("reminder fired for missing inquiry", zap.String("inquiryId", inquiryID))
		return
	}
	// Confirmed cannot un-set, but the re-check keeps the guard in one place.
	if !inq.Confirmed {
		return
	}

	s.Messenger.SendToRequester(inq.RequesterID, models.Message{
		Kind:    models.MsgReminderRequester,
		Locale:  inq.Locale,
		Inquiry: inq,
	})

	if prov, found := s.Directory.Lookup(inq.ConfirmedProviderID); found {
		s.Messenger.SendToProvider(prov.ChannelIdentity, models.Message{
			Kind:         models.MsgReminderProvider,
			Locale:       inq.Locale,
			Inquiry:      inq,
			Provider:     prov,
			ContactName:  inq.ContactName,
			ContactPhone: inq.ContactPhone,
		})
	}

	s.Logger.Info("reminder sent", zap.String("inquiryId", inquiryID))
}
