package booking

import (
	"strings"
	"sync"
	"time"

	"islandeats/models"
	"islandeats/services/directory"
	"islandeats/services/inquiry"
	"islandeats/services/notification"

	"go.uber.org/zap"
)

// ReminderArmer is the slice of the reminder scheduler the coordinator needs.
type ReminderArmer interface {
	Arm(inquiryID string)
}

// Service walks a requester from picking a candidate to a confirmed booking.
type Service interface {
	BeginSelection(requesterID, inquiryID, providerID string) (*models.PendingSelection, error)
	SubmitName(requesterID, text string) (*models.PendingSelection, error)
	SubmitPhone(requesterID, text, locale string) (*models.PendingSelection, error)
	Confirm(requesterID string) (*ConfirmResult, error)
	Cancel(requesterID string) bool
	Peek(requesterID string) (*models.PendingSelection, bool)
}

// ConfirmResult reports a finalization attempt. AlreadyConfirmed means the
// inquiry was finalized earlier and nothing was sent this time.
type ConfirmResult struct {
	AlreadyConfirmed bool
	Inquiry          *models.Inquiry
	Provider         *models.ProviderRecord
}

// DefaultBookingService implements Service. The per-requester selection map
// is the coordinator's only shared state; every transition runs under its
// mutex so a requester's inputs are applied one at a time.
type DefaultBookingService struct {
	Registry  inquiry.Registry
	Directory directory.Service
	Messenger notification.Messenger
	Reminder  ReminderArmer
	Logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*models.PendingSelection
}

func NewDefaultBookingService(reg inquiry.Registry, dir directory.Service, msgr notification.Messenger, rem ReminderArmer, logger *zap.Logger) *DefaultBookingService {
	return &DefaultBookingService{
		Registry:  reg,
		Directory: dir,
		Messenger: msgr,
		Reminder:  rem,
		Logger:    logger,
		sessions:  make(map[string]*models.PendingSelection),
	}
}

// BeginSelection creates (or replaces) the requester's pending selection
// against one accepted provider. An empty inquiryID falls back to the
// requester's most recent inquiry, for candidate cards that outlived the
// session that produced them.
func (s *DefaultBookingService) BeginSelection(requesterID, inquiryID, providerID string) (*models.PendingSelection, error) {
	var inq *models.Inquiry
	var ok bool
	if inquiryID != "" {
		inq, ok = s.Registry.Get(inquiryID)
	} else {
		inq, ok = s.Registry.MostRecentFor(requesterID)
	}
	if !ok {
		return nil, ErrInvalidSelection
	}
	if !inq.HasAccepted(providerID) {
		return nil, ErrInvalidSelection
	}

	sel := &models.PendingSelection{
		RequesterID: requesterID,
		InquiryID:   inq.ID,
		ProviderID:  providerID,
		State:       models.SelectionAwaitingName,
	}

	s.mu.Lock()
	s.sessions[requesterID] = sel
	s.mu.Unlock()

	s.Logger.Info("selection started",
		zap.String("requesterId", requesterID),
		zap.String("inquiryId", inq.ID),
		zap.String("providerId", providerID))

	return clone(sel), nil
}

// SubmitName stores the trimmed contact name; valid only while awaiting it.
func (s *DefaultBookingService) SubmitName(requesterID, text string) (*models.PendingSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.sessions[requesterID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sel.State != models.SelectionAwaitingName {
		return nil, ErrNotAwaitingInput
	}
	sel.ContactName = strings.TrimSpace(text)
	sel.State = models.SelectionAwaitingPhone
	return clone(sel), nil
}

// SubmitPhone validates the phone under the locale and advances to the final
// confirmation step. An invalid phone leaves the state untouched so the
// channel can re-prompt.
func (s *DefaultBookingService) SubmitPhone(requesterID, text, locale string) (*models.PendingSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.sessions[requesterID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sel.State != models.SelectionAwaitingPhone {
		return nil, ErrNotAwaitingInput
	}
	phone := strings.TrimSpace(text)
	if !ValidPhone(phone, locale) {
		return nil, ErrInvalidPhoneFormat
	}
	sel.ContactPhone = phone
	sel.State = models.SelectionAwaitingConfirmation
	return clone(sel), nil
}

// Confirm performs the exactly-once finalization. The confirmed/closed flags
// and the contact fields are written in one registry update; that update is
// the linearization point after which any late provider acceptance observes
// closed=true.
func (s *DefaultBookingService) Confirm(requesterID string) (*ConfirmResult, error) {
	s.mu.Lock()
	sel, ok := s.sessions[requesterID]
	if !ok {
		s.mu.Unlock()
		// A retried confirmation trigger lands here after the selection was
		// destroyed. If the requester's inquiry is already finalized, answer
		// AlreadyConfirmed instead of an error, and send nothing.
		if inq, found := s.Registry.MostRecentFor(requesterID); found && inq.Confirmed {
			prov, _ := s.Directory.Lookup(inq.ConfirmedProviderID)
			return &ConfirmResult{AlreadyConfirmed: true, Inquiry: inq, Provider: prov}, nil
		}
		return nil, ErrSessionNotFound
	}
	if sel.State != models.SelectionAwaitingConfirmation {
		s.mu.Unlock()
		return nil, ErrNotAwaitingInput
	}
	sel = clone(sel)
	s.mu.Unlock()

	already := false
	var snapshot *models.Inquiry
	found := s.Registry.Update(sel.InquiryID, func(inq *models.Inquiry) {
		if inq.Confirmed {
			already = true
			snapshot = inq.Clone()
			return
		}
		inq.Confirmed = true
		if !inq.Closed {
			inq.Closed = true
			inq.ClosedAt = time.Now()
		}
		inq.ConfirmedProviderID = sel.ProviderID
		inq.ContactName = sel.ContactName
		inq.ContactPhone = sel.ContactPhone
		snapshot = inq.Clone()
	})
	if !found {
		return nil, ErrInvalidSelection
	}

	prov, _ := s.Directory.Lookup(snapshot.ConfirmedProviderID)

	// The selection is finished either way; a duplicate trigger must not
	// leave a live session behind.
	s.mu.Lock()
	delete(s.sessions, requesterID)
	s.mu.Unlock()

	if already {
		s.Logger.Info("finalization repeated, ignoring",
			zap.String("requesterId", requesterID),
			zap.String("inquiryId", snapshot.ID))
		return &ConfirmResult{AlreadyConfirmed: true, Inquiry: snapshot, Provider: prov}, nil
	}

	s.Logger.Info("booking finalized",
		zap.String("requesterId", requesterID),
		zap.String("inquiryId", snapshot.ID),
		zap.String("providerId", snapshot.ConfirmedProviderID))

	// Post-commit notifications, fire-and-forget.
	if prov != nil {
		s.Messenger.SendToProvider(prov.ChannelIdentity, models.Message{
			Kind:         models.MsgBookingConfirmedProvider,
			Locale:       snapshot.Locale,
			Inquiry:      snapshot,
			Provider:     prov,
			ContactName:  snapshot.ContactName,
			ContactPhone: snapshot.ContactPhone,
		})
	}
	s.Messenger.SendToRequester(requesterID, models.Message{
		Kind:     models.MsgBookingConfirmedRequester,
		Locale:   snapshot.Locale,
		Inquiry:  snapshot,
		Provider: prov,
	})

	s.Reminder.Arm(snapshot.ID)

	return &ConfirmResult{Inquiry: snapshot, Provider: prov}, nil
}

// Cancel discards the pending selection without touching the inquiry.
func (s *DefaultBookingService) Cancel(requesterID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[requesterID]; !ok {
		return false
	}
	delete(s.sessions, requesterID)
	return true
}

// Peek returns the requester's current selection, if any.
func (s *DefaultBookingService) Peek(requesterID string) (*models.PendingSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.sessions[requesterID]
	if !ok {
		return nil, false
	}
	return clone(sel), true
}

func clone(sel *models.PendingSelection) *models.PendingSelection {
	cp := *sel
	return &cp
}
