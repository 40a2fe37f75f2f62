package flow

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"islandeats/models"
	"islandeats/services/inquiry"

	"go.uber.org/zap"
)

// promptState names what answer the flow is waiting for. Every reachable
// step is listed; there is no implicit "missing key" state.
type promptState string

const (
	stateAwaitLanguage        promptState = "await_language"
	stateAwaitTime            promptState = "await_time"
	stateAwaitPartySize       promptState = "await_party_size"
	stateAwaitPartySizeNumber promptState = "await_party_size_number"
	stateAwaitTransport       promptState = "await_transport"
	stateAwaitTransportDetail promptState = "await_transport_detail"
)

type session struct {
	State           promptState
	Locale          string
	WantedTime      time.Time
	PartySize       int
	TransportNeeded bool
	TransportDetail string
	LastInquiryID   string
}

var partySizePattern = regexp.MustCompile(`^\d{1,2}$`)

// Service runs the linear preference prompts and hands the completed tuple
// to the engine. It never touches inquiry state directly.
type Service struct {
	Registry inquiry.Registry
	Matching inquiry.MatchingService
	Timeout  *inquiry.TimeoutMonitor
	TTL      time.Duration
	Logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewService(reg inquiry.Registry, matching inquiry.MatchingService, timeout *inquiry.TimeoutMonitor, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		Registry: reg,
		Matching: matching,
		Timeout:  timeout,
		TTL:      ttl,
		Logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Start resets the requester's flow and asks for a language.
func (s *Service) Start(requesterID string) []models.Message {
	s.mu.Lock()
	s.sessions[requesterID] = &session{State: stateAwaitLanguage, Locale: models.LocaleJapanese}
	s.mu.Unlock()
	return []models.Message{{Kind: models.MsgPromptLanguage}}
}

// Locale returns the requester's chosen language, defaulting to Japanese.
func (s *Service) Locale(requesterID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[requesterID]; ok && sess.Locale != "" {
		return sess.Locale
	}
	return models.LocaleJapanese
}

// HandlePostback consumes a prompt-sequence answer. The second return value
// is false when the postback does not belong to this flow.
func (s *Service) HandlePostback(requesterID string, pb models.Postback) ([]models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[requesterID]
	if !ok {
		return nil, false
	}

	switch pb.Step {
	case models.PostbackStepLanguage:
		if sess.State != stateAwaitLanguage {
			return nil, false
		}
		if pb.Value == models.LocaleEnglish {
			sess.Locale = models.LocaleEnglish
		} else {
			sess.Locale = models.LocaleJapanese
		}
		sess.State = stateAwaitTime
		return []models.Message{{
			Kind:        models.MsgPromptTime,
			Locale:      sess.Locale,
			TimeOptions: nextHalfHourSlots(time.Now(), 6),
		}}, true

	case models.PostbackStepTime:
		if sess.State != stateAwaitTime {
			return nil, false
		}
		wanted, err := time.Parse(time.RFC3339, pb.ISO)
		if err != nil {
			return []models.Message{{
				Kind:        models.MsgPromptTime,
				Locale:      sess.Locale,
				TimeOptions: nextHalfHourSlots(time.Now(), 6),
			}}, true
		}
		sess.WantedTime = wanted
		sess.State = stateAwaitPartySize
		return []models.Message{{Kind: models.MsgPromptPartySize, Locale: sess.Locale}}, true

	case models.PostbackStepPartySize:
		if sess.State != stateAwaitPartySize {
			return nil, false
		}
		n, err := strconv.Atoi(pb.Value)
		if err != nil || n <= 0 {
			return []models.Message{{Kind: models.MsgPromptPartySize, Locale: sess.Locale}}, true
		}
		sess.PartySize = n
		sess.State = stateAwaitTransport
		return []models.Message{{Kind: models.MsgPromptTransport, Locale: sess.Locale}}, true

	case models.PostbackStepPartySizePlus:
		if sess.State != stateAwaitPartySize {
			return nil, false
		}
		sess.State = stateAwaitPartySizeNumber
		return []models.Message{{Kind: models.MsgPromptPartySizeNumber, Locale: sess.Locale}}, true

	case models.PostbackStepTransport:
		if sess.State != stateAwaitTransport {
			return nil, false
		}
		sess.TransportNeeded = pb.Need
		if pb.Need {
			sess.State = stateAwaitTransportDetail
			return []models.Message{{Kind: models.MsgPromptTransportDetail, Locale: sess.Locale}}, true
		}
		return s.startInquiryLocked(requesterID, sess), true
	}

	return nil, false
}

// HandleText consumes free text when the flow awaits it (numeric party size,
// hotel name). The second return value is false when the text is not for
// this flow.
func (s *Service) HandleText(requesterID, text string) ([]models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[requesterID]
	if !ok {
		return nil, false
	}
	text = strings.TrimSpace(text)

	switch sess.State {
	case stateAwaitPartySizeNumber:
		if !partySizePattern.MatchString(text) {
			return []models.Message{{Kind: models.MsgInvalidPartySize, Locale: sess.Locale}}, true
		}
		n, _ := strconv.Atoi(text)
		if n <= 0 {
			return []models.Message{{Kind: models.MsgInvalidPartySize, Locale: sess.Locale}}, true
		}
		sess.PartySize = n
		sess.State = stateAwaitTransport
		return []models.Message{{Kind: models.MsgPromptTransport, Locale: sess.Locale}}, true

	case stateAwaitTransportDetail:
		sess.TransportDetail = text
		return s.startInquiryLocked(requesterID, sess), true
	}

	return nil, false
}

// startInquiryLocked finishes the flow: creates the inquiry, broadcasts it
// and arms the deadline watcher. Caller holds s.mu.
func (s *Service) startInquiryLocked(requesterID string, sess *session) []models.Message {
	pref := models.PreferenceSet{
		RequesterID:     requesterID,
		Locale:          sess.Locale,
		WantedTime:      sess.WantedTime,
		PartySize:       sess.PartySize,
		TransportNeeded: sess.TransportNeeded,
		TransportDetail: sess.TransportDetail,
	}
	inq := s.Registry.Create(pref, s.TTL)
	sess.LastInquiryID = inq.ID
	sess.State = stateAwaitLanguage // flow finished; a new Start replaces it anyway

	s.Logger.Info("inquiry created",
		zap.String("inquiryId", inq.ID),
		zap.String("requesterId", requesterID),
		zap.Int("partySize", inq.PartySize),
		zap.Bool("transport", inq.TransportNeeded))

	// Broadcast and the deadline watcher run outside the requester's reply
	// path; neither blocks on the channel.
	go s.Matching.Broadcast(inq)
	s.Timeout.Arm(inq.ID)

	return []models.Message{{Kind: models.MsgInquiryAck, Locale: sess.Locale, Inquiry: inq}}
}

// nextHalfHourSlots suggests the next n half-hour boundaries after now.
func nextHalfHourSlots(now time.Time, n int) []time.Time {
	minute := 30
	if now.Minute() >= 30 {
		minute = 60
	}
	start := now.Truncate(time.Hour).Add(time.Duration(minute) * time.Minute)
	slots := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, start.Add(time.Duration(30*i)*time.Minute))
	}
	return slots
}
