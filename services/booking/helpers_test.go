package booking

import (
	"context"
	"sync"
	"time"

	"islandeats/models"
	"islandeats/services/inquiry"

	"go.uber.org/zap"
)

type fakeMessenger struct {
	mu          sync.Mutex
	toRequester []sentMessage
	toProvider  []sentMessage
}

type sentMessage struct {
	To  string
	Msg models.Message
}

func (m *fakeMessenger) SendToRequester(requesterID string, msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toRequester = append(m.toRequester, sentMessage{To: requesterID, Msg: msg})
}

func (m *fakeMessenger) SendToProvider(channelIdentity string, msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toProvider = append(m.toProvider, sentMessage{To: channelIdentity, Msg: msg})
}

func (m *fakeMessenger) requesterMessages(kind models.MessageKind) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.toRequester {
		if s.Msg.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMessenger) providerMessages(kind models.MessageKind) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.toProvider {
		if s.Msg.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

type stubDirectory struct {
	records []models.ProviderRecord
}

func (d *stubDirectory) Lookup(providerID string) (*models.ProviderRecord, bool) {
	for _, rec := range d.records {
		if rec.ID == providerID {
			cp := rec
			return &cp, true
		}
	}
	return nil, false
}

func (d *stubDirectory) Eligible(transportNeeded bool) []models.ProviderRecord {
	var out []models.ProviderRecord
	for _, rec := range d.records {
		if transportNeeded && !rec.TransportCapable {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (d *stubDirectory) Refresh(ctx context.Context) error { return nil }

type fakeArmer struct {
	mu    sync.Mutex
	armed []string
}

func (a *fakeArmer) Arm(inquiryID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.armed = append(a.armed, inquiryID)
}

func (a *fakeArmer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.armed)
}

// newTestBooking wires a booking service over a fresh registry with one
// inquiry that already has one accepted candidate.
func newTestBooking() (*DefaultBookingService, inquiry.Registry, *models.Inquiry, *fakeMessenger, *fakeArmer) {
	reg := inquiry.NewDefaultRegistry()
	inq := reg.Create(models.PreferenceSet{
		RequesterID: "user-1",
		Locale:      models.LocaleJapanese,
		WantedTime:  time.Now().Add(3 * time.Hour),
		PartySize:   2,
	}, 15*time.Minute)
	reg.Update(inq.ID, func(cur *models.Inquiry) {
		cur.AcceptedProviders = append(cur.AcceptedProviders, "ST1")
	})
	inq, _ = reg.Get(inq.ID)

	dir := &stubDirectory{records: []models.ProviderRecord{{
		ID:              "ST1",
		DisplayName:     "Restaurant ST1",
		ChannelIdentity: "LINE-ST1",
	}}}
	msgr := &fakeMessenger{}
	armer := &fakeArmer{}
	svc := NewDefaultBookingService(reg, dir, msgr, armer, zap.NewNop())
	return svc, reg, inq, msgr, armer
}
