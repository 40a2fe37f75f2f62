package inquiry

import (
	"context"
	"sync"
	"time"

	"islandeats/models"
)

// fakeMessenger records every outbound message instead of touching a channel.
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

// stubDirectory is a fixed in-memory directory.
type stubDirectory struct {
	records []models.ProviderRecord
}

func newStubDirectory(records ...models.ProviderRecord) *stubDirectory {
	return &stubDirectory{records: records}
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

func testProvider(id, identity string, transportCapable bool) models.ProviderRecord {
	return models.ProviderRecord{
		ID:               id,
		DisplayName:      "Restaurant " + id,
		Profile:          "Island dining, five minutes from the port.",
		MapURL:           "https://maps.example.com/" + id,
		TransportCapable: transportCapable,
		ChannelIdentity:  identity,
	}
}

func testPreferences(requesterID string) models.PreferenceSet {
	return models.PreferenceSet{
		RequesterID: requesterID,
		Locale:      models.LocaleJapanese,
		WantedTime:  time.Now().Add(3 * time.Hour),
		PartySize:   2,
	}
}
