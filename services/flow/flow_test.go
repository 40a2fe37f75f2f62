package flow

import (
	"sync"
	"testing"
	"time"

	"islandeats/models"
	"islandeats/services/inquiry"
	"islandeats/services/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMatching struct {
	mu        sync.Mutex
	broadcast []*models.Inquiry
	done      chan struct{}
}

func newFakeMatching() *fakeMatching {
	return &fakeMatching{done: make(chan struct{}, 8)}
}

func (m *fakeMatching) RecordResponse(inquiryID, providerID string, accepted bool, responderIdentity string) inquiry.ResponseResult {
	return inquiry.ResponseResult{Outcome: inquiry.OutcomeRecorded}
}

func (m *fakeMatching) Broadcast(inq *models.Inquiry) {
	m.mu.Lock()
	m.broadcast = append(m.broadcast, inq)
	m.mu.Unlock()
	m.done <- struct{}{}
}

func (m *fakeMatching) waitBroadcast(t *testing.T) *models.Inquiry {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("broadcast never happened")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.broadcast[len(m.broadcast)-1]
}

type silentMessenger struct{}

func (silentMessenger) SendToRequester(string, models.Message) {}
func (silentMessenger) SendToProvider(string, models.Message)  {}

func newTestFlow() (*Service, inquiry.Registry, *fakeMatching, *scheduler.ManualScheduler) {
	reg := inquiry.NewDefaultRegistry()
	matching := newFakeMatching()
	sched := scheduler.NewManualScheduler()
	timeout := &inquiry.TimeoutMonitor{
		Registry:  reg,
		Scheduler: sched,
		Messenger: silentMessenger{},
		Logger:    zap.NewNop(),
	}
	svc := NewService(reg, matching, timeout, 15*time.Minute, zap.NewNop())
	return svc, reg, matching, sched
}

func TestFlow_Start(t *testing.T) {
	svc, _, _, _ := newTestFlow()

	msgs := svc.Start("user-1")
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MsgPromptLanguage, msgs[0].Kind)
	assert.Equal(t, models.LocaleJapanese, svc.Locale("user-1"))
}

func TestFlow_FullWalkNoTransport(t *testing.T) {
	svc, reg, matching, sched := newTestFlow()
	svc.Start("user-1")

	msgs, ok := svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepLanguage, Value: models.LocaleEnglish,
	})
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MsgPromptTime, msgs[0].Kind)
	assert.Len(t, msgs[0].TimeOptions, 6)
	assert.Equal(t, models.LocaleEnglish, svc.Locale("user-1"))

	wanted := time.Now().Add(3 * time.Hour).Truncate(time.Minute)
	msgs, ok = svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepTime, ISO: wanted.Format(time.RFC3339),
	})
	require.True(t, ok)
	assert.Equal(t, models.MsgPromptPartySize, msgs[0].Kind)

	msgs, ok = svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepPartySize, Value: "4",
	})
	require.True(t, ok)
	assert.Equal(t, models.MsgPromptTransport, msgs[0].Kind)

	msgs, ok = svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepTransport, Need: false,
	})
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MsgInquiryAck, msgs[0].Kind)
	require.NotNil(t, msgs[0].Inquiry)

	inq := matching.waitBroadcast(t)
	assert.Equal(t, msgs[0].Inquiry.ID, inq.ID)
	assert.Equal(t, "user-1", inq.RequesterID)
	assert.Equal(t, models.LocaleEnglish, inq.Locale)
	assert.Equal(t, 4, inq.PartySize)
	assert.False(t, inq.TransportNeeded)
	assert.True(t, wanted.Equal(inq.WantedTime))

	stored, ok := reg.Get(inq.ID)
	require.True(t, ok)
	assert.True(t, stored.TimeoutArmed)
	assert.Equal(t, 1, sched.Pending())
}

func TestFlow_LargePartyAndTransportDetail(t *testing.T) {
	svc, _, matching, _ := newTestFlow()
	svc.Start("user-1")

	_, ok := svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepLanguage, Value: models.LocaleJapanese,
	})
	require.True(t, ok)

	wanted := time.Now().Add(2 * time.Hour)
	_, ok = svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepTime, ISO: wanted.Format(time.RFC3339),
	})
	require.True(t, ok)

	msgs, ok := svc.HandlePostback("user-1", models.Postback{Step: models.PostbackStepPartySizePlus})
	require.True(t, ok)
	assert.Equal(t, models.MsgPromptPartySizeNumber, msgs[0].Kind)

	// Not a party size; re-prompt and stay put.
	msgs, ok = svc.HandleText("user-1", "a dozen")
	require.True(t, ok)
	assert.Equal(t, models.MsgInvalidPartySize, msgs[0].Kind)

	msgs, ok = svc.HandleText("user-1", "12")
	require.True(t, ok)
	assert.Equal(t, models.MsgPromptTransport, msgs[0].Kind)

	msgs, ok = svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepTransport, Need: true,
	})
	require.True(t, ok)
	assert.Equal(t, models.MsgPromptTransportDetail, msgs[0].Kind)

	msgs, ok = svc.HandleText("user-1", "Hotel Seaside")
	require.True(t, ok)
	assert.Equal(t, models.MsgInquiryAck, msgs[0].Kind)

	inq := matching.waitBroadcast(t)
	assert.Equal(t, 12, inq.PartySize)
	assert.True(t, inq.TransportNeeded)
	assert.Equal(t, "Hotel Seaside", inq.TransportDetail)
}

func TestFlow_OutOfOrderPostbackIgnored(t *testing.T) {
	svc, _, _, _ := newTestFlow()
	svc.Start("user-1")

	// Party size before language does not belong to the current step.
	_, ok := svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepPartySize, Value: "2",
	})
	assert.False(t, ok)
}

func TestFlow_TextWithoutSessionNotConsumed(t *testing.T) {
	svc, _, _, _ := newTestFlow()
	_, ok := svc.HandleText("stranger", "hello")
	assert.False(t, ok)
}

func TestFlow_InvalidTimeReprompts(t *testing.T) {
	svc, _, _, _ := newTestFlow()
	svc.Start("user-1")
	_, ok := svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepLanguage, Value: models.LocaleJapanese,
	})
	require.True(t, ok)

	msgs, ok := svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepTime, ISO: "not-a-time",
	})
	require.True(t, ok)
	assert.Equal(t, models.MsgPromptTime, msgs[0].Kind)
}

func TestFlow_RestartReplacesProgress(t *testing.T) {
	svc, _, _, _ := newTestFlow()
	svc.Start("user-1")
	_, ok := svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepLanguage, Value: models.LocaleEnglish,
	})
	require.True(t, ok)

	svc.Start("user-1")

	// Back at the language step.
	_, ok = svc.HandlePostback("user-1", models.Postback{
		Step: models.PostbackStepTime, ISO: time.Now().Format(time.RFC3339),
	})
	assert.False(t, ok)
	assert.Equal(t, models.LocaleJapanese, svc.Locale("user-1"))
}

func TestNextHalfHourSlots(t *testing.T) {
	base := time.Date(2026, 8, 28, 18, 10, 0, 0, time.UTC)
	slots := nextHalfHourSlots(base, 3)
	require.Len(t, slots, 3)
	assert.Equal(t, time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC), slots[1])
	assert.Equal(t, time.Date(2026, 8, 28, 19, 30, 0, 0, time.UTC), slots[2])

	past30 := time.Date(2026, 8, 28, 18, 45, 0, 0, time.UTC)
	slots = nextHalfHourSlots(past30, 2)
	assert.Equal(t, time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 8, 28, 19, 30, 0, 0, time.UTC), slots[1])
}
