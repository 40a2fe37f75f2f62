package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerScheduler_Fires(t *testing.T) {
	s := NewTimerScheduler()
	done := make(chan struct{})

	s.ScheduleAt(time.Now().Add(10*time.Millisecond), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestTimerScheduler_PastTimeFiresImmediately(t *testing.T) {
	s := NewTimerScheduler()
	done := make(chan struct{})

	s.ScheduleAt(time.Now().Add(-time.Minute), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestTimerScheduler_Cancel(t *testing.T) {
	s := NewTimerScheduler()
	fired := make(chan struct{}, 1)

	cancel := s.ScheduleAt(time.Now().Add(50*time.Millisecond), func() {
		fired <- struct{}{}
	})
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestManualScheduler_AdvanceFiresDueOnly(t *testing.T) {
	s := NewManualScheduler()
	now := time.Now()
	var order []string

	s.ScheduleAt(now.Add(time.Minute), func() { order = append(order, "early") })
	s.ScheduleAt(now.Add(time.Hour), func() { order = append(order, "late") })

	s.Advance(now.Add(time.Minute))
	require.Equal(t, []string{"early"}, order)
	assert.Equal(t, 1, s.Pending())

	s.Advance(now.Add(time.Hour))
	assert.Equal(t, []string{"early", "late"}, order)
	assert.Zero(t, s.Pending())
}

func TestManualScheduler_Cancel(t *testing.T) {
	s := NewManualScheduler()
	now := time.Now()
	fired := false

	cancel := s.ScheduleAt(now.Add(time.Minute), func() { fired = true })
	cancel()

	s.Advance(now.Add(time.Hour))
	assert.False(t, fired)
	assert.Zero(t, s.Pending())
}
