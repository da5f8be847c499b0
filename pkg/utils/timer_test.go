package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPhases(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	timer := NewTimer("test-run", WithClock(clock))

	phase := timer.Start("parse")
	clock.Advance(150 * time.Millisecond)
	d := phase.Stop()

	assert.Equal(t, 150*time.Millisecond, d)
	assert.Equal(t, 150*time.Millisecond, timer.GetDuration("parse"))
}

func TestTimerStopIsIdempotent(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("test-run", WithClock(clock))

	phase := timer.Start("load")
	clock.Advance(10 * time.Millisecond)
	first := phase.Stop()

	clock.Advance(time.Hour)
	second := phase.Stop()

	assert.Equal(t, first, second)
}

func TestTimerTotalDuration(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("test-run", WithClock(clock))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2*time.Second, timer.TotalDuration())
}

func TestTimerSummary(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("analysis", WithClock(clock))

	p1 := timer.Start("load")
	clock.Advance(5 * time.Millisecond)
	p1.Stop()

	p2 := timer.Start("parse")
	clock.Advance(20 * time.Millisecond)
	p2.Stop()

	summary := timer.Summary()
	assert.Contains(t, summary, "analysis Timing Summary")
	assert.Contains(t, summary, "Phase 1 - load")
	assert.Contains(t, summary, "Phase 2 - parse")
	assert.Contains(t, summary, "Total:")
}

func TestTimerDisabled(t *testing.T) {
	timer := NewTimer("noop", WithEnabled(false))

	phase := timer.Start("anything")
	assert.Equal(t, time.Duration(0), phase.Stop())
	assert.Equal(t, time.Duration(0), timer.GetDuration("anything"))
	assert.Empty(t, timer.Summary())
}

func TestTimerStopUnknownPhase(t *testing.T) {
	timer := NewTimer("test-run")
	assert.Equal(t, time.Duration(0), timer.StopPhase("never-started"))
}

func TestTimeFuncWithError(t *testing.T) {
	clock := NewMockClock(time.Now())
	timer := NewTimer("test-run", WithClock(clock))

	wantErr := errors.New("fn failed")
	d, err := timer.TimeFuncWithError("work", func() error {
		clock.Advance(30 * time.Millisecond)
		return wantErr
	})

	assert.Equal(t, 30*time.Millisecond, d)
	assert.Equal(t, wantErr, err)
}
