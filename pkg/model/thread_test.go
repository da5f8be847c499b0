package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseThreadState(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected ThreadState
	}{
		{"runnable", "RUNNABLE", StateRunnable},
		{"blocked", "BLOCKED", StateBlocked},
		{"waiting", "WAITING", StateWaiting},
		{"timed waiting", "TIMED_WAITING", StateTimedWaiting},
		{"new", "NEW", StateNew},
		{"terminated", "TERMINATED", StateTerminated},
		{"unrecognized token", "PARKED", StateUnknown},
		{"lowercase not accepted", "runnable", StateUnknown},
		{"empty token", "", StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseThreadState(tt.token))
		})
	}
}

func TestThreadStateIsBlocking(t *testing.T) {
	assert.True(t, StateBlocked.IsBlocking())
	assert.True(t, StateWaiting.IsBlocking())
	assert.True(t, StateTimedWaiting.IsBlocking())

	assert.False(t, StateRunnable.IsBlocking())
	assert.False(t, StateNew.IsBlocking())
	assert.False(t, StateTerminated.IsBlocking())
	assert.False(t, StateUnknown.IsBlocking())
}
