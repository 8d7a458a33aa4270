package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallStatusTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status CallStatus
		want   bool
	}{
		{name: "completed", status: CallCompleted, want: true},
		{name: "error", status: CallError, want: true},
		{name: "failed", status: CallFailed, want: true},
		{name: "busy", status: CallBusy, want: true},
		{name: "no-answer", status: CallNoAnswer, want: true},
		{name: "canceled", status: CallCanceled, want: true},
		{name: "queued", status: CallQueued, want: false},
		{name: "ringing", status: CallRinging, want: false},
		{name: "in-progress", status: CallInProgress, want: false},
		{name: "unknown status is not terminal", status: CallStatus("whatever"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Terminal())
		})
	}
}
