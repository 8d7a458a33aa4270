// Package domain contains entity without logic, just meta-data
package domain

// CallStatus is the provider's view of a call, delivered by status
// callbacks.
type CallStatus string

const (
	CallQueued     CallStatus = "queued"
	CallRinging    CallStatus = "ringing"
	CallInProgress CallStatus = "in-progress"
	CallCompleted  CallStatus = "completed"
	CallBusy       CallStatus = "busy"
	CallFailed     CallStatus = "failed"
	CallNoAnswer   CallStatus = "no-answer"
	CallCanceled   CallStatus = "canceled"
	CallError      CallStatus = "error"
)

// Terminal reports whether the provider considers the call finished.
func (s CallStatus) Terminal() bool {
	switch s {
	case CallCompleted, CallError, CallFailed, CallBusy, CallNoAnswer, CallCanceled:
		return true
	}
	return false
}

// StreamSID is the provider-issued media stream identifier. It is assigned
// once by the stream's start event and is required on every outbound frame.
type StreamSID string
