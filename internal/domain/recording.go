package domain

// Recording is the metadata the provider posts when a call recording
// finishes. Informational only; nothing downstream consumes it yet.
type Recording struct {
	CallSID  string
	SID      string
	URL      string
	Status   string
	Duration string
}

const (
	RecordingCompleted = "completed"
	RecordingFailed    = "failed"
)
