package twilio

// Websocket messages from Twilio,
// https://www.twilio.com/docs/voice/media-streams/websocket-messages

const (
	EventStart = "start"
	EventMedia = "media"
	EventStop  = "stop"
)

// StreamMessage is one inbound media-stream frame. Only the fields the
// relay consumes are decoded.
type StreamMessage struct {
	Event     string        `json:"event"`
	StreamSID string        `json:"streamSid"`
	Start     *startPayload `json:"start,omitempty"`
	Media     *mediaPayload `json:"media,omitempty"`
}

type startPayload struct {
	StreamSID string `json:"streamSid"`
	CallSID   string `json:"callSid"`
}

type mediaPayload struct {
	Payload string `json:"payload"`
}

// Outbound frames. Every one must carry the provider-issued stream id.

type mediaFrame struct {
	Event     string       `json:"event"`
	StreamSID string       `json:"streamSid"`
	Media     mediaPayload `json:"media"`
}

type clearFrame struct {
	Event     string `json:"event"`
	StreamSID string `json:"streamSid"`
}
