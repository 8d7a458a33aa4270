package openai

// Client events, https://platform.openai.com/docs/api-reference/realtime-client-events

type bufferAppend struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

type bufferClear struct {
	Type string `json:"type"`
}

type responseCreate struct {
	Type     string         `json:"type"`
	Response responseParams `json:"response"`
}

type responseParams struct {
	Modalities   []string `json:"modalities"`
	Instructions string   `json:"instructions"`
}

type sessionUpdate struct {
	Type    string        `json:"type"`
	Session sessionParams `json:"session"`
}

type sessionParams struct {
	InputAudioFormat  string        `json:"input_audio_format"`
	OutputAudioFormat string        `json:"output_audio_format"`
	Modalities        []string      `json:"modalities"`
	TurnDetection     turnDetection `json:"turn_detection"`
	Instructions      string        `json:"instructions"`
	Temperature       float64       `json:"temperature"`
	Voice             string        `json:"voice"`
}

// turn_detection: server_vad enables input_audio_buffer.speech_started /
// .speech_stopped from the far end.
type turnDetection struct {
	Type string `json:"type"`
}

// Server events, https://platform.openai.com/docs/api-reference/realtime-server-events

const (
	EventAudioDelta     = "response.audio.delta"
	EventSpeechStarted  = "input_audio_buffer.speech_started"
	EventTranscriptDone = "response.audio_transcript.done"
)

// ServerEvent is one inbound Realtime message. Only the fields the relay
// consumes are decoded; the rest of the payload is ignored.
type ServerEvent struct {
	Type       string `json:"type"`
	Delta      string `json:"delta"`
	Transcript string `json:"transcript"`
}
