package core

import (
	"context"

	"github.com/dkeye/Bridge/internal/domain"
)

// VoiceAgent is the relay-facing API of the AI voice socket.
// Owned by the adapter; the adapter must Close() it.
type VoiceAgent interface {
	// Connect opens the socket to the voice engine and blocks until the
	// handshake completes or fails. No automatic retry.
	Connect(ctx context.Context) error

	// SendAudio appends one base64 audio frame to the agent's input buffer.
	// Silent no-op without a live connection.
	SendAudio(audio string)
	// ClearAudio discards whatever the agent has buffered to speak.
	ClearAudio()
	// Speak makes the agent say the given text verbatim.
	Speak(text string)
	// ConfigureSession sends the one-time session parameters. Must not be
	// sent before the media stream has actually started.
	ConfigureSession()

	OnAudioDelta(fn func(delta string))
	OnSpeechStarted(fn func())
	OnTranscriptDone(fn func(transcript string))
	OnClosed(fn func())

	// Alive reports whether the underlying socket is open. A new call may
	// be admitted only while no agent is alive.
	Alive() bool
	Close(ctx context.Context) error
}

// CallStream is the relay-facing API of the telephony media socket.
// It adopts an already-accepted transport; the provider dials us.
type CallStream interface {
	// SendAudio plays one base64 audio frame toward the caller. Silent
	// no-op until the provider's start event has supplied a stream id.
	SendAudio(payload string)
	// ClearAudio drops audio the provider has buffered toward the caller.
	ClearAudio()

	OnStart(fn func(sid domain.StreamSID))
	OnMedia(fn func(payload string))
	OnStop(fn func())

	StreamSID() domain.StreamSID
	Close()
}
