package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Bridge/internal/core"
	"github.com/dkeye/Bridge/internal/domain"
)

const teardownWait = 5 * time.Second

// Coordinator installs the event wiring that makes one voice agent and one
// media stream behave as a single bridged conversation.
type Coordinator struct {
	Registry *Registry

	// Greeting is spoken by the agent as soon as the media stream starts.
	Greeting string

	// LinkedTeardown closes the counterpart when one socket dies. Off by
	// default: end-of-call is decided by the provider's status callbacks,
	// not by socket errors.
	LinkedTeardown bool
}

// Wire connects the two legs of a call. The agent must already be
// connected; the stream may not have started yet.
//
// Session configuration and the greeting are deliberately issued on the
// stream's start event, not at agent connect time: configuring earlier is
// valid but makes the agent noticeably less responsive.
func (c *Coordinator) Wire(callID string, agent core.VoiceAgent, stream core.CallStream) {
	stream.OnStart(func(sid domain.StreamSID) {
		log.Info().Str("module", "app.coordinator").
			Str("call", callID).Str("sid", string(sid)).Msg("media stream started, configuring agent")
		agent.ConfigureSession()
		agent.Speak(c.Greeting)
	})

	// steady-state relay, one hop per frame in each direction
	agent.OnAudioDelta(func(delta string) { stream.SendAudio(delta) })
	stream.OnMedia(func(payload string) { agent.SendAudio(payload) })

	// caller barge-in: stop the agent mid-sentence and drop whatever the
	// provider has already buffered toward the caller
	agent.OnSpeechStarted(func() {
		log.Info().Str("module", "app.coordinator").Str("call", callID).Msg("caller started speaking")
		agent.ClearAudio()
		stream.ClearAudio()
	})

	agent.OnTranscriptDone(func(transcript string) {
		log.Info().Str("module", "app.coordinator").
			Str("call", callID).Str("transcript", transcript).Msg("agent transcript final")
	})

	agent.OnClosed(func() {
		log.Info().Str("module", "app.coordinator").Str("call", callID).Msg("agent socket closed")
		if c.LinkedTeardown {
			stream.Close()
		}
	})

	stream.OnStop(func() {
		log.Info().Str("module", "app.coordinator").Str("call", callID).Msg("media stream stopped")
		if c.LinkedTeardown {
			ctx, cancel := context.WithTimeout(context.Background(), teardownWait)
			defer cancel()
			if err := c.Registry.End(ctx); err != nil {
				log.Error().Err(err).Str("module", "app.coordinator").Msg("linked teardown")
			}
		}
	})
}
