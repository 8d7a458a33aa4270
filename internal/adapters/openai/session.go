// Package openai owns the outbound websocket to the Realtime voice engine.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Bridge/internal/core"
)

const writeWait = 5 * time.Second

type sessionState int

const (
	stateIdle sessionState = iota
	stateConnecting
	stateOpen
	stateClosed
)

type Options struct {
	URL            string
	APIKey         string
	ConnectTimeout time.Duration
	Instructions   string
	Temperature    float64
	Voice          string
}

// Session is one voice-agent connection, created per call and thrown away
// when the call ends. It implements core.VoiceAgent.
type Session struct {
	opts     Options
	dispatch *core.Dispatcher[ServerEvent]

	mu        sync.Mutex
	state     sessionState
	conn      *websocket.Conn
	done      chan struct{}
	closedFns []func()
	// closeRequested records a Close that arrived while the dial was
	// still in flight; Connect honours it before going open.
	closeRequested bool

	// gorilla allows a single concurrent writer
	writeMu sync.Mutex
}

var _ core.VoiceAgent = (*Session)(nil)

func NewSession(opts Options) *Session {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	return &Session{
		opts:     opts,
		dispatch: core.NewDispatcher[ServerEvent](),
	}
}

// Connect dials the voice engine and blocks until the handshake completes.
// Returning nil is the readiness gate: the call boundary must not tell the
// telephony provider to stream before Connect has returned.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != stateIdle {
		s.mu.Unlock()
		return core.ErrAlreadyConnected
	}
	s.state = stateConnecting
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: s.opts.ConnectTimeout}
	header := http.Header{
		"Authorization": {"Bearer " + s.opts.APIKey},
		"OpenAI-Beta":   {"realtime=v1"},
	}

	conn, resp, err := dialer.DialContext(ctx, s.opts.URL, header)
	if err != nil {
		// connection failures are terminal for this attempt, no retry
		s.mu.Lock()
		s.state = stateClosed
		s.mu.Unlock()
		return s.dialError(err, resp)
	}

	s.mu.Lock()
	if s.closeRequested {
		// the call ended while the dial was in flight
		s.state = stateClosed
		s.mu.Unlock()
		_ = conn.Close()
		log.Info().Str("module", "adapters.openai").Msg("agent session closed during connect")
		return net.ErrClosed
	}
	s.state = stateOpen
	s.conn = conn
	s.done = make(chan struct{})
	s.mu.Unlock()

	log.Info().Str("module", "adapters.openai").Msg("agent websocket connected")
	go s.readLoop(conn)
	return nil
}

func (s *Session) dialError(err error, resp *http.Response) error {
	if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
		defer resp.Body.Close()
		log.Error().Str("module", "adapters.openai").
			Int("status", resp.StatusCode).Msg("agent handshake rejected")
		return &core.HandshakeError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
		}
	}

	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		log.Error().Str("module", "adapters.openai").Msg("agent connect timed out")
		return core.ErrConnectTimeout
	}

	log.Error().Err(err).Str("module", "adapters.openai").Msg("agent connect failed")
	return err
}

func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.markClosed(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				log.Info().Str("module", "adapters.openai").
					Int("code", ce.Code).Str("reason", ce.Text).Msg("agent websocket closed")
			} else {
				log.Error().Err(err).Str("module", "adapters.openai").Msg("agent read error")
			}
			return
		}

		var ev ServerEvent
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
			log.Warn().Str("module", "adapters.openai").Msg("dropping malformed agent event")
			continue
		}
		s.dispatch.Dispatch(ev.Type, ev)
	}
}

func (s *Session) markClosed(conn *websocket.Conn) {
	_ = conn.Close()

	s.mu.Lock()
	if s.state == stateClosed {
		s.mu.Unlock()
		return
	}
	s.state = stateClosed
	close(s.done)
	fns := s.closedFns
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Close initiates a graceful close and waits until the peer confirms it.
// Closing an absent or already-closed session is a logged no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.state == stateConnecting {
		// dial still in flight; Connect tears the fresh socket down
		// instead of going open
		s.closeRequested = true
		s.mu.Unlock()
		log.Info().Str("module", "adapters.openai").Msg("close requested during connect")
		return nil
	}
	if s.conn == nil || s.state == stateClosed {
		s.mu.Unlock()
		log.Info().Str("module", "adapters.openai").Msg("no agent session to close")
		return nil
	}
	conn, done := s.conn, s.done
	s.mu.Unlock()

	s.writeMu.Lock()
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.writeMu.Unlock()
	if err != nil {
		_ = conn.Close()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	}
}

// Alive reports whether this session is not fully closed. A freshly created
// session counts as alive: it claims the single call slot the moment it is
// registered, before its socket has finished connecting.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != stateClosed
}

// send marshals and writes one control message. Actions are fire-and-forget:
// without a live connection the message is dropped, never an error.
func (s *Session) send(v any) {
	s.mu.Lock()
	conn, open := s.conn, s.state == stateOpen
	s.mu.Unlock()
	if !open {
		log.Debug().Str("module", "adapters.openai").Msg("no live agent session, dropping action")
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.openai").Msg("marshal agent action")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Error().Err(err).Str("module", "adapters.openai").Msg("write agent action")
	}
}

// SendAudio appends raw caller audio to the engine's input buffer.
func (s *Session) SendAudio(audio string) {
	s.send(bufferAppend{Type: "input_audio_buffer.append", Audio: audio})
}

// ClearAudio discards whatever the engine has queued to speak. Used for
// caller barge-in.
func (s *Session) ClearAudio() {
	s.send(bufferClear{Type: "input_audio_buffer.clear"})
}

// Speak prompts the engine to say the given text. The far end answers with
// one or more audio delta events.
func (s *Session) Speak(text string) {
	s.send(responseCreate{
		Type: "response.create",
		Response: responseParams{
			Modalities:   []string{"text", "audio"},
			Instructions: "Say this verbatum:\n" + text,
		},
	})
}

// ConfigureSession sends the one-time session parameters. Sending them at
// media stream start rather than at connect time makes the agent noticeably
// more responsive, so callers must defer this until the stream has started.
func (s *Session) ConfigureSession() {
	s.send(sessionUpdate{
		Type: "session.update",
		Session: sessionParams{
			InputAudioFormat:  "g711_ulaw",
			OutputAudioFormat: "g711_ulaw",
			Modalities:        []string{"text", "audio"},
			TurnDetection:     turnDetection{Type: "server_vad"},
			Instructions:      s.opts.Instructions,
			Temperature:       s.opts.Temperature,
			Voice:             s.opts.Voice,
		},
	})
}

// Subscribe registers a handler for one inbound event type. Handlers for
// the same type run in registration order.
func (s *Session) Subscribe(kind string, fn func(ServerEvent)) {
	s.dispatch.Subscribe(kind, fn)
}

func (s *Session) OnAudioDelta(fn func(delta string)) {
	s.Subscribe(EventAudioDelta, func(ev ServerEvent) { fn(ev.Delta) })
}

func (s *Session) OnSpeechStarted(fn func()) {
	s.Subscribe(EventSpeechStarted, func(ServerEvent) { fn() })
}

func (s *Session) OnTranscriptDone(fn func(transcript string)) {
	s.Subscribe(EventTranscriptDone, func(ev ServerEvent) { fn(ev.Transcript) })
}

func (s *Session) OnClosed(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedFns = append(s.closedFns, fn)
}
