// Package twilio owns the inbound media-stream websocket from the
// telephony provider.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Bridge/internal/core"
	"github.com/dkeye/Bridge/internal/domain"
)

const writeWait = 5 * time.Second

// StreamState is the per-call lifecycle of the media socket. Started is
// entered only on the provider's start event, which supplies the stream id;
// audio relayed in either direction before that is dropped.
type StreamState int

const (
	Unbound StreamState = iota
	Bound
	Started
	ClosedState
)

// Conn is an indirection over *websocket.Conn to ease testing.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Stream adopts an already-accepted media-stream transport. The provider
// dials us, so there is no Connect; Bind takes over the upgraded socket.
// It implements core.CallStream.
type Stream struct {
	dispatch *core.Dispatcher[StreamMessage]

	mu    sync.Mutex
	state StreamState
	conn  Conn
	sid   domain.StreamSID

	// gorilla allows a single concurrent writer
	writeMu sync.Mutex
}

var _ core.CallStream = (*Stream)(nil)

func NewStream() *Stream {
	return &Stream{dispatch: core.NewDispatcher[StreamMessage]()}
}

// Bind adopts the upgraded websocket. A second Bind is ignored.
func (s *Stream) Bind(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Unbound {
		log.Warn().Str("module", "adapters.twilio").Msg("stream already bound, ignoring")
		return
	}
	s.state = Bound
	s.conn = conn
}

// ReadLoop consumes inbound frames until the transport closes or ctx is
// done. It blocks; the websocket handler runs it for the life of the call.
func (s *Stream) ReadLoop(ctx context.Context) {
	defer s.Close()

	// closing the conn unblocks a pending ReadMessage on cancellation
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	for {
		_, data, err := s.readMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				log.Info().Str("module", "adapters.twilio").
					Int("code", ce.Code).Msg("media stream closed")
			} else {
				log.Error().Err(err).Str("module", "adapters.twilio").Msg("media stream read error")
			}
			return
		}
		s.handleMessage(data)
	}
}

func (s *Stream) readMessage() (int, []byte, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return 0, nil, errors.New("stream not bound")
	}
	return conn.ReadMessage()
}

func (s *Stream) handleMessage(data []byte) {
	var msg StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
		log.Warn().Str("module", "adapters.twilio").Msg("dropping malformed media stream frame")
		return
	}

	switch msg.Event {
	case EventStart:
		s.onStart(msg)
	case EventMedia:
		// audio before the start event has no stream id on the return
		// path, so neither direction may relay yet
		if s.State() != Started {
			log.Debug().Str("module", "adapters.twilio").Msg("media before start, dropping")
			return
		}
		s.dispatch.Dispatch(msg.Event, msg)
	case EventStop:
		s.dispatch.Dispatch(msg.Event, msg)
	default:
		// connected, mark, dtmf and friends carry nothing the relay needs
	}
}

func (s *Stream) onStart(msg StreamMessage) {
	sid := msg.StreamSID
	if sid == "" && msg.Start != nil {
		sid = msg.Start.StreamSID
	}
	if sid == "" {
		log.Warn().Str("module", "adapters.twilio").Msg("start event without stream sid, dropping")
		return
	}

	s.mu.Lock()
	if s.sid != "" {
		s.mu.Unlock()
		log.Warn().Str("module", "adapters.twilio").
			Str("sid", sid).Msg("duplicate start event, stream sid already set")
		return
	}
	s.sid = domain.StreamSID(sid)
	s.state = Started
	s.mu.Unlock()

	log.Info().Str("module", "adapters.twilio").Str("sid", sid).Msg("media stream started")
	s.dispatch.Dispatch(EventStart, msg)
}

// send writes one outbound frame. Fire-and-forget: before the stream has
// started (no stream id yet) or after close, the frame is dropped.
func (s *Stream) send(v any) {
	s.mu.Lock()
	conn, ok := s.conn, s.state == Started
	s.mu.Unlock()
	if !ok || conn == nil {
		log.Debug().Str("module", "adapters.twilio").Msg("media stream not started, dropping frame")
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.twilio").Msg("marshal media frame")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Error().Err(err).Str("module", "adapters.twilio").Msg("write media frame")
	}
}

// SendAudio plays one base64 audio frame toward the caller.
func (s *Stream) SendAudio(payload string) {
	s.mu.Lock()
	sid := s.sid
	s.mu.Unlock()
	s.send(mediaFrame{Event: "media", StreamSID: string(sid), Media: mediaPayload{Payload: payload}})
}

// ClearAudio tells the provider to drop audio it has buffered toward the
// caller. Used for barge-in.
func (s *Stream) ClearAudio() {
	s.mu.Lock()
	sid := s.sid
	s.mu.Unlock()
	s.send(clearFrame{Event: "clear", StreamSID: string(sid)})
}

// Subscribe registers a handler for one inbound event type. Handlers for
// the same type run in registration order.
func (s *Stream) Subscribe(kind string, fn func(StreamMessage)) {
	s.dispatch.Subscribe(kind, fn)
}

func (s *Stream) OnStart(fn func(sid domain.StreamSID)) {
	s.Subscribe(EventStart, func(StreamMessage) { fn(s.StreamSID()) })
}

func (s *Stream) OnMedia(fn func(payload string)) {
	s.Subscribe(EventMedia, func(msg StreamMessage) {
		if msg.Media != nil {
			fn(msg.Media.Payload)
		}
	})
}

func (s *Stream) OnStop(fn func()) {
	s.Subscribe(EventStop, func(StreamMessage) { fn() })
}

func (s *Stream) StreamSID() domain.StreamSID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sid
}

func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Stream) Close() {
	s.mu.Lock()
	if s.state == ClosedState {
		s.mu.Unlock()
		return
	}
	s.state = ClosedState
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}
