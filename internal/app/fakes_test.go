package app

import (
	"context"
	"sync"

	"github.com/dkeye/Bridge/internal/core"
	"github.com/dkeye/Bridge/internal/domain"
)

// oplog records the relay-visible actions of both fakes in one sequence,
// so tests can assert cross-session ordering.
type oplog struct {
	mu  sync.Mutex
	ops []string
}

func (l *oplog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *oplog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

type fakeAgent struct {
	log        *oplog
	connectErr error

	mu            sync.Mutex
	alive         bool
	deltaFns      []func(string)
	speechFns     []func()
	transcriptFns []func(string)
	closedFns     []func()
}

// newFakeAgent starts alive: like the real session, a fresh instance claims
// the call slot before its socket has connected.
func newFakeAgent(log *oplog) *fakeAgent {
	return &fakeAgent{log: log, alive: true}
}

func (a *fakeAgent) Connect(ctx context.Context) error {
	if a.connectErr != nil {
		a.mu.Lock()
		a.alive = false
		a.mu.Unlock()
		return a.connectErr
	}
	a.log.add("agent.connect")
	return nil
}

func (a *fakeAgent) SendAudio(audio string) { a.log.add("agent.send:" + audio) }
func (a *fakeAgent) ClearAudio()            { a.log.add("agent.clear") }
func (a *fakeAgent) Speak(text string)      { a.log.add("agent.speak:" + text) }
func (a *fakeAgent) ConfigureSession()      { a.log.add("agent.configure") }

func (a *fakeAgent) OnAudioDelta(fn func(string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deltaFns = append(a.deltaFns, fn)
}

func (a *fakeAgent) OnSpeechStarted(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speechFns = append(a.speechFns, fn)
}

func (a *fakeAgent) OnTranscriptDone(fn func(string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcriptFns = append(a.transcriptFns, fn)
}

func (a *fakeAgent) OnClosed(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closedFns = append(a.closedFns, fn)
}

func (a *fakeAgent) Alive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alive
}

func (a *fakeAgent) Close(ctx context.Context) error {
	a.mu.Lock()
	a.alive = false
	a.mu.Unlock()
	a.log.add("agent.close")
	return nil
}

func (a *fakeAgent) fireDelta(delta string) {
	a.mu.Lock()
	fns := append(([]func(string))(nil), a.deltaFns...)
	a.mu.Unlock()
	for _, fn := range fns {
		fn(delta)
	}
}

func (a *fakeAgent) fireSpeechStarted() {
	a.mu.Lock()
	fns := append(([]func())(nil), a.speechFns...)
	a.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (a *fakeAgent) fireTranscriptDone(text string) {
	a.mu.Lock()
	fns := append(([]func(string))(nil), a.transcriptFns...)
	a.mu.Unlock()
	for _, fn := range fns {
		fn(text)
	}
}

func (a *fakeAgent) fireClosed() {
	a.mu.Lock()
	fns := append(([]func())(nil), a.closedFns...)
	a.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type fakeStream struct {
	log *oplog

	mu       sync.Mutex
	sid      domain.StreamSID
	startFns []func(domain.StreamSID)
	mediaFns []func(string)
	stopFns  []func()
}

func newFakeStream(log *oplog) *fakeStream {
	return &fakeStream{log: log}
}

func (s *fakeStream) SendAudio(payload string) { s.log.add("stream.send:" + payload) }
func (s *fakeStream) ClearAudio()              { s.log.add("stream.clear") }
func (s *fakeStream) Close()                   { s.log.add("stream.close") }

func (s *fakeStream) OnStart(fn func(domain.StreamSID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startFns = append(s.startFns, fn)
}

func (s *fakeStream) OnMedia(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mediaFns = append(s.mediaFns, fn)
}

func (s *fakeStream) OnStop(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopFns = append(s.stopFns, fn)
}

func (s *fakeStream) StreamSID() domain.StreamSID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sid
}

func (s *fakeStream) fireStart(sid domain.StreamSID) {
	s.mu.Lock()
	s.sid = sid
	fns := append(([]func(domain.StreamSID))(nil), s.startFns...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(sid)
	}
}

func (s *fakeStream) fireMedia(payload string) {
	s.mu.Lock()
	fns := append(([]func(string))(nil), s.mediaFns...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(payload)
	}
}

func (s *fakeStream) fireStop() {
	s.mu.Lock()
	fns := append(([]func())(nil), s.stopFns...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

var (
	_ core.VoiceAgent = (*fakeAgent)(nil)
	_ core.CallStream = (*fakeStream)(nil)
)
