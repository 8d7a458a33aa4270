package app

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Bridge/internal/core"
)

// CallSession aggregates the two socket handles of one bridged call: at
// most one voice agent and one media stream, process-wide.
type CallSession struct {
	ID     string
	Agent  core.VoiceAgent
	Stream core.CallStream
}

// Registry guards the single call slot. One call at a time: a new call is
// admitted only when no call exists or the previous agent is fully closed.
type Registry struct {
	mu   sync.Mutex
	call *CallSession
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Begin claims the call slot for a new agent. Fails with
// core.ErrAlreadyConnected while a previous agent is still alive.
func (r *Registry) Begin(agent core.VoiceAgent) (*CallSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.call != nil && r.call.Agent.Alive() {
		log.Warn().Str("module", "app.registry").
			Str("call", r.call.ID).Msg("rejecting call, slot busy")
		return nil, core.ErrAlreadyConnected
	}

	call := &CallSession{ID: uuid.NewString(), Agent: agent}
	r.call = call
	log.Info().Str("module", "app.registry").Str("call", call.ID).Msg("call slot claimed")
	return call, nil
}

// Abort releases the slot after a failed connect attempt. Stale IDs are
// ignored so a late abort cannot evict a newer call.
func (r *Registry) Abort(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.call == nil || r.call.ID != id {
		return
	}
	r.call = nil
	log.Info().Str("module", "app.registry").Str("call", id).Msg("call slot released after failed setup")
}

// AttachStream fills the media slot of the active call.
func (r *Registry) AttachStream(stream core.CallStream) (*CallSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.call == nil {
		return nil, core.ErrNoActiveCall
	}
	r.call.Stream = stream
	log.Info().Str("module", "app.registry").Str("call", r.call.ID).Msg("media stream attached")
	return r.call, nil
}

// Active returns the current call, if any.
func (r *Registry) Active() (*CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.call, r.call != nil
}

// End closes the active call's agent and frees the slot. Ending with no
// active call is a logged no-op, not an error.
func (r *Registry) End(ctx context.Context) error {
	r.mu.Lock()
	call := r.call
	r.call = nil
	r.mu.Unlock()

	if call == nil {
		log.Info().Str("module", "app.registry").Msg("end requested with no active call")
		return nil
	}

	log.Info().Str("module", "app.registry").Str("call", call.ID).Msg("ending call")
	return call.Agent.Close(ctx)
}
