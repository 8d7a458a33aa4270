package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Bridge/internal/adapters/twilio"
	"github.com/dkeye/Bridge/internal/app"
	"github.com/dkeye/Bridge/internal/config"
	"github.com/dkeye/Bridge/internal/core"
	"github.com/dkeye/Bridge/internal/domain"
)

const endWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller handles the provider's webhooks and the media websocket.
type Controller struct {
	cfg      *config.Config
	registry *app.Registry
	coord    *app.Coordinator

	// newAgent builds one agent session per call; injected so tests can
	// substitute a fake.
	newAgent func() core.VoiceAgent

	renderControl func(hostname string) ([]byte, error)
}

func NewController(cfg *config.Config, registry *app.Registry, coord *app.Coordinator, newAgent func() core.VoiceAgent) *Controller {
	return &Controller{
		cfg:           cfg,
		registry:      registry,
		coord:         coord,
		newAgent:      newAgent,
		renderControl: twilio.CallControl,
	}
}

// IncomingCall answers the provider's voice webhook. The response is held
// back until the agent websocket is connected, so the media stream can
// never deliver audio with no agent socket to forward it to.
func (ctl *Controller) IncomingCall(c *gin.Context) {
	from, to := c.PostForm("From"), c.PostForm("To")
	log.Info().Str("module", "adapters.http").
		Str("from", from).Str("to", to).Msg("incoming call")

	agent := ctl.newAgent()
	call, err := ctl.registry.Begin(agent)
	if err != nil {
		if errors.Is(err, core.ErrAlreadyConnected) {
			c.Status(http.StatusConflict)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := agent.Connect(c.Request.Context()); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").
			Str("call", call.ID).Msg("agent connect failed, rejecting call")
		ctl.registry.Abort(call.ID)
		c.Status(http.StatusInternalServerError)
		return
	}

	body, err := ctl.renderControl(ctl.cfg.Hostname)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("render call control document")
		ctx, cancel := context.WithTimeout(context.Background(), endWait)
		defer cancel()
		if err := agent.Close(ctx); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("close agent after render failure")
		}
		ctl.registry.Abort(call.ID)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/xml", body)
}

// MediaStream accepts the provider's media websocket and bridges it to the
// active call's agent.
func (ctl *Controller) MediaStream(ctx context.Context, c *gin.Context) {
	log.Info().Str("module", "adapters.http").
		Str("host", c.Request.Host).Msg("incoming media stream connection")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("media stream upgrade")
		return
	}

	stream := twilio.NewStream()
	stream.Bind(conn)

	call, err := ctl.registry.AttachStream(stream)
	if err != nil {
		log.Warn().Str("module", "adapters.http").Msg("media stream with no active call, dropping")
		stream.Close()
		return
	}

	ctl.coord.Wire(call.ID, call.Agent, stream)
	stream.ReadLoop(ctx)
}

// CallStatusUpdate reacts to the provider's call lifecycle callbacks. A
// terminal status ends the call; everything else is informational. Always
// answers 200.
func (ctl *Controller) CallStatusUpdate(c *gin.Context) {
	status := domain.CallStatus(c.PostForm("CallStatus"))
	if status == domain.CallError {
		log.Error().Str("module", "adapters.http").Str("status", string(status)).Msg("call status update")
	} else {
		log.Info().Str("module", "adapters.http").Str("status", string(status)).Msg("call status update")
	}

	if status.Terminal() {
		ctx, cancel := context.WithTimeout(context.Background(), endWait)
		defer cancel()
		if err := ctl.registry.End(ctx); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("end call")
		}
	}
	c.Status(http.StatusOK)
}

// RecordingStatus logs recording callbacks. Always answers 200.
func (ctl *Controller) RecordingStatus(c *gin.Context) {
	rec := domain.Recording{
		CallSID:  c.PostForm("CallSid"),
		SID:      c.PostForm("RecordingSid"),
		URL:      c.PostForm("RecordingUrl"),
		Status:   c.PostForm("RecordingStatus"),
		Duration: c.PostForm("RecordingDuration"),
	}

	switch rec.Status {
	case domain.RecordingCompleted:
		log.Info().Str("module", "adapters.http").
			Str("call_sid", rec.CallSID).Str("recording_sid", rec.SID).
			Str("url", rec.URL).Str("duration", rec.Duration).Msg("recording completed")
	case domain.RecordingFailed:
		log.Error().Str("module", "adapters.http").
			Str("call_sid", rec.CallSID).Msg("recording failed")
	default:
		log.Info().Str("module", "adapters.http").Str("status", rec.Status).Msg("recording status")
	}
	c.Status(http.StatusOK)
}
