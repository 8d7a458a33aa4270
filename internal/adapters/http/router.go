// Package http is the call boundary: the provider's voice webhooks and the
// media-stream websocket endpoint.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Bridge/internal/config"
)

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.POST("/incoming-call", ctl.IncomingCall)
	r.POST("/call-status-update", ctl.CallStatusUpdate)
	r.POST("/recording-status", ctl.RecordingStatus)
	r.GET("/media-stream", func(c *gin.Context) {
		ctl.MediaStream(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("hostname", cfg.Hostname).Msg("router setup")
	return r
}
