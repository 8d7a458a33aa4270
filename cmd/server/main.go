package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Bridge/internal/adapters/http"
	"github.com/dkeye/Bridge/internal/adapters/openai"
	"github.com/dkeye/Bridge/internal/app"
	"github.com/dkeye/Bridge/internal/config"
	"github.com/dkeye/Bridge/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	registry := app.NewRegistry()
	coord := &app.Coordinator{
		Registry:       registry,
		Greeting:       cfg.Greeting,
		LinkedTeardown: cfg.Relay.LinkedTeardown,
	}

	newAgent := func() core.VoiceAgent {
		return openai.NewSession(openai.Options{
			URL:            cfg.OpenAI.WSURL,
			APIKey:         cfg.OpenAI.APIKey,
			ConnectTimeout: cfg.OpenAI.ConnectTimeout,
			Instructions:   cfg.OpenAI.Instructions,
			Temperature:    cfg.OpenAI.Temperature,
			Voice:          cfg.OpenAI.Voice,
		})
	}

	ctl := router.NewController(cfg, registry, coord, newAgent)
	r := router.SetupRouter(ctx, cfg, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).
			Str("stream_url", fmt.Sprintf("wss://%s/media-stream", cfg.Hostname)).
			Msg("Bridge server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
