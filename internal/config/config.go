package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Port     int    `mapstructure:"port"`
	Hostname string `mapstructure:"hostname"`
	Greeting string `mapstructure:"greeting"`
	OpenAI   OpenAI `mapstructure:"openai"`
	Relay    Relay  `mapstructure:"relay"`
}

type OpenAI struct {
	WSURL          string        `mapstructure:"ws_url"`
	APIKey         string        `mapstructure:"api_key"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Instructions   string        `mapstructure:"instructions"`
	Temperature    float64       `mapstructure:"temperature"`
	Voice          string        `mapstructure:"voice"`
}

type Relay struct {
	// LinkedTeardown makes a terminal error on one socket close the other.
	// Off by default: end-of-call is decided by provider status callbacks.
	LinkedTeardown bool `mapstructure:"linked_teardown"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("greeting", "Hello, thank you for calling. How can I help you today?")
	v.SetDefault("openai.ws_url", "wss://api.openai.com/v1/realtime?model=gpt-4o-realtime-preview-2024-10-01")
	v.SetDefault("openai.connect_timeout", "10s")
	v.SetDefault("openai.instructions", "You are a helpful phone assistant. Keep your answers short and conversational.")
	v.SetDefault("openai.temperature", 0.8)
	v.SetDefault("openai.voice", "alloy")
	v.SetDefault("relay.linked_teardown", false)

	// Secrets and deploy-specific values come from the environment.
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("hostname", "HOSTNAME")
	_ = v.BindEnv("port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
