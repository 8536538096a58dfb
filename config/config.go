// Package config reads service settings from .env files and the process
// environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"

	"github.com/mrsingh-rishi/transcript-studio/stt"
)

// Environment variables read by Load.
const (
	EnvAPIKey          = stt.APIKeySetting
	EnvBaseURL         = "ASSEMBLYAI_BASE_URL"
	EnvRealtimeURL     = "ASSEMBLYAI_REALTIME_URL"
	EnvPublicBaseURL   = "PUBLIC_BASE_URL"
	EnvListenAddr      = "LISTEN_ADDR"
	EnvMemcachedHosts  = "MEMCACHED_HOSTS"
	EnvChunkSize       = "UPLOAD_CHUNK_SIZE"
	EnvChunkTimeout    = "UPLOAD_CHUNK_TIMEOUT"
	EnvPollInterval    = "POLL_INTERVAL"
	EnvPollMaxAttempts = "POLL_MAX_ATTEMPTS"
	EnvLogLevel        = "LOG_LEVEL"
)

const (
	DefaultListenAddr = ":3000"
	DefaultLogLevel   = "info"
	WebhookPath       = "/api/webhooks/transcription"
)

type Config struct {
	APIKey          string
	BaseURL         string
	RealtimeURL     string
	PublicBaseURL   string
	ListenAddr      string
	MemcachedHosts  []string
	ChunkSize       int
	ChunkTimeout    time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
	LogLevel        string
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. A missing .env file is not an error.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		log.Info("No .env file found, falling back to environment variables")
	}

	cfg := &Config{
		APIKey:        strings.TrimSpace(os.Getenv(EnvAPIKey)),
		BaseURL:       getenv(EnvBaseURL, stt.DefaultBaseURL),
		RealtimeURL:   getenv(EnvRealtimeURL, stt.DefaultRealtimeURL),
		PublicBaseURL: strings.TrimRight(os.Getenv(EnvPublicBaseURL), "/"),
		ListenAddr:    getenv(EnvListenAddr, DefaultListenAddr),
		LogLevel:      strings.ToLower(getenv(EnvLogLevel, DefaultLogLevel)),
	}
	if cfg.APIKey == "" {
		return nil, &stt.ConfigurationError{Setting: EnvAPIKey}
	}

	for _, host := range strings.Split(os.Getenv(EnvMemcachedHosts), ",") {
		if host = strings.TrimSpace(host); host != "" {
			cfg.MemcachedHosts = append(cfg.MemcachedHosts, host)
		}
	}

	var err error
	if cfg.ChunkSize, err = positiveInt(EnvChunkSize, stt.DefaultChunkSize); err != nil {
		return nil, err
	}
	if cfg.PollMaxAttempts, err = positiveInt(EnvPollMaxAttempts, stt.DefaultMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.ChunkTimeout, err = positiveDuration(EnvChunkTimeout, stt.DefaultChunkTimeout); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = positiveDuration(EnvPollInterval, stt.DefaultPollInterval); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WebhookURL is the callback the provider should notify, or "" when no
// public base URL is configured.
func (c *Config) WebhookURL() string {
	if c.PublicBaseURL == "" {
		return ""
	}
	return c.PublicBaseURL + WebhookPath
}

// Level maps LogLevel to a fiber log level, defaulting to info.
func (c *Config) Level() log.Level {
	switch c.LogLevel {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &stt.ConfigurationError{Setting: key, Reason: "must be a positive integer, got " + strconv.Quote(raw)}
	}
	return n, nil
}

func positiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, &stt.ConfigurationError{Setting: key, Reason: "must be a positive duration, got " + strconv.Quote(raw)}
	}
	return d, nil
}

// ClientOptions configures an stt.Client from c.
func (c *Config) ClientOptions() []stt.Option {
	opts := []stt.Option{
		stt.WithBaseURL(c.BaseURL),
		stt.WithRealtimeURL(c.RealtimeURL),
		stt.WithChunkSize(c.ChunkSize),
		stt.WithChunkTimeout(c.ChunkTimeout),
		stt.WithPollInterval(c.PollInterval),
		stt.WithMaxAttempts(c.PollMaxAttempts),
	}
	if webhookURL := c.WebhookURL(); webhookURL != "" {
		opts = append(opts, stt.WithWebhookURL(webhookURL))
	}
	return opts
}
