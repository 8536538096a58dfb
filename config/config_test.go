package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/mrsingh-rishi/transcript-studio/stt"
)

func setenv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{
		EnvAPIKey, EnvBaseURL, EnvRealtimeURL, EnvPublicBaseURL, EnvListenAddr,
		EnvMemcachedHosts, EnvChunkSize, EnvChunkTimeout, EnvPollInterval,
		EnvPollMaxAttempts, EnvLogLevel,
	} {
		t.Setenv(key, values[key])
	}
}

func TestLoadDefaults(t *testing.T) {
	setenv(t, map[string]string{EnvAPIKey: "key-123"})

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "key-123" || cfg.BaseURL != stt.DefaultBaseURL || cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.ChunkSize != stt.DefaultChunkSize || cfg.PollMaxAttempts != stt.DefaultMaxAttempts {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PollInterval != stt.DefaultPollInterval || cfg.ChunkTimeout != stt.DefaultChunkTimeout {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.MemcachedHosts != nil || cfg.WebhookURL() != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Level() != log.LevelInfo {
		t.Fatalf("level = %v", cfg.Level())
	}
}

func TestLoadOverrides(t *testing.T) {
	setenv(t, map[string]string{
		EnvAPIKey:          "key-123",
		EnvPublicBaseURL:   "https://studio.example.com/",
		EnvMemcachedHosts:  "cache-1:11211, cache-2:11211,",
		EnvChunkSize:       "1048576",
		EnvChunkTimeout:    "30s",
		EnvPollInterval:    "250ms",
		EnvPollMaxAttempts: "10",
		EnvLogLevel:        "DEBUG",
	})

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WebhookURL() != "https://studio.example.com/api/webhooks/transcription" {
		t.Fatalf("webhook = %q", cfg.WebhookURL())
	}
	if len(cfg.MemcachedHosts) != 2 || cfg.MemcachedHosts[1] != "cache-2:11211" {
		t.Fatalf("hosts = %v", cfg.MemcachedHosts)
	}
	if cfg.ChunkSize != 1<<20 || cfg.ChunkTimeout != 30*time.Second || cfg.PollInterval != 250*time.Millisecond || cfg.PollMaxAttempts != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Level() != log.LevelDebug {
		t.Fatalf("level = %v", cfg.Level())
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	setenv(t, nil)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	var cfgErr *stt.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Setting != EnvAPIKey {
		t.Fatalf("error = %v, want ConfigurationError for %s", err, EnvAPIKey)
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	for key, value := range map[string]string{
		EnvChunkSize:       "big",
		EnvPollMaxAttempts: "0",
		EnvPollInterval:    "soon",
		EnvChunkTimeout:    "-1s",
	} {
		t.Run(key, func(t *testing.T) {
			setenv(t, map[string]string{EnvAPIKey: "key-123", key: value})

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			var cfgErr *stt.ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Setting != key {
				t.Fatalf("error = %v, want ConfigurationError for %s", err, key)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	setenv(t, nil)
	// godotenv never overrides variables that are already present.
	os.Unsetenv(EnvAPIKey)
	os.Unsetenv(EnvListenAddr)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ASSEMBLYAI_API_KEY=from-file\nLISTEN_ADDR=:8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "from-file" || cfg.ListenAddr != ":8080" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
