package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rainycape/memcache"

	"github.com/mrsingh-rishi/transcript-studio/config"
	"github.com/mrsingh-rishi/transcript-studio/server"
	"github.com/mrsingh-rishi/transcript-studio/service"
	"github.com/mrsingh-rishi/transcript-studio/store"
	"github.com/mrsingh-rishi/transcript-studio/stt"
	"github.com/mrsingh-rishi/transcript-studio/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.Level())

	client, err := stt.NewClient(cfg.APIKey, cfg.ClientOptions()...)
	if err != nil {
		log.Fatal(err)
	}

	var st store.Store = store.NewMemoryStore()
	if len(cfg.MemcachedHosts) > 0 {
		mc, err := memcache.New(cfg.MemcachedHosts...)
		if err != nil {
			log.Fatalf("memcache: %v", err)
		}
		st = store.NewMemcacheStore(mc, store.DefaultRecordTTL)
		log.Infof("Status records stored in memcached %v", cfg.MemcachedHosts)
	}
	if cfg.WebhookURL() == "" {
		log.Warn("PUBLIC_BASE_URL not set, provider webhooks are disabled")
	}

	transcription := service.NewTranscription(client)
	srv, err := server.New(server.Deps{
		Transcriber: transcription,
		Exporter:    transcription,
		Tokens:      client,
		Webhooks:    webhook.NewIngestor(client, st),
		Store:       st,
		Realtime: func(ctx context.Context) (server.RealtimeStream, error) {
			token, err := client.RealtimeToken(ctx, stt.DefaultTokenExpiresIn)
			if err != nil {
				return nil, err
			}
			session, err := client.DialRealtime(ctx, token, stt.DefaultSampleRate)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
		PublicBaseURL: cfg.PublicBaseURL,
		BodyLimit:     512 * 1024 * 1024,
	})
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := srv.Listen(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
