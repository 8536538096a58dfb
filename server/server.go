// Package server exposes transcription over HTTP and WebSocket.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/store"
	"github.com/mrsingh-rishi/transcript-studio/types"
	"github.com/mrsingh-rishi/transcript-studio/webhook"
)

// Transcriber runs a full transcription; *service.Transcription satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, payload types.MediaPayload, onProgress types.ProgressFunc) (*types.Transcript, error)
}

// Exporter renders a completed job; *service.Transcription satisfies it.
type Exporter interface {
	Export(ctx context.Context, id types.JobID, format types.ExportFormat) (string, error)
}

// TokenIssuer mints realtime tokens; *stt.Client satisfies it.
type TokenIssuer interface {
	RealtimeToken(ctx context.Context, expiresIn int) (string, error)
}

// NotificationHandler ingests provider webhooks; *webhook.Ingestor satisfies it.
type NotificationHandler interface {
	OnNotification(ctx context.Context, n webhook.Notification) error
}

// RealtimeStream is a live provider session.
type RealtimeStream interface {
	Transcripts() <-chan types.RealtimeTranscript
	SendAudio(frame []byte) error
	Close() error
}

// RealtimeOpener starts a provider session for one client.
type RealtimeOpener func(ctx context.Context) (RealtimeStream, error)

// Deps are the collaborators behind the routes. Realtime may be nil, which
// disables the realtime relay.
type Deps struct {
	Transcriber Transcriber
	Exporter    Exporter
	Tokens      TokenIssuer
	Webhooks    NotificationHandler
	Store       store.Store
	Realtime    RealtimeOpener
	// PublicBaseURL overrides the request-derived base URL in responses.
	PublicBaseURL string
	// BodyLimit caps request bodies in bytes; fiber's default applies when 0.
	BodyLimit int
}

type Server struct {
	app  *fiber.App
	deps Deps
}

func New(deps Deps) (*Server, error) {
	if deps.Transcriber == nil || deps.Exporter == nil {
		return nil, errors.New("transcriber and exporter are required")
	}
	if deps.Tokens == nil || deps.Webhooks == nil || deps.Store == nil {
		return nil, errors.New("token issuer, webhook handler and store are required")
	}

	app := fiber.New(fiber.Config{
		AppName:               "transcript-studio",
		BodyLimit:             deps.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{app: app, deps: deps}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Post("/transcribe", s.handleTranscribe)
	api.Get("/transcripts/:id/status", s.handleStatus)
	api.Get("/transcripts/:id/:format", s.handleExport)
	api.Post("/webhooks/transcription", s.handleWebhook)
	api.Post("/realtime/token", s.handleToken)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/transcribe", func(c *fiber.Ctx) error {
		c.Locals("baseURL", s.baseURL(c))
		return c.Next()
	}, websocket.New(s.handleTranscribeSocket))
	if s.deps.Realtime != nil {
		s.app.Get("/ws/realtime", websocket.New(s.handleRealtimeSocket))
	}
}

// App is the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	log.Infof("Fiber server listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) baseURL(c *fiber.Ctx) string {
	if s.deps.PublicBaseURL != "" {
		return s.deps.PublicBaseURL
	}
	return c.BaseURL()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
