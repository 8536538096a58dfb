package server

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/store"
	"github.com/mrsingh-rishi/transcript-studio/types"
	"github.com/mrsingh-rishi/transcript-studio/webhook"
)

type transcribeResponse struct {
	Transcript *types.Transcript `json:"transcript"`
	BaseURL    string            `json:"baseUrl"`
}

type tokenRequest struct {
	ExpiresIn int `json:"expires_in"`
}

// POST /api/transcribe with a multipart "file" field.
func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`file` field is required"})
	}
	file, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "open upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return errors.Wrap(err, "read upload")
	}

	transcript, err := s.deps.Transcriber.Transcribe(c.UserContext(), types.MediaPayload{
		Data:     data,
		Filename: header.Filename,
	}, nil)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(transcribeResponse{Transcript: transcript, BaseURL: s.baseURL(c)})
}

// GET /api/transcripts/:id/:format returns the provider rendering verbatim.
func (s *Server) handleExport(c *fiber.Ctx) error {
	format, err := types.ParseExportFormat(c.Params("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	body, err := s.deps.Exporter.Export(c.UserContext(), types.JobID(c.Params("id")), format)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	if format == types.ExportFormatVTT {
		c.Set(fiber.HeaderContentType, "text/vtt; charset=utf-8")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}
	return c.SendString(body)
}

// GET /api/transcripts/:id/status returns the record written by the webhook.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	record, err := s.deps.Store.Get(c.UserContext(), types.JobID(c.Params("id")))
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no status recorded"})
	}
	if err != nil {
		return errors.Wrap(err, "load status")
	}
	return c.JSON(record)
}

// POST /api/webhooks/transcription. The provider gets a success answer even
// when ingesting fails so it does not redeliver forever.
func (s *Server) handleWebhook(c *fiber.Ctx) error {
	var n webhook.Notification
	if err := c.BodyParser(&n); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if err := s.deps.Webhooks.OnNotification(c.UserContext(), n); err != nil {
		log.Errorw("webhook ingest failed", "job", n.TranscriptID, "status", n.Status, "error", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// POST /api/realtime/token with an optional {"expires_in"} body.
func (s *Server) handleToken(c *fiber.Ctx) error {
	var req tokenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
	}
	token, err := s.deps.Tokens.RealtimeToken(c.UserContext(), req.ExpiresIn)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"token": token})
}
