package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// transcriptRequest is the job body. Every analysis feature is requested
// on every job.
type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	LanguageDetection bool   `json:"language_detection"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	SentimentAnalysis bool   `json:"sentiment_analysis"`
	EntityDetection   bool   `json:"entity_detection"`
	AutoChapters      bool   `json:"auto_chapters"`
	ContentSafety     bool   `json:"content_safety"`
	IABCategories     bool   `json:"iab_categories"`
	WebhookURL        string `json:"webhook_url,omitempty"`
}

func newTranscriptRequest(handle types.ResourceHandle, webhookURL string) transcriptRequest {
	return transcriptRequest{
		AudioURL:          string(handle),
		LanguageDetection: true,
		SpeakerLabels:     true,
		SentimentAnalysis: true,
		EntityDetection:   true,
		AutoChapters:      true,
		ContentSafety:     true,
		IABCategories:     true,
		WebhookURL:        webhookURL,
	}
}

// Submit creates a transcription job for an uploaded resource.
func (c *Client) Submit(ctx context.Context, handle types.ResourceHandle) (types.JobID, error) {
	if err := c.validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(newTranscriptRequest(handle, c.webhookURL))
	if err != nil {
		return "", errors.Wrap(err, "encode transcript request")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/transcript", nil, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, failure, err := c.do(req)
	if err != nil {
		return "", errors.Wrap(err, "start transcription")
	}
	if failure != nil {
		return "", &SubmitFailedError{ResponseError: *failure}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return "", errors.Wrap(err, "decode transcript response")
	}
	if out.ID == "" {
		return "", errors.New("transcript response carried no id")
	}

	log.Infow("transcription started", "job", out.ID)
	return types.JobID(out.ID), nil
}
