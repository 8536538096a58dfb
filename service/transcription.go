// Package service composes the provider calls into the operations the UI
// layer uses.
package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// Provider is the transcription backend; *stt.Client satisfies it.
type Provider interface {
	Upload(ctx context.Context, payload types.MediaPayload, onProgress types.ProgressFunc) (types.ResourceHandle, error)
	Submit(ctx context.Context, handle types.ResourceHandle) (types.JobID, error)
	Poll(ctx context.Context, id types.JobID) (*types.Transcript, error)
	Export(ctx context.Context, id types.JobID, format types.ExportFormat) (string, error)
}

// Transcription runs upload, submit and poll as one call. A resource left
// on provider storage by a later failure is not cleaned up.
type Transcription struct {
	provider Provider
}

func NewTranscription(provider Provider) *Transcription {
	return &Transcription{provider: provider}
}

// Transcribe uploads payload, starts a job for it and waits for the result.
// Failures are *StageError values naming the stage that failed.
func (t *Transcription) Transcribe(ctx context.Context, payload types.MediaPayload, onProgress types.ProgressFunc) (*types.Transcript, error) {
	requestID := uuid.NewString()
	start := time.Now()
	log.Infow("transcription requested",
		"request", requestID,
		"file", payload.Filename,
		"bytes", len(payload.Data),
	)

	pipeline := Chain(Chain(t.uploadStage(onProgress), t.submitStage()), t.pollStage())
	transcript, err := pipeline.Execute(ctx, payload)
	if err != nil {
		log.Errorw("transcription failed", "request", requestID, "error", err)
		return nil, err
	}

	log.Infow("transcription finished",
		"request", requestID,
		"job", transcript.ID,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return transcript, nil
}

// Export fetches a completed job rendered in format.
func (t *Transcription) Export(ctx context.Context, id types.JobID, format types.ExportFormat) (string, error) {
	stage := Stage[types.JobID, string]{
		Name: StageExport,
		Run: func(ctx context.Context, id types.JobID) (string, error) {
			return t.provider.Export(ctx, id, format)
		},
	}
	return stage.Execute(ctx, id)
}

func (t *Transcription) uploadStage(onProgress types.ProgressFunc) Stage[types.MediaPayload, types.ResourceHandle] {
	return Stage[types.MediaPayload, types.ResourceHandle]{
		Name: StageUpload,
		Run: func(ctx context.Context, payload types.MediaPayload) (types.ResourceHandle, error) {
			return t.provider.Upload(ctx, payload, onProgress)
		},
	}
}

func (t *Transcription) submitStage() Stage[types.ResourceHandle, types.JobID] {
	return Stage[types.ResourceHandle, types.JobID]{
		Name: StageSubmit,
		Run:  t.provider.Submit,
	}
}

func (t *Transcription) pollStage() Stage[types.JobID, *types.Transcript] {
	return Stage[types.JobID, *types.Transcript]{
		Name: StagePoll,
		Run:  t.provider.Poll,
	}
}
