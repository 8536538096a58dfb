// Package webhook turns provider completion notifications into status
// records.
package webhook

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/store"
	"github.com/mrsingh-rishi/transcript-studio/types"
)

// FailureMessage is stored for jobs the provider reports as failed.
const FailureMessage = "Transcription failed"

// Notification is the provider's webhook body.
type Notification struct {
	TranscriptID types.JobID     `json:"transcript_id"`
	Status       types.JobStatus `json:"status"`
}

// Fetcher loads a job record; *stt.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, id types.JobID) (*types.Transcript, error)
}

// Ingestor writes one StatusRecord per terminal notification. Replays
// overwrite the same key.
type Ingestor struct {
	fetcher Fetcher
	store   store.Store
}

func NewIngestor(fetcher Fetcher, st store.Store) *Ingestor {
	return &Ingestor{fetcher: fetcher, store: st}
}

// OnNotification handles one notification. Non-terminal statuses are
// ignored and nothing is written.
func (i *Ingestor) OnNotification(ctx context.Context, n Notification) error {
	if n.TranscriptID == "" {
		return errors.New("notification has no transcript_id")
	}

	var record types.StatusRecord
	switch n.Status {
	case types.JobStatusCompleted:
		// The notification carries no text; fetch the final record.
		transcript, err := i.fetcher.Get(ctx, n.TranscriptID)
		if err != nil {
			return errors.Wrapf(err, "fetch completed transcript %s", n.TranscriptID)
		}
		record = types.StatusRecord{
			Status:   types.JobStatusCompleted,
			Progress: 100,
			Text:     transcript.Text,
		}
	case types.JobStatusError:
		record = types.StatusRecord{
			Status:   types.JobStatusError,
			Progress: 100,
			Error:    FailureMessage,
		}
	default:
		log.Debugw("ignoring webhook notification", "job", n.TranscriptID, "status", n.Status)
		return nil
	}

	if err := i.store.Set(ctx, n.TranscriptID, record); err != nil {
		return errors.Wrapf(err, "save status for %s", n.TranscriptID)
	}
	log.Infow("webhook status stored", "job", n.TranscriptID, "status", record.Status)
	return nil
}
