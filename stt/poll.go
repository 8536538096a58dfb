package stt

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// Get fetches the current job record once.
func (c *Client) Get(ctx context.Context, id types.JobID) (*types.Transcript, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/transcript/"+url.PathEscape(string(id)), nil, nil)
	if err != nil {
		return nil, err
	}

	resp, failure, err := c.do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get transcription status")
	}
	if failure != nil {
		return nil, &StatusCheckError{ResponseError: *failure, JobID: string(id)}
	}

	var transcript types.Transcript
	if err := decodeJSON(resp, &transcript); err != nil {
		return nil, errors.Wrap(err, "decode transcript")
	}
	return &transcript, nil
}

// Poll checks the job status at a fixed interval until it completes, fails,
// or the attempt budget is spent. Cancelling ctx stops the loop and aborts
// the request in flight.
func (c *Client) Poll(ctx context.Context, id types.JobID) (*types.Transcript, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		transcript, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		switch transcript.Status {
		case types.JobStatusCompleted:
			log.Infow("transcription completed", "job", id, "attempts", attempt)
			return transcript, nil
		case types.JobStatusError:
			log.Warnw("transcription failed", "job", id, "reason", transcript.Error)
			return nil, &TranscriptionFailedError{JobID: string(id), Reason: transcript.Error}
		}

		log.Debugw("transcription pending", "job", id, "status", transcript.Status, "attempt", attempt)
		if attempt == c.maxAttempts {
			break
		}

		wait := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return nil, errors.Wrap(ctx.Err(), "poll cancelled")
		case <-wait.C:
		}
	}

	return nil, errors.Wrapf(ErrTranscriptionTimedOut, "job %s after %d attempts", id, c.maxAttempts)
}
