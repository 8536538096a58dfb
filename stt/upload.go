package stt

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/model"
	"github.com/mrsingh-rishi/transcript-studio/queue"
	"github.com/mrsingh-rishi/transcript-studio/types"
)

// ErrEmptyPayload is returned for zero-length uploads; nothing is sent.
var ErrEmptyPayload = errors.New("upload payload is empty")

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// Upload streams payload to the provider in sequential chunks and returns
// the resource handle of the assembled blob. onProgress, when set, is called
// after every chunk with the completed share in percent. An interrupted
// upload cannot be resumed.
func (c *Client) Upload(ctx context.Context, payload types.MediaPayload, onProgress types.ProgressFunc) (types.ResourceHandle, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	if len(payload.Data) == 0 {
		return "", ErrEmptyPayload
	}

	session, err := model.NewUploadSession(len(payload.Data), c.chunkSize)
	if err != nil {
		return "", errors.Wrap(err, "plan upload")
	}
	log.Infow("starting file upload",
		"session", session.ID,
		"file", payload.Filename,
		"bytes", session.TotalBytes,
		"chunks", session.TotalChunks,
	)

	pending := queue.New(model.Partition(payload.Data, c.chunkSize)...)
	for {
		chunk, ok := pending.Dequeue()
		if !ok {
			break
		}

		handle, err := c.uploadChunk(ctx, chunk, session.Handle())
		if err != nil {
			log.Errorw("chunk upload failed", "session", session.ID, "chunk", chunk.Index, "error", err)
			return "", err
		}
		if err := session.Complete(chunk.Index, handle); err != nil {
			return "", errors.Wrap(err, "upload")
		}
		if onProgress != nil {
			onProgress(session.Progress())
		}
	}

	if !session.Done() {
		return "", errors.Errorf("upload stopped after %d of %d chunks", session.Index(), session.TotalChunks)
	}

	handle := NormalizeHandle(session.Handle())
	log.Infow("file uploaded", "session", session.ID, "upload_url", handle)
	return handle, nil
}

func (c *Client) uploadChunk(ctx context.Context, chunk model.AudioChunk, prior string) (string, error) {
	chunkCtx, cancel := context.WithTimeout(ctx, c.chunkTimeout)
	defer cancel()

	query := url.Values{}
	if prior != "" {
		query.Set("upload_url", prior)
	}
	req, err := c.newRequest(chunkCtx, http.MethodPost, "/upload", query, bytes.NewReader(chunk.Data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, failure, err := c.do(req)
	if err != nil {
		return "", chunkError(ctx, chunkCtx, chunk.Index, err)
	}
	if failure != nil {
		return "", &UploadFailedError{ResponseError: *failure, Chunk: chunk.Index}
	}

	var out uploadResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", chunkError(ctx, chunkCtx, chunk.Index, errors.Wrap(err, "decode upload response"))
	}
	return out.UploadURL, nil
}

// chunkError maps an expired chunk deadline to ErrUploadTimeout. A cancelled
// parent context is reported as is.
func chunkError(parent, chunkCtx context.Context, idx int, err error) error {
	if parent.Err() == nil && errors.Is(chunkCtx.Err(), context.DeadlineExceeded) {
		return errors.Wrapf(ErrUploadTimeout, "chunk %d", idx)
	}
	return errors.Wrapf(err, "upload chunk %d", idx)
}

// NormalizeHandle prefixes handles without a URI scheme with "http:".
func NormalizeHandle(handle string) types.ResourceHandle {
	handle = strings.TrimSpace(handle)
	if u, err := url.Parse(handle); err == nil && u.Scheme != "" {
		return types.ResourceHandle(handle)
	}
	return types.ResourceHandle("http:" + handle)
}
