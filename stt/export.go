package stt

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// Export returns the provider's rendering of a completed job, unmodified.
// The job state is not checked locally; the provider's error is surfaced.
func (c *Client) Export(ctx context.Context, id types.JobID, format types.ExportFormat) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	format, err := types.ParseExportFormat(string(format))
	if err != nil {
		return "", err
	}

	path := "/transcript/" + url.PathEscape(string(id)) + "/" + string(format)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}

	resp, failure, err := c.do(req)
	if err != nil {
		return "", errors.Wrapf(err, "get transcript in %s format", format)
	}
	if failure != nil {
		return "", &ExportFailedError{ResponseError: *failure, Format: string(format)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "read %s export", format)
	}
	return string(body), nil
}
