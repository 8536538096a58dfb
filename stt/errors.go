package stt

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUploadTimeout is returned when a single chunk request exceeds the
	// chunk timeout. The upload is not resumed.
	ErrUploadTimeout = errors.New("upload request timed out")

	// ErrTranscriptionTimedOut is returned when the poll budget runs out
	// before the job reaches a terminal state.
	ErrTranscriptionTimedOut = errors.New("transcription timed out")
)

// ConfigurationError reports a missing or invalid setting. It is raised
// before any network request.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s is not set", e.Setting)
	}
	return fmt.Sprintf("configuration: %s %s", e.Setting, e.Reason)
}

// ResponseError captures a non-OK provider response for diagnostics.
type ResponseError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e ResponseError) describe() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.Body == "" {
		return status
	}
	return status + "\n" + e.Body
}

// UploadFailedError is returned when a chunk upload gets a non-OK response.
type UploadFailedError struct {
	ResponseError
	Chunk int
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("failed to upload chunk %d: %s", e.Chunk, e.describe())
}

// SubmitFailedError is returned when job creation gets a non-OK response.
type SubmitFailedError struct {
	ResponseError
}

func (e *SubmitFailedError) Error() string {
	return "failed to start transcription: " + e.describe()
}

// StatusCheckError is returned when a status fetch gets a non-OK response.
type StatusCheckError struct {
	ResponseError
	JobID string
}

func (e *StatusCheckError) Error() string {
	return fmt.Sprintf("failed to get transcription status for %s: %s", e.JobID, e.describe())
}

// TranscriptionFailedError carries the reason the provider gave for a job
// that ended in the error state.
type TranscriptionFailedError struct {
	JobID  string
	Reason string
}

func (e *TranscriptionFailedError) Error() string {
	return "transcription failed: " + e.Reason
}

// ExportFailedError is returned when an export request gets a non-OK response.
type ExportFailedError struct {
	ResponseError
	Format string
}

func (e *ExportFailedError) Error() string {
	return fmt.Sprintf("failed to get transcript in %s format: %s", e.Format, e.describe())
}

// TokenFailedError is returned when a realtime token request fails.
type TokenFailedError struct {
	ResponseError
}

func (e *TokenFailedError) Error() string {
	return "failed to create realtime token: " + e.describe()
}
