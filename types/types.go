package types

import (
	"fmt"
	"strings"
)

// MediaPayload is the opaque media buffer handed over by the UI layer.
type MediaPayload struct {
	Data     []byte
	Filename string
}

// ResourceHandle is the provider URL of an uploaded blob.
type ResourceHandle string

// JobID identifies a provider-side transcription job.
type JobID string

// JobStatus mirrors the provider's job lifecycle.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Terminal reports whether no further status change is expected.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// ExportFormat is a provider-rendered transcript format.
type ExportFormat string

const (
	ExportFormatTXT ExportFormat = "txt"
	ExportFormatSRT ExportFormat = "srt"
	ExportFormatVTT ExportFormat = "vtt"
)

// ParseExportFormat accepts txt, srt and vtt in any case.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case ExportFormatTXT, ExportFormatSRT, ExportFormatVTT:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ProgressFunc receives cumulative upload progress in percent.
type ProgressFunc func(percent float64)

// StatusRecord is the normalized webhook outcome kept per job.
type StatusRecord struct {
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Text     string    `json:"text,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// RealtimeTranscript is one partial or final text from a live session.
type RealtimeTranscript struct {
	Text       string
	Confidence float64
	Final      bool
}
