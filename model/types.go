package model

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AudioChunk is one contiguous slice of an upload payload.
type AudioChunk struct {
	Index int
	Data  []byte
}

// UploadSession tracks one chunked upload. It is not safe for concurrent use;
// a session belongs to a single upload call.
type UploadSession struct {
	ID          string
	TotalBytes  int
	ChunkSize   int
	TotalChunks int

	index  int
	handle string
}

// NewUploadSession plans an upload of totalBytes in chunks of chunkSize.
func NewUploadSession(totalBytes, chunkSize int) (*UploadSession, error) {
	if chunkSize <= 0 {
		return nil, errors.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if totalBytes <= 0 {
		return nil, errors.New("upload payload is empty")
	}

	return &UploadSession{
		ID:          uuid.NewString(),
		TotalBytes:  totalBytes,
		ChunkSize:   chunkSize,
		TotalChunks: (totalBytes + chunkSize - 1) / chunkSize,
	}, nil
}

// Partition splits data into ordered chunks of at most chunkSize bytes.
// The chunks share data's backing array.
func Partition(data []byte, chunkSize int) []AudioChunk {
	if chunkSize <= 0 || len(data) == 0 {
		return nil
	}

	chunks := make([]AudioChunk, 0, (len(data)+chunkSize-1)/chunkSize)
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		chunks = append(chunks, AudioChunk{
			Index: len(chunks),
			Data:  data[start:end:end],
		})
	}
	return chunks
}

// Index returns the number of chunks completed so far.
func (s *UploadSession) Index() int {
	return s.index
}

// Handle returns the resource URL received so far, or "".
func (s *UploadSession) Handle() string {
	return s.handle
}

// Complete records the successful upload of chunk idx and the handle the
// provider returned for it.
func (s *UploadSession) Complete(idx int, handle string) error {
	if idx != s.index {
		return errors.Errorf("chunk %d completed out of order, expected %d", idx, s.index)
	}
	if idx >= s.TotalChunks {
		return errors.Errorf("chunk %d exceeds planned total %d", idx, s.TotalChunks)
	}
	if handle == "" {
		return errors.Errorf("chunk %d returned an empty upload url", idx)
	}
	if s.handle != "" && s.handle != handle {
		return errors.Errorf("upload url changed mid-session: %q -> %q", s.handle, handle)
	}

	s.handle = handle
	s.index++
	return nil
}

// Progress is the completed share of the upload in percent.
func (s *UploadSession) Progress() float64 {
	return float64(s.index) / float64(s.TotalChunks) * 100
}

// Done reports whether every planned chunk has completed.
func (s *UploadSession) Done() bool {
	return s.index == s.TotalChunks
}
