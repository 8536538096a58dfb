// Package store keeps the latest StatusRecord per transcription job.
package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// ErrNotFound is returned by Get when no record exists for a job.
var ErrNotFound = errors.New("status record not found")

const keyPrefix = "transcription:"

// Store is a keyed, last-write-wins record store. Implementations must allow
// concurrent writes to different keys.
type Store interface {
	Set(ctx context.Context, id types.JobID, record types.StatusRecord) error
	Get(ctx context.Context, id types.JobID) (types.StatusRecord, error)
}

// Key is the storage key for a job.
func Key(id types.JobID) string {
	return keyPrefix + string(id)
}

// MemoryStore is an in-process Store for single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.StatusRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.StatusRecord)}
}

func (s *MemoryStore) Set(_ context.Context, id types.JobID, record types.StatusRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[Key(id)] = record
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id types.JobID) (types.StatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[Key(id)]
	if !ok {
		return types.StatusRecord{}, ErrNotFound
	}
	return record, nil
}
