package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rainycape/memcache"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

// DefaultRecordTTL bounds how long a status record outlives its job.
const DefaultRecordTTL = 24 * time.Hour

// MemcacheClient is the subset of *memcache.Client the store needs.
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// MemcacheStore shares status records between instances through memcached.
type MemcacheStore struct {
	mc  MemcacheClient
	ttl time.Duration
}

// NewMemcacheStore wraps mc. A non-positive ttl uses DefaultRecordTTL.
func NewMemcacheStore(mc MemcacheClient, ttl time.Duration) *MemcacheStore {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &MemcacheStore{mc: mc, ttl: ttl}
}

func (s *MemcacheStore) Set(_ context.Context, id types.JobID, record types.StatusRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encode status record")
	}
	if err := s.mc.Set(&memcache.Item{
		Key:        Key(id),
		Value:      value,
		Expiration: int32(s.ttl / time.Second),
	}); err != nil {
		return errors.Wrapf(err, "store status for %s", id)
	}
	return nil
}

func (s *MemcacheStore) Get(_ context.Context, id types.JobID) (types.StatusRecord, error) {
	item, err := s.mc.Get(Key(id))
	if err == memcache.ErrCacheMiss {
		return types.StatusRecord{}, ErrNotFound
	}
	if err != nil {
		return types.StatusRecord{}, errors.Wrapf(err, "load status for %s", id)
	}

	var record types.StatusRecord
	if err := json.Unmarshal(item.Value, &record); err != nil {
		return types.StatusRecord{}, errors.Wrapf(err, "decode status for %s", id)
	}
	return record, nil
}
