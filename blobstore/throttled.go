package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledStore limits the upload bandwidth of an inner store. Shared
// cluster storage tends to punish bursty writers, so dataset publishing
// goes through this wrapper when a limit is configured.
type ThrottledStore struct {
	BlobStore
	limiter *rate.Limiter
}

// NewThrottledStore wraps inner so Put consumes at most bytesPerSec bytes
// per second. A non-positive limit disables throttling.
func NewThrottledStore(inner BlobStore, bytesPerSec int) *ThrottledStore {
	s := &ThrottledStore{BlobStore: inner}
	if bytesPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
	return s
}

// Put waits for enough budget to cover data and then writes it.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if s.limiter != nil {
		burst := s.limiter.Burst()
		for remaining := len(data); remaining > 0; remaining -= burst {
			if err := s.limiter.WaitN(ctx, min(remaining, burst)); err != nil {
				return err
			}
		}
	}
	return s.BlobStore.Put(ctx, name, data)
}
