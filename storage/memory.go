/*
# Module: storage/memory.go
In-memory implementation of the location store.

## Linked Modules
- [storage/repository](./repository.go) - Store adapter interface
- [types/location](../types/location.go) - Location data structures

## Tags
storage, memory, persistence, testing

## Exports
MemoryStore, NewMemoryStore

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/memory.go" ;
    code:description "In-memory implementation of the location store" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Store adapter interface"
    ], [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location data structures"
    ] ;
    code:exports :MemoryStore, :NewMemoryStore ;
    code:tags "storage", "memory", "persistence", "testing" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Nayelilh/gps-tracking-server/types"
)

// MemoryStore implements LocationStore with an in-process map. Used by tests
// and for local development without AWS credentials. TTL expiry is not
// simulated.
type MemoryStore struct {
	mu      sync.RWMutex
	samples map[string]map[int64]types.LocationSample
}

// NewMemoryStore creates an empty in-memory location store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		samples: make(map[string]map[int64]types.LocationSample),
	}
}

// Put upserts a sample keyed by (deviceId, timestamp).
func (s *MemoryStore) Put(ctx context.Context, sample types.LocationSample) error {
	if err := ctx.Err(); err != nil {
		return &StoreError{Kind: ErrTimeout, Op: "put", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	device, ok := s.samples[sample.DeviceID]
	if !ok {
		device = make(map[int64]types.LocationSample)
		s.samples[sample.DeviceID] = device
	}
	device[sample.Timestamp] = sample

	return nil
}

// QueryByDevice returns one device's samples within the inclusive bounds,
// ordered by timestamp.
func (s *MemoryStore) QueryByDevice(ctx context.Context, deviceID string, startTime, endTime *int64, limit int, desc bool) ([]types.LocationSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Kind: ErrTimeout, Op: "query", Err: err}
	}

	s.mu.RLock()
	matched := make([]types.LocationSample, 0)
	for ts, sample := range s.samples[deviceID] {
		if startTime != nil && ts < *startTime {
			continue
		}
		if endTime != nil && ts > *endTime {
			continue
		}
		matched = append(matched, sample)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if desc {
			return matched[i].Timestamp > matched[j].Timestamp
		}
		return matched[i].Timestamp < matched[j].Timestamp
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// ScanFiltered returns every sample with timestamp >= minTimestamp across
// all devices, in map iteration order.
func (s *MemoryStore) ScanFiltered(ctx context.Context, minTimestamp int64) ([]types.LocationSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Kind: ErrTimeout, Op: "scan", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]types.LocationSample, 0)
	for _, device := range s.samples {
		for ts, sample := range device {
			if ts >= minTimestamp {
				matched = append(matched, sample)
			}
		}
	}

	return matched, nil
}

// CountFiltered counts samples with timestamp >= minTimestamp.
func (s *MemoryStore) CountFiltered(ctx context.Context, minTimestamp int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &StoreError{Kind: ErrTimeout, Op: "count", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, device := range s.samples {
		for ts := range device {
			if ts >= minTimestamp {
				count++
			}
		}
	}

	return count, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
