/*
# Module: storage/repository.go
Store adapter interface and store error taxonomy.

## Linked Modules
- [types/location](../types/location.go) - Location data structures

## Tags
storage, repository, interface, persistence

## Exports
LocationStore, StoreError, ErrorKind

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/repository.go" ;
    code:description "Store adapter interface and store error taxonomy" ;
    code:linksTo [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location data structures"
    ] ;
    code:exports :LocationStore, :StoreError, :ErrorKind ;
    code:tags "storage", "repository", "interface", "persistence" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"fmt"

	"github.com/Nayelilh/gps-tracking-server/types"
)

// LocationStore abstracts the time-keyed backing store. Records are keyed by
// (deviceId, timestamp); within a device they are ordered by timestamp.
type LocationStore interface {
	// Put is an idempotent upsert: a second write with the same
	// (deviceId, timestamp) overwrites the first.
	Put(ctx context.Context, sample types.LocationSample) error

	// QueryByDevice returns samples for one device ordered by timestamp,
	// descending when desc is set. Nil bounds are open; non-nil bounds are
	// inclusive.
	QueryByDevice(ctx context.Context, deviceID string, startTime, endTime *int64, limit int, desc bool) ([]types.LocationSample, error)

	// ScanFiltered returns every sample with timestamp >= minTimestamp, in
	// no particular order. Cost is O(store size), not O(matches).
	ScanFiltered(ctx context.Context, minTimestamp int64) ([]types.LocationSample, error)

	// CountFiltered is ScanFiltered without materializing items.
	CountFiltered(ctx context.Context, minTimestamp int64) (int, error)

	// Ping verifies connectivity; used once at startup.
	Ping(ctx context.Context) error
}

// ErrorKind classifies store failures for the service boundary.
type ErrorKind string

const (
	ErrTimeout     ErrorKind = "timeout"
	ErrUnavailable ErrorKind = "unavailable"
	ErrUnknown     ErrorKind = "unknown"
)

// StoreError wraps a backend failure with its classification.
type StoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
