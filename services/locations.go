/*
# Module: services/locations.go
Location ingestion and query domain logic.

## Linked Modules
- [storage/repository](../storage/repository.go) - Store adapter interface
- [types/location](../types/location.go) - Location data structures

## Tags
business-logic, location, validation, aggregation

## Exports
LocationService, NewLocationService, ValidationError, ValidationCode

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/locations.go" ;
    code:description "Location ingestion and query domain logic" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Store adapter interface"
    ], [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location data structures"
    ] ;
    code:exports :LocationService, :NewLocationService, :ValidationError, :ValidationCode ;
    code:tags "business-logic", "location", "validation", "aggregation" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nayelilh/gps-tracking-server/storage"
	"github.com/Nayelilh/gps-tracking-server/types"
)

const (
	// Accepted timestamp window relative to server time: rejects replayed
	// and clock-skewed samples without sequence numbers.
	maxPastMillis   = 24 * 60 * 60 * 1000
	maxFutureMillis = 60 * 1000

	// Samples expire 30 days after receipt via the store's TTL mechanism.
	retentionMillis = 30 * 24 * 60 * 60 * 1000

	defaultQueryLimit = 100

	defaultDeviceName = "Unknown Device"
)

// ValidationCode identifies why a submitted sample was rejected.
type ValidationCode string

const (
	MissingField ValidationCode = "missing_field"
	OutOfRange   ValidationCode = "out_of_range"
	BadTimestamp ValidationCode = "bad_timestamp"
)

// ValidationError is a client-caused rejection, surfaced as HTTP 400 and
// never retried.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Code, e.Message)
}

// LocationService validates, persists and queries location samples.
type LocationService struct {
	store         storage.LocationStore
	maxQueryLimit int
	now           func() time.Time
}

// NewLocationService creates the service over the given store. maxQueryLimit
// caps every range query regardless of the caller-supplied limit.
func NewLocationService(store storage.LocationStore, maxQueryLimit int) *LocationService {
	return &LocationService{
		store:         store,
		maxQueryLimit: maxQueryLimit,
		now:           time.Now,
	}
}

// RecordLocation validates a raw submission, assigns server-side fields and
// persists the sample. Store errors propagate unchanged; retries belong to
// the transport, not here.
func (s *LocationService) RecordLocation(ctx context.Context, req types.LocationRequest) (*types.LocationSample, error) {
	if req.DeviceID == "" || req.Timestamp == nil || req.Latitude == nil || req.Longitude == nil {
		return nil, &ValidationError{
			Code:    MissingField,
			Message: "missing required fields: deviceId, timestamp, latitude, longitude",
		}
	}

	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		return nil, &ValidationError{
			Code:    OutOfRange,
			Message: "invalid coordinates",
		}
	}

	if req.Accuracy != nil && *req.Accuracy < 0 {
		return nil, &ValidationError{
			Code:    OutOfRange,
			Message: "accuracy must be non-negative",
		}
	}

	now := s.now().UnixMilli()
	if *req.Timestamp > now+maxFutureMillis || *req.Timestamp < now-maxPastMillis {
		return nil, &ValidationError{
			Code:    BadTimestamp,
			Message: "invalid timestamp",
		}
	}

	deviceName := req.DeviceName
	if deviceName == "" {
		deviceName = defaultDeviceName
	}

	sample := types.LocationSample{
		DeviceID:   req.DeviceID,
		Timestamp:  *req.Timestamp,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Accuracy:   req.Accuracy,
		DeviceName: deviceName,
		ReceivedAt: now,
		ExpiresAt:  (now + retentionMillis) / 1000,
	}

	if err := s.store.Put(ctx, sample); err != nil {
		return nil, err
	}

	return &sample, nil
}

// QueryLocations returns one device's samples newest-first. Nil bounds are
// open, non-nil bounds inclusive. limit <= 0 falls back to the default and
// is always capped at the configured maximum.
func (s *LocationService) QueryLocations(ctx context.Context, deviceID string, startTime, endTime *int64, limit int) ([]types.LocationSample, error) {
	if deviceID == "" {
		return nil, &ValidationError{
			Code:    MissingField,
			Message: "deviceId is required",
		}
	}

	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > s.maxQueryLimit {
		limit = s.maxQueryLimit
	}

	return s.store.QueryByDevice(ctx, deviceID, startTime, endTime, limit, true)
}

// ListActiveDevices scans samples newer than the lookback threshold and
// keeps the most recent one per device. Two samples sharing the same maximal
// timestamp are tie-broken arbitrarily. The result order follows scan order.
//
// This is a full-store scan; with many devices a last-seen index would
// replace it.
func (s *LocationService) ListActiveDevices(ctx context.Context, lookbackHours int) ([]types.DeviceSummary, error) {
	threshold := s.now().UnixMilli() - int64(lookbackHours)*60*60*1000

	samples, err := s.store.ScanFiltered(ctx, threshold)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]types.LocationSample)
	order := make([]string, 0)
	for _, sample := range samples {
		current, seen := latest[sample.DeviceID]
		if !seen {
			order = append(order, sample.DeviceID)
		}
		if !seen || sample.Timestamp > current.Timestamp {
			latest[sample.DeviceID] = sample
		}
	}

	devices := make([]types.DeviceSummary, 0, len(latest))
	for _, deviceID := range order {
		sample := latest[deviceID]
		devices = append(devices, types.DeviceSummary{
			DeviceID:   sample.DeviceID,
			DeviceName: sample.DeviceName,
			LastLocation: types.LastLocation{
				Timestamp: sample.Timestamp,
				Latitude:  sample.Latitude,
				Longitude: sample.Longitude,
				Accuracy:  sample.Accuracy,
			},
		})
	}

	return devices, nil
}

// GetStats runs the 24-hour and 1-hour counts concurrently. A failure or
// timeout in either cancels the other and yields a single store error.
func (s *LocationService) GetStats(ctx context.Context) (*types.Statistics, error) {
	now := s.now()

	var last24h, lastHour int
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.store.CountFiltered(ctx, now.UnixMilli()-24*60*60*1000)
		if err != nil {
			return err
		}
		last24h = count
		return nil
	})

	g.Go(func() error {
		count, err := s.store.CountFiltered(ctx, now.UnixMilli()-60*60*1000)
		if err != nil {
			return err
		}
		lastHour = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.Statistics{
		LocationsLast24h:  last24h,
		LocationsLastHour: lastHour,
		ServerTime:        now.UTC().Format(time.RFC3339),
	}, nil
}
