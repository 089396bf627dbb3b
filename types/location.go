/*
# Module: types/location.go
Location sample and device summary data structures.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, location

## Exports
LocationSample, DeviceSummary, LastLocation

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/location.go" ;
    code:description "Location sample and device summary data structures" ;
    code:exports :LocationSample, :DeviceSummary, :LastLocation ;
    code:tags "data-types", "location" .
<!-- End LinkedDoc RDF -->
*/
package types

// LocationSample is one reported device position. Samples are written once
// and never mutated; DynamoDB TTL on expiresAt removes them after 30 days.
type LocationSample struct {
	DeviceID   string   `json:"deviceId" dynamodbav:"deviceId"`
	Timestamp  int64    `json:"timestamp" dynamodbav:"timestamp"`
	Latitude   float64  `json:"latitude" dynamodbav:"latitude"`
	Longitude  float64  `json:"longitude" dynamodbav:"longitude"`
	Accuracy   *float64 `json:"accuracy,omitempty" dynamodbav:"accuracy,omitempty"`
	DeviceName string   `json:"deviceName" dynamodbav:"deviceName"`
	ReceivedAt int64    `json:"receivedAt" dynamodbav:"receivedAt"`
	ExpiresAt  int64    `json:"expiresAt" dynamodbav:"expiresAt"`
}

// LastLocation is the position portion of a DeviceSummary.
type LastLocation struct {
	Timestamp int64    `json:"timestamp"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// DeviceSummary is the most recent sample per device within a lookback
// window. Computed on demand, never persisted.
type DeviceSummary struct {
	DeviceID     string       `json:"deviceId"`
	DeviceName   string       `json:"deviceName"`
	LastLocation LastLocation `json:"lastLocation"`
}
