/*
# Module: types/api_types.go
HTTP API request and response data structures.

## Linked Modules
- [types/location](./location.go) - Location data structures

## Tags
data-types, api

## Exports
LocationRequest, SubmitResponse, LocationsResponse, DevicesResponse, StatsResponse, Statistics, HealthResponse, ErrorResponse, NotFoundResponse

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/api_types.go" ;
    code:description "HTTP API request and response data structures" ;
    code:linksTo [
        code:name "types/location" ;
        code:path "./location.go" ;
        code:relationship "Location data structures"
    ] ;
    code:exports :LocationRequest, :SubmitResponse, :LocationsResponse, :DevicesResponse, :StatsResponse, :HealthResponse, :ErrorResponse, :NotFoundResponse ;
    code:tags "data-types", "api" .
<!-- End LinkedDoc RDF -->
*/
package types

// LocationRequest is the body of POST /api/location. Numeric fields are
// pointers so that absent and zero can be told apart during validation.
type LocationRequest struct {
	DeviceID   string   `json:"deviceId"`
	Timestamp  *int64   `json:"timestamp"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Accuracy   *float64 `json:"accuracy"`
	DeviceName string   `json:"deviceName"`
}

// SubmitResponse acknowledges a stored sample.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DeviceID  string `json:"deviceId"`
	Timestamp int64  `json:"timestamp"`
}

// LocationsResponse is the body of GET /api/locations.
type LocationsResponse struct {
	Success   bool             `json:"success"`
	Count     int              `json:"count"`
	DeviceID  string           `json:"deviceId"`
	Locations []LocationSample `json:"locations"`
}

// DevicesResponse is the body of GET /api/devices.
type DevicesResponse struct {
	Success   bool            `json:"success"`
	Count     int             `json:"count"`
	TimeRange string          `json:"timeRange"`
	Devices   []DeviceSummary `json:"devices"`
}

// Statistics holds windowed ingest counts.
type Statistics struct {
	LocationsLast24h  int    `json:"locationsLast24h"`
	LocationsLastHour int    `json:"locationsLastHour"`
	ServerTime        string `json:"serverTime"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Success    bool       `json:"success"`
	Statistics Statistics `json:"statistics"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds float64 `json:"uptime"`
	Version       string  `json:"version"`
}

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NotFoundResponse is returned for unmatched routes.
type NotFoundResponse struct {
	Error              string   `json:"error"`
	Message            string   `json:"message"`
	AvailableEndpoints []string `json:"availableEndpoints"`
}
