/*
# Module: handlers/health.go
Health, info and not-found endpoint handlers.

## Linked Modules
- [types/api_types](../types/api_types.go) - Response data structures

## Tags
http, health, api

## Exports
HealthHandler, NewHealthHandler

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/health.go" ;
    code:description "Health, info and not-found endpoint handlers" ;
    code:linksTo [
        code:name "types/api_types" ;
        code:path "../types/api_types.go" ;
        code:relationship "Response data structures"
    ] ;
    code:exports :HealthHandler, :NewHealthHandler ;
    code:tags "http", "health", "api" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Nayelilh/gps-tracking-server/types"
)

var availableEndpoints = []string{
	"/api/location",
	"/api/locations",
	"/api/devices",
	"/api/stats",
	"/health",
	"/info",
}

// HealthHandler serves the liveness and capability endpoints.
type HealthHandler struct {
	startedAt time.Time
	version   string
}

// NewHealthHandler records the process start time for uptime reporting.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now(),
		version:   version,
	}
}

// HandleHealth handles GET /health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:        "OK",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Version:       h.version,
	})
}

// HandleInfo handles GET /info.
func (h *HealthHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "GPS Tracking Server",
		"version":     h.version,
		"description": "Backend service for device location tracking",
		"endpoints": map[string]string{
			"POST /api/location": "Submit a device location",
			"GET /api/locations": "Query locations for one device",
			"GET /api/devices":   "List active devices",
			"GET /api/stats":     "Windowed ingest counts",
			"GET /health":        "Server health",
		},
	})
}

// HandleNotFound answers any unmatched route with the endpoint listing.
func (h *HealthHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, types.NotFoundResponse{
		Error:              "endpoint not found",
		Message:            fmt.Sprintf("route %s %s does not exist", r.Method, r.URL.Path),
		AvailableEndpoints: availableEndpoints,
	})
}
