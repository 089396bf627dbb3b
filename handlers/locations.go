/*
# Module: handlers/locations.go
HTTP handlers for the location API.

## Linked Modules
- [services/locations](../services/locations.go) - Location domain logic
- [types/api_types](../types/api_types.go) - Request/response data structures

## Tags
http, api, location

## Exports
LocationHandler, NewLocationHandler

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/locations.go" ;
    code:description "HTTP handlers for the location API" ;
    code:linksTo [
        code:name "services/locations" ;
        code:path "../services/locations.go" ;
        code:relationship "Location domain logic"
    ], [
        code:name "types/api_types" ;
        code:path "../types/api_types.go" ;
        code:relationship "Request/response data structures"
    ] ;
    code:exports :LocationHandler, :NewLocationHandler ;
    code:tags "http", "api", "location" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/Nayelilh/gps-tracking-server/services"
	"github.com/Nayelilh/gps-tracking-server/types"
)

const defaultLookbackHours = 24

// Recognized query parameters per endpoint. Anything else is ignored, not
// rejected.
//
//	/api/locations: deviceId, startTime, endTime, limit
//	/api/devices:   hours

// LocationHandler maps HTTP requests onto the location service and its
// outcomes onto response codes.
type LocationHandler struct {
	service *services.LocationService
}

// NewLocationHandler creates handlers over the given service.
func NewLocationHandler(service *services.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// HandleSubmit handles POST /api/location.
func (h *LocationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req types.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{
			Error: "invalid JSON body",
		})
		return
	}

	sample, err := h.service.RecordLocation(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	log.Printf("📍 Location saved: device=%s at (%.6f, %.6f)", sample.DeviceID, sample.Latitude, sample.Longitude)

	writeJSON(w, http.StatusCreated, types.SubmitResponse{
		Success:   true,
		Message:   "location saved",
		DeviceID:  sample.DeviceID,
		Timestamp: sample.Timestamp,
	})
}

// HandleLocations handles GET /api/locations.
func (h *LocationHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	query := r.URL.Query()
	deviceID := query.Get("deviceId")
	startTime := parseInt64Param(query.Get("startTime"))
	endTime := parseInt64Param(query.Get("endTime"))

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	locations, err := h.service.QueryLocations(r.Context(), deviceID, startTime, endTime, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.LocationsResponse{
		Success:   true,
		Count:     len(locations),
		DeviceID:  deviceID,
		Locations: locations,
	})
}

// HandleDevices handles GET /api/devices.
func (h *LocationHandler) HandleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	hours := defaultLookbackHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			hours = parsed
		}
	}

	devices, err := h.service.ListActiveDevices(r.Context(), hours)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.DevicesResponse{
		Success:   true,
		Count:     len(devices),
		TimeRange: fmt.Sprintf("%d hours", hours),
		Devices:   devices,
	})
}

// HandleStats handles GET /api/stats.
func (h *LocationHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.StatsResponse{
		Success:    true,
		Statistics: *stats,
	})
}

// writeError maps a service error onto a response. Validation failures carry
// their reason to the client; store failures are logged in full and answered
// with a generic message.
func (h *LocationHandler) writeError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{
			Error: validation.Message,
		})
		return
	}

	log.Printf("❌ Store operation failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{
		Error:   "internal server error",
		Message: "the request could not be processed",
	})
}

func parseInt64Param(raw string) *int64 {
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, types.ErrorResponse{
		Error: "method not allowed",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}
