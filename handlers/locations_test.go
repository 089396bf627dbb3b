package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nayelilh/gps-tracking-server/services"
	"github.com/Nayelilh/gps-tracking-server/storage"
	"github.com/Nayelilh/gps-tracking-server/types"
)

func newTestHandler() *LocationHandler {
	return NewLocationHandler(services.NewLocationService(storage.NewMemoryStore(), 1000))
}

func submitBody(deviceID string, ts int64) []byte {
	body, _ := json.Marshal(map[string]any{
		"deviceId":  deviceID,
		"timestamp": ts,
		"latitude":  40.4168,
		"longitude": -3.7038,
		"accuracy":  8.0,
	})
	return body
}

func postLocation(t *testing.T, h *LocationHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/location", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)
	return rec
}

func TestHandleSubmit(t *testing.T) {
	h := newTestHandler()
	ts := time.Now().UnixMilli()

	rec := postLocation(t, h, submitBody("device-1", ts))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp types.SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.DeviceID != "device-1" || resp.Timestamp != ts {
		t.Errorf("response = %+v, want success echoing device-1/%d", resp, ts)
	}
}

func TestHandleSubmit_Errors(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want int
	}{
		{"invalid json", []byte("{not json"), http.StatusBadRequest},
		{"missing fields", []byte(`{"deviceId":"device-1"}`), http.StatusBadRequest},
		{"bad coordinates", []byte(fmt.Sprintf(`{"deviceId":"d","timestamp":%d,"latitude":95,"longitude":0}`, time.Now().UnixMilli())), http.StatusBadRequest},
		{"stale timestamp", []byte(fmt.Sprintf(`{"deviceId":"d","timestamp":%d,"latitude":1,"longitude":1}`, time.Now().UnixMilli()-25*60*60*1000)), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLocation(t, newTestHandler(), tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleSubmit_MethodNotAllowed(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/location", nil)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleLocations(t *testing.T) {
	h := newTestHandler()
	now := time.Now().UnixMilli()

	for offset := int64(1); offset <= 3; offset++ {
		rec := postLocation(t, h, submitBody("device-1", now-offset*1000))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed submit failed: %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/locations?deviceId=device-1&limit=2", nil)
	rec := httptest.NewRecorder()
	h.HandleLocations(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp types.LocationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 || len(resp.Locations) != 2 {
		t.Fatalf("count = %d with %d locations, want 2", resp.Count, len(resp.Locations))
	}
	if resp.Locations[0].Timestamp < resp.Locations[1].Timestamp {
		t.Errorf("locations not newest-first: %d before %d", resp.Locations[0].Timestamp, resp.Locations[1].Timestamp)
	}
}

func TestHandleLocations_RequiresDeviceID(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	rec := httptest.NewRecorder()
	h.HandleLocations(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleLocations_IgnoresUnknownParams(t *testing.T) {
	h := newTestHandler()
	rec := postLocation(t, h, submitBody("device-1", time.Now().UnixMilli()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed submit failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/locations?deviceId=device-1&foo=bar&order=asc", nil)
	rec = httptest.NewRecorder()
	h.HandleLocations(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (unknown params must be ignored)", rec.Code)
	}
}

func TestHandleDevices(t *testing.T) {
	h := newTestHandler()
	now := time.Now().UnixMilli()

	for _, deviceID := range []string{"A", "B"} {
		rec := postLocation(t, h, submitBody(deviceID, now-60*1000))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed submit failed: %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rec := httptest.NewRecorder()
	h.HandleDevices(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp types.DevicesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if resp.TimeRange != "24 hours" {
		t.Errorf("timeRange = %q, want default %q", resp.TimeRange, "24 hours")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/devices?hours=0", nil)
	rec = httptest.NewRecorder()
	h.HandleDevices(rec, req)

	var empty types.DevicesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &empty); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if empty.Count != 0 {
		t.Errorf("count = %d for zero lookback, want 0", empty.Count)
	}
}

func TestHandleStats(t *testing.T) {
	h := newTestHandler()
	now := time.Now().UnixMilli()

	rec := postLocation(t, h, submitBody("device-1", now-30*60*1000))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed submit failed: %d", rec.Code)
	}
	rec = postLocation(t, h, submitBody("device-1", now-2*60*60*1000))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed submit failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec = httptest.NewRecorder()
	h.HandleStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp types.StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Statistics.LocationsLast24h != 2 || resp.Statistics.LocationsLastHour != 1 {
		t.Errorf("statistics = %+v, want 24h=2 hour=1", resp.Statistics)
	}
	if resp.Statistics.ServerTime == "" {
		t.Error("serverTime is empty")
	}
}

func TestHealthInfoAndNotFound(t *testing.T) {
	h := NewHealthHandler("1.0.0")

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
	var health types.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if health.Status != "OK" || health.UptimeSeconds < 0 {
		t.Errorf("health = %+v, want OK with non-negative uptime", health)
	}

	rec = httptest.NewRecorder()
	h.HandleInfo(rec, httptest.NewRequest(http.MethodGet, "/info", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("info status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleNotFound(rec, httptest.NewRequest(http.MethodGet, "/api/bogus", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("not-found status = %d, want 404", rec.Code)
	}
	var notFound types.NotFoundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &notFound); err != nil {
		t.Fatalf("unmarshal not-found: %v", err)
	}
	if len(notFound.AvailableEndpoints) == 0 {
		t.Error("availableEndpoints is empty")
	}
}
