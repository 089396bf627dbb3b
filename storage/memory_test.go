package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Nayelilh/gps-tracking-server/types"
)

func sample(deviceID string, ts int64) types.LocationSample {
	return types.LocationSample{
		DeviceID:   deviceID,
		Timestamp:  ts,
		Latitude:   10.0,
		Longitude:  20.0,
		DeviceName: "test",
	}
}

func seed(t *testing.T, store *MemoryStore, samples ...types.LocationSample) {
	t.Helper()
	for _, s := range samples {
		if err := store.Put(context.Background(), s); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
}

func TestMemoryStore_PutOverwritesSameKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := sample("A", 1000)
	first.Latitude = 1
	second := sample("A", 1000)
	second.Latitude = 2
	seed(t, store, first, second)

	got, err := store.QueryByDevice(ctx, "A", nil, nil, 10, true)
	if err != nil {
		t.Fatalf("QueryByDevice() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d samples, want 1", len(got))
	}
	if got[0].Latitude != 2 {
		t.Errorf("latitude = %v, want the overwriting value 2", got[0].Latitude)
	}
}

func TestMemoryStore_QueryOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seed(t, store, sample("A", 300), sample("A", 100), sample("A", 200))

	desc, err := store.QueryByDevice(ctx, "A", nil, nil, 10, true)
	if err != nil {
		t.Fatalf("QueryByDevice(desc) error = %v", err)
	}
	for i, want := range []int64{300, 200, 100} {
		if desc[i].Timestamp != want {
			t.Errorf("desc[%d].Timestamp = %d, want %d", i, desc[i].Timestamp, want)
		}
	}

	asc, err := store.QueryByDevice(ctx, "A", nil, nil, 10, false)
	if err != nil {
		t.Fatalf("QueryByDevice(asc) error = %v", err)
	}
	for i, want := range []int64{100, 200, 300} {
		if asc[i].Timestamp != want {
			t.Errorf("asc[%d].Timestamp = %d, want %d", i, asc[i].Timestamp, want)
		}
	}
}

func TestMemoryStore_QueryBoundsAndLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seed(t, store, sample("A", 100), sample("A", 200), sample("A", 300), sample("B", 250))

	start, end := int64(100), int64(200)
	got, err := store.QueryByDevice(ctx, "A", &start, &end, 10, true)
	if err != nil {
		t.Fatalf("QueryByDevice() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("bounded query returned %d samples, want 2 (bounds inclusive)", len(got))
	}

	limited, err := store.QueryByDevice(ctx, "A", nil, nil, 2, true)
	if err != nil {
		t.Fatalf("QueryByDevice() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited query returned %d samples, want 2", len(limited))
	}
	if limited[0].Timestamp != 300 {
		t.Errorf("limit kept timestamp %d first, want the newest 300", limited[0].Timestamp)
	}

	other, err := store.QueryByDevice(ctx, "B", nil, nil, 10, true)
	if err != nil {
		t.Fatalf("QueryByDevice() error = %v", err)
	}
	if len(other) != 1 {
		t.Errorf("device B query returned %d samples, want 1 (partition scoped)", len(other))
	}
}

func TestMemoryStore_ScanAndCountFiltered(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seed(t, store, sample("A", 100), sample("A", 500), sample("B", 400), sample("C", 50))

	scanned, err := store.ScanFiltered(ctx, 400)
	if err != nil {
		t.Fatalf("ScanFiltered() error = %v", err)
	}
	if len(scanned) != 2 {
		t.Errorf("ScanFiltered(400) returned %d samples, want 2", len(scanned))
	}

	count, err := store.CountFiltered(ctx, 400)
	if err != nil {
		t.Fatalf("CountFiltered() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountFiltered(400) = %d, want 2", count)
	}

	all, err := store.CountFiltered(ctx, 0)
	if err != nil {
		t.Fatalf("CountFiltered() error = %v", err)
	}
	if all != 4 {
		t.Errorf("CountFiltered(0) = %d, want 4", all)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Put(ctx, sample("A", 100))
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Put() with cancelled context error = %v, want StoreError", err)
	}
}
