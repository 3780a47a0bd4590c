package delivery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeMaps struct {
	mu        sync.Mutex
	points    map[string]*Point
	meters    int
	duration  time.Duration
	matrixErr error
	matrixHit int
}

func (f *fakeMaps) Geocode(_ context.Context, address string) (*Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.points[address]
	if !ok {
		return nil, errors.New("ZERO_RESULTS")
	}
	return p, nil
}

func (f *fakeMaps) DistanceMatrix(_ context.Context, _, _ string) (int, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matrixHit++
	return f.meters, f.duration, f.matrixErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDistanceGeocoded(t *testing.T) {
	maps := &fakeMaps{points: map[string]*Point{
		"store": {Lat: 0, Lng: 0},
		"home":  {Lat: 0, Lng: 0.1},
	}}
	e := NewEstimator(maps, DefaultFeeSchedule(), testLogger())

	d, err := e.Distance(context.Background(), "store", "home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Km != 11.12 {
		t.Fatalf("expected 11.12 km, got %v", d.Km)
	}
	if d.Minutes != 17 {
		t.Fatalf("expected 17 minutes, got %d", d.Minutes)
	}
	if maps.matrixHit != 0 {
		t.Fatal("distance matrix must not be used when geocoding works")
	}
}

func TestDistanceFallsBackToMatrix(t *testing.T) {
	maps := &fakeMaps{
		points:   map[string]*Point{"store": {Lat: 0, Lng: 0}},
		meters:   7456,
		duration: 13*time.Minute + 10*time.Second,
	}
	e := NewEstimator(maps, DefaultFeeSchedule(), testLogger())

	d, err := e.Distance(context.Background(), "store", "nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Km != 7.46 || d.Minutes != 14 {
		t.Fatalf("unexpected matrix distance %+v", d)
	}
}

func TestDistanceUnavailable(t *testing.T) {
	maps := &fakeMaps{matrixErr: errors.New("NOT_FOUND")}
	e := NewEstimator(maps, DefaultFeeSchedule(), testLogger())
	_, err := e.Distance(context.Background(), "a", "b")
	if !errors.Is(err, ErrDistanceUnavailable) {
		t.Fatalf("expected ErrDistanceUnavailable, got %v", err)
	}

	e = NewEstimator(nil, DefaultFeeSchedule(), testLogger())
	if _, err = e.Distance(context.Background(), "a", "b"); !errors.Is(err, ErrDistanceUnavailable) {
		t.Fatalf("expected ErrDistanceUnavailable without maps, got %v", err)
	}
}

func TestQuoteAvailable(t *testing.T) {
	maps := &fakeMaps{points: map[string]*Point{
		"store": {Lat: 0, Lng: 0},
		"home":  {Lat: 0, Lng: 0.1},
	}}
	e := NewEstimator(maps, DefaultFeeSchedule(), testLogger())

	q := e.Quote(context.Background(), "store", "home")
	if !q.Available {
		t.Fatalf("expected available quote: %+v", q)
	}
	// 5.00 + (11.12 - 2) * 1.00
	if q.Fee != 1412 {
		t.Fatalf("expected fee 1412, got %d", q.Fee)
	}
	if q.Message != "Delivery available in 17 minutes" {
		t.Fatalf("unexpected message %q", q.Message)
	}
	if q.EstimatedDeliveryTime == "" {
		t.Fatal("expected delivery time estimate")
	}
}

func TestQuoteTooFar(t *testing.T) {
	maps := &fakeMaps{points: map[string]*Point{
		"seattle":  {Lat: 47.6062, Lng: -122.3321},
		"portland": {Lat: 45.5152, Lng: -122.6784},
	}}
	e := NewEstimator(maps, DefaultFeeSchedule(), testLogger())

	q := e.Quote(context.Background(), "seattle", "portland")
	if q.Available {
		t.Fatal("expected unavailable quote")
	}
	if q.Fee != 0 {
		t.Fatalf("unavailable quote must carry no fee, got %d", q.Fee)
	}
	if q.MaxDistanceKm != 100 || !strings.Contains(q.Message, "max 100km") {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestQuoteDistanceFailure(t *testing.T) {
	maps := &fakeMaps{matrixErr: errors.New("REQUEST_DENIED")}
	e := NewEstimator(maps, DefaultFeeSchedule(), testLogger())

	q := e.Quote(context.Background(), "a", "b")
	if q.Available || q.Fee != 0 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if !strings.HasPrefix(q.Message, "Unable to calculate delivery distance") {
		t.Fatalf("unexpected message %q", q.Message)
	}
}
