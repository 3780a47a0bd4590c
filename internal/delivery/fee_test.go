package delivery

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// one degree of longitude on the equator is ~111.19 km
	d := Haversine(Point{0, 0}, Point{0, 1})
	if math.Abs(d-111.19) > 0.01 {
		t.Fatalf("unexpected distance: %f", d)
	}
	if z := Haversine(Point{43.56, -79.70}, Point{43.56, -79.70}); z != 0 {
		t.Fatalf("expected 0, got %f", z)
	}
	ab := Haversine(Point{47.6062, -122.3321}, Point{45.5152, -122.6784})
	ba := Haversine(Point{45.5152, -122.6784}, Point{47.6062, -122.3321})
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance must be symmetric: %f vs %f", ab, ba)
	}
	// Seattle to Portland is roughly 234 km in a straight line
	if ab < 230 || ab > 238 {
		t.Fatalf("unexpected Seattle-Portland distance %f", ab)
	}
}

func TestFeeSchedule(t *testing.T) {
	fs := DefaultFeeSchedule()
	cases := []struct {
		km    float64
		cents int64
	}{
		{0, 500},
		{1.5, 500},
		{2, 500},
		{2.5, 550},
		{10, 1300},
		{12.34, 1534},
	}
	for _, c := range cases {
		if got := fs.Cents(c.km); got != c.cents {
			t.Errorf("Cents(%v) = %d, want %d", c.km, got, c.cents)
		}
	}
}

func TestFeeScheduleDuration(t *testing.T) {
	fs := DefaultFeeSchedule()
	if got := fs.Duration(10); got != 15 {
		t.Fatalf("10 km at 40 km/h should take 15 min, got %d", got)
	}
	if got := fs.Duration(10.1); got != 16 {
		t.Fatalf("duration must round up, got %d", got)
	}
	if got := fs.Duration(0); got != 0 {
		t.Fatalf("zero distance must take zero minutes, got %d", got)
	}
}

func TestFeeScheduleInRange(t *testing.T) {
	fs := DefaultFeeSchedule()
	if !fs.InRange(100) {
		t.Fatal("max distance itself must be deliverable")
	}
	if fs.InRange(100.01) {
		t.Fatal("beyond max distance must not be deliverable")
	}
}
