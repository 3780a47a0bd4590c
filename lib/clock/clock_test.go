package clock

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	in := time.Date(2025, 3, 7, 9, 5, 1, 999, loc)
	if got := Format(in); got != "2025-03-07T14:05:01Z" {
		t.Fatalf("unexpected format: %s", got)
	}
}

func TestNowIsUTC(t *testing.T) {
	got, err := time.Parse(layout, Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := time.Since(got); d < -time.Second || d > 2*time.Second {
		t.Fatalf("unexpected time %s", got)
	}
}
