package doordash

import (
	"testing"
	"time"
)

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"(647) 920-6806":   "+16479206806",
		"647.920.6806":     "+16479206806",
		"1-647-920-6806":   "+16479206806",
		"+44 20 7946 0958": "+442079460958",
		"12345":            "12345",
		"":                 "",
	}
	for in, want := range cases {
		if got := FormatPhone(in); got != want {
			t.Errorf("FormatPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("EDT", -4*3600)
	in := time.Date(2025, 6, 1, 18, 30, 5, 123456, loc)
	if got := FormatTime(in); got != "2025-06-01T22:30:05Z" {
		t.Fatalf("unexpected time %s", got)
	}
}
