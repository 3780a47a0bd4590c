package sl

import (
	"errors"
	"testing"
)

func TestSecret(t *testing.T) {
	cases := map[string]string{
		"":               "?",
		"abc":            "***",
		"sk_test_123456": "sk_te***",
	}
	for in, want := range cases {
		if got := Secret("k", in).Value.String(); got != want {
			t.Errorf("Secret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCents(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		599:   "5.99",
		-1250: "-12.50",
	}
	for in, want := range cases {
		if got := Cents("amount", in).Value.String(); got != want {
			t.Errorf("Cents(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestErr(t *testing.T) {
	if got := Err(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("unexpected error attr: %s", got)
	}
	if got := Err(nil).Value.String(); got != "" {
		t.Fatalf("nil error should render empty, got %q", got)
	}
}
