package doordash

import (
	"strings"
	"time"
)

// FormatPhone converts a North American style number to E.164;
// anything it cannot interpret is returned unchanged
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) >= 11:
		return "+" + digits
	default:
		return raw
	}
}

// FormatTime renders a pickup or dropoff time the way the Drive API accepts it
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
