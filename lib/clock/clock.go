package clock

import (
	"time"
)

const layout = "2006-01-02T15:04:05Z"

func Now() string {
	return Format(time.Now())
}

// Format renders t in UTC without fractional seconds, the layout both the
// API envelope and the delivery provider expect
func Format(t time.Time) string {
	return t.UTC().Format(layout)
}
