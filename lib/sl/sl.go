package sl

import (
	"fmt"
	"log/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret keeps only the first 5 characters of a credential so it can be
// matched in logs without leaking it
func Secret(key, value string) slog.Attr {
	r := "***"
	if len(value) > 5 {
		r = fmt.Sprintf("%s***", value[0:5])
	}
	if value == "" {
		r = "?"
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(r),
	}
}

func Module(mod string) slog.Attr {
	return slog.Attr{
		Key:   "mod",
		Value: slog.StringValue(mod),
	}
}

// Cents renders an amount in minor units as a decimal string, e.g. 1299 -> "12.99"
func Cents(key string, amount int64) slog.Attr {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return slog.String(key, fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100))
}
