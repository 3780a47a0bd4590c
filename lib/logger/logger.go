package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func SetupLogger(env, logPath string) *slog.Logger {
	var out io.Writer = os.Stdout

	if env != envLocal {
		logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("error opening log file: ", err)
		}
		log.Printf("env: %s; log file: %s", env, logPath)
		out = logFile
	}

	handler, err := newHandler(env, out)
	if err != nil {
		log.Fatal(err)
	}
	return slog.New(handler)
}

// newHandler writes text locally and JSON lines to the log file on servers
func newHandler(env string, out io.Writer) (slog.Handler, error) {
	switch env {
	case envLocal:
		return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}), nil
	case envDev:
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}), nil
	case envProd:
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}), nil
	}
	return nil, &invalidEnvError{env: env}
}

type invalidEnvError struct {
	env string
}

func (e *invalidEnvError) Error() string {
	return "invalid environment: " + e.env
}

// ParseLevel maps a config value to a slog level, defaulting to warn
func ParseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelWarn
	}
	return level
}
