package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type sent struct {
	msg   string
	level slog.Level
	topic string
}

type fakeSender struct {
	messages []sent
}

func (f *fakeSender) SendMessageWithLevel(msg string, level slog.Level) {
	f.messages = append(f.messages, sent{msg: msg, level: level})
}

func (f *fakeSender) SendMessageWithTopic(msg string, level slog.Level, topic string) {
	f.messages = append(f.messages, sent{msg: msg, level: level, topic: topic})
}

func TestTelegramHandler(t *testing.T) {
	var buf bytes.Buffer
	sender := &fakeSender{}
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(NewTelegramHandler(base, sender, slog.LevelWarn)).With(slog.String("mod", "core"))

	log.Info("order created")
	log.Warn("dispatch failed", slog.String(TopicKey, "delivery"), slog.Int64("order_id", 12))
	log.Error("stripe down", slog.String("error", "timeout"))

	if !strings.Contains(buf.String(), "order created") {
		t.Fatalf("info record must reach the file handler: %q", buf.String())
	}
	if len(sender.messages) != 2 {
		t.Fatalf("expected 2 telegram messages, got %d", len(sender.messages))
	}

	warn := sender.messages[0]
	if warn.topic != "delivery" || warn.level != slog.LevelWarn {
		t.Fatalf("warn routing: %+v", warn)
	}
	if !strings.Contains(warn.msg, "order\\_id: 12") || strings.Contains(warn.msg, TopicKey) {
		t.Fatalf("warn message: %q", warn.msg)
	}
	if !strings.Contains(warn.msg, "mod: core") {
		t.Fatalf("logger attrs missing: %q", warn.msg)
	}

	errMsg := sender.messages[1]
	if errMsg.topic != "" || !strings.Contains(errMsg.msg, "```error timeout ```") {
		t.Fatalf("error message: %+v", errMsg)
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := newHandler(envProd, &buf)
	if err != nil {
		t.Fatal(err)
	}
	slog.New(h).Debug("hidden")
	slog.New(h).Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("prod handler output: %q", buf.String())
	}

	_, err = newHandler("staging", &buf)
	var envErr *invalidEnvError
	if !errors.As(err, &envErr) {
		t.Fatalf("expected invalid env error, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("error") != slog.LevelError || ParseLevel("INFO") != slog.LevelInfo {
		t.Fatal("known levels")
	}
	if ParseLevel("loud") != slog.LevelWarn {
		t.Fatal("unknown level falls back to warn")
	}
}
