package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"warning alias", "WARNING", slog.LevelWarn},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger == Default() {
		t.Error("Default() returned the same instance twice")
	}
}

func TestWithWriterAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).With("session_id", "s-1")

	logger.Info("appointment created", "appointment_id", "AGD-123456789")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "appointment created" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["session_id"] != "s-1" || entry["appointment_id"] != "AGD-123456789" {
		t.Fatalf("missing attributes in %v", entry)
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("info", &buf)
	fallback := New("error")

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback without a stored logger")
	}
	if FromContext(context.Background(), nil) == nil {
		t.Fatal("expected default logger when fallback is nil")
	}

	ctx := IntoContext(context.Background(), base.With("request_id", "req-1"))
	FromContext(ctx, fallback).Info("summary stream opened")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("request_id not carried: %v", entry)
	}

	if IntoContext(ctx, nil) != ctx {
		t.Fatal("nil logger should leave ctx untouched")
	}
}
