package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	return event
}

func TestCloudRunHandlerSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerTo(&buf, slog.LevelInfo))

	log.Warn("budget over", "budget_id", "b1", "error", errors.New("boom"))

	event := decodeLine(t, &buf)
	if event["severity"] != "WARNING" {
		t.Fatalf("severity = %v", event["severity"])
	}
	if event["message"] != "budget over" {
		t.Fatalf("message = %v", event["message"])
	}
	data, ok := event["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %v", event)
	}
	if data["budget_id"] != "b1" || data["error"] != "boom" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestCloudRunHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerTo(&buf, slog.LevelDebug)).
		With("request_id", "r1").
		WithGroup("tx")

	log.Info("created", "id", "t1")

	data := decodeLine(t, &buf)["data"].(map[string]any)
	if data["request_id"] != "r1" {
		t.Fatalf("request_id missing: %v", data)
	}
	if data["tx.id"] != "t1" {
		t.Fatalf("grouped key missing: %v", data)
	}
}

func TestCloudRunHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudRunHandlerTo(&buf, slog.LevelWarn))

	log.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
