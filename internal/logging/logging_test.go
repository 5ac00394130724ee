package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", slog.LevelInfo, "derivative")
	logger.Debug("hidden")
	logger.Info("listening", "addr", ":5000")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("want one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["service"] != "derivative" || rec["addr"] != ":5000" || rec["msg"] != "listening" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "text", slog.LevelDebug, "calculator").Debug("request")
	out := buf.String()
	if !strings.Contains(out, "service=calculator") || !strings.Contains(out, "level=DEBUG") {
		t.Errorf("unexpected text output %q", out)
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard should not be enabled at any level")
	}
}
