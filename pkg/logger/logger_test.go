package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug("hidden")
	log.Info("Image processed")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line at info level, got %d: %s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "Image processed" {
		t.Errorf("expected message key, got %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Errorf("expected timestamp key, got %v", entry)
	}
	if entry["level"] != "info" {
		t.Errorf("expected level=info, got %v", entry["level"])
	}
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	log, err := New("info", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("dropped")
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("chatty", filepath.Join(t.TempDir(), "app.log")); err == nil {
		t.Error("expected error for invalid level")
	}
}
