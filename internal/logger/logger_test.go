package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	entry := New().WithComponent("scanner")
	if v, ok := entry.Data["component"]; !ok || v != "scanner" {
		t.Fatalf("component field missing: %v", entry.Data)
	}
	child := entry.WithFields(Fields{"symbol": "SPY"})
	if child.Data["component"] != "scanner" || child.Data["symbol"] != "SPY" {
		t.Errorf("fields not carried: %v", child.Data)
	}
}

func TestConfigureInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	if err := New().Configure("loud", "text", "stderr", 0); err == nil {
		t.Error("expected error for invalid level")
	}
	if err := New().Configure("info", "xml", "stderr", 0); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestConfigureEnvLevelWins(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	l := New()
	if err := l.Configure("warn", "text", "stderr", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", l.GetLevel())
	}
}

func TestJSONFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	l := New()
	if err := l.Configure("info", "json", "stderr", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.WithComponent("store").Info("opened")

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if rec["message"] != "opened" || rec["component"] != "store" {
		t.Errorf("unexpected record: %v", rec)
	}
	if file, _ := rec["file"].(string); !strings.HasPrefix(file, "logger_test.go:") {
		t.Errorf("expected caller file:line, got %v", rec["file"])
	}
}

func TestFileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "smc.log")
	l := New()
	if err := l.Configure("info", "text", path, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.WithComponent("cli").Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing message: %q", data)
	}
}
