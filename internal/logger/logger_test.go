package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := Init(Config{Dir: logDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Path() != filepath.Join(logDir, "habitgrid.log") {
		t.Errorf("unexpected log path %q", Path())
	}

	Info("habit toggled", "habit", "h1", "day", "2024-05-15")
	Debug("hidden at info level")

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "habit toggled") || !strings.Contains(content, "habit=h1") {
		t.Errorf("log file missing info line: %q", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Error("debug line written at info level")
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, Dir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message in debug mode")

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Test debug message in debug mode") {
		t.Error("debug line missing in debug mode")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("component", "api").Info("discarded")
}
