package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestSetupConsoleFormat(t *testing.T) {
	var console bytes.Buffer
	logger, closeFn, err := Setup("", &console, false)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer closeFn()

	logger.Info("Found 12 RAW files.")
	logger.Debug("hidden without verbose")

	line := console.String()
	matched, err := regexp.MatchString(`^\d{2}:\d{2}:\d{2} \[INFO\] Found 12 RAW files\.\n$`, line)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatalf("unexpected console line: %q", line)
	}
}

func TestSetupVerboseEnablesConsoleDebug(t *testing.T) {
	var console bytes.Buffer
	logger, closeFn, err := Setup("", &console, true)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer closeFn()

	logger.Debug("pool started")
	if !strings.Contains(console.String(), "[DEBUG] pool started") {
		t.Fatalf("debug line missing: %q", console.String())
	}
}

func TestSetupFileSinkCapturesDebugWithRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	var console bytes.Buffer

	logger, closeFn, err := Setup(path, &console, false)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	logger.Debug("job finished")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "job finished") {
		t.Fatalf("debug record missing from file sink: %q", content)
	}
	if !strings.Contains(content, "run_id=") {
		t.Fatalf("run_id missing from file sink: %q", content)
	}
	if strings.Contains(console.String(), "job finished") {
		t.Fatal("debug record leaked to console without verbose")
	}
}

func TestMeasureLogsElapsed(t *testing.T) {
	var console bytes.Buffer
	logger, closeFn, err := Setup("", &console, true)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer closeFn()

	stop := Measure(logger, "flat video assembly")
	stop()

	if !strings.Contains(console.String(), "flat video assembly finished") {
		t.Fatalf("measure line missing: %q", console.String())
	}
}
