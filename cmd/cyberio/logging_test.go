package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLoggingDiscardsWithoutDebug(t *testing.T) {
	t.Chdir(t.TempDir())

	if f := setupLogging(false); f != nil {
		f.Close()
		t.Fatal("Expected nil log file without debug")
	}
	if log.Writer() != io.Discard {
		t.Errorf("Expected io.Discard, got %v", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory without debug")
	}
}

func TestSetupLoggingWritesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { log.SetOutput(io.Discard) })

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected log file with debug")
	}
	defer f.Close()

	if w := log.Writer(); w == os.Stdout || w == os.Stderr {
		t.Error("Log output must not share the terminal")
	}

	log.Println("placed stream-host at (1,2)")
	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "placed stream-host") {
		t.Errorf("Expected message in log file, got %q", data)
	}
}

func TestSetupLoggingRotatesLargeFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { log.SetOutput(io.Discard) })

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("Failed to write log file: %v", err)
	}

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected log file")
	}
	defer f.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected current and rotated log, got %d entries", len(entries))
	}
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected fresh log file, got %d bytes", info.Size())
	}
}
