package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
	_ = Close()
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer reset()

	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("topic %s", "RDBMS") }, "[DEBUG] topic RDBMS\n"},
		{"info", func() { Info("loaded %d topics", 5) }, "[INFO] loaded 5 topics\n"},
		{"warn", func() { Warn("retrying") }, "[WARN] retrying\n"},
		{"error", func() { Error("ask failed: %v", "boom") }, "[ERROR] ask failed: boom\n"},
		{"section", func() { Section("Select Topic") }, "\n=== Select Topic ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(true)

			tt.log()

			if got := buf.String(); got != tt.want {
				t.Errorf("unexpected output: %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Error("also hidden")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestSetFile_WritesJSONLines(t *testing.T) {
	defer reset()

	SetOutput(io.Discard)
	path := filepath.Join(t.TempDir(), "topicchat.log")
	if err := SetFile(FileConfig{Path: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("SetFile: %v", err)
	}

	Info("loaded %d topics", 3)
	Error("ask failed")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["message"] != "loaded 3 topics" || entries[0]["level"] != "INFO" {
		t.Errorf("unexpected first entry: %v", entries[0])
	}
	if entries[1]["level"] != "ERROR" {
		t.Errorf("unexpected second entry: %v", entries[1])
	}
	if _, ok := entries[0]["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestSetFile_WritesWithoutVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	path := filepath.Join(t.TempDir(), "quiet.log")
	if err := SetFile(FileConfig{Path: path}); err != nil {
		t.Fatalf("SetFile: %v", err)
	}

	Debug("only in file")
	_ = Close()

	if buf.Len() > 0 {
		t.Error("expected nothing on verbose output")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte("only in file")) {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestSetFile_EmptyPathDetaches(t *testing.T) {
	defer reset()

	path := filepath.Join(t.TempDir(), "a.log")
	if err := SetFile(FileConfig{Path: path}); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	if err := SetFile(FileConfig{}); err != nil {
		t.Fatalf("SetFile detach: %v", err)
	}

	Info("not written")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no log file to be created, got err=%v", err)
	}
}

func TestClose_WithoutFile(t *testing.T) {
	if err := Close(); err != nil {
		t.Errorf("Close without file: %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	SetOutput(io.Discard)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
