package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSenderWriteAndSuspendResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	s, wg, err := StartLogger(path)
	if err != nil {
		t.Fatalf("StartLogger: %v", err)
	}
	defer func() {
		s.Close()
		wg.Wait()
	}()

	if err := s.Write(GetKeyItem{Key: "/root/a"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if err := s.Write(GetKeyItem{Key: "/root/b"}); err != nil {
		t.Fatalf("Write while suspended: %v", err)
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	// Flush point: issue a synchronous no-op write so we know the
	// goroutine has processed everything enqueued before it.
	if err := s.Write(); err != nil {
		t.Fatalf("Write (flush): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
}

func TestStartLoggerRejectsBadPath(t *testing.T) {
	_, _, err := StartLogger(filepath.Join(t.TempDir(), "missing-dir", "audit.log"))
	if err == nil {
		t.Fatalf("expected error opening log in nonexistent directory")
	}
}
