package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFromClosedErrors(t *testing.T) {
	m := newManager(filepath.Join(t.TempDir(), "audit.log"))
	if err := m.write(GetKeyItem{Key: "/root/k"}); err == nil {
		t.Fatalf("expected error writing while closed")
	}
}

func TestWriteFromOpenAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	m := newManager(path)
	if err := m.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.write(SetKeyItem{Key: "/root/k", Value: "v"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "SetKey [ '/root/k', 'v' ]") {
		t.Errorf("log file = %q, missing expected line", data)
	}
}

func TestSuspendBuffersResumeFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	m := newManager(path)
	if err := m.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.write(GetKeyItem{Key: "/root/a"}); err != nil {
		t.Fatalf("write A: %v", err)
	}
	if err := m.suspend(); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if err := m.write(GetKeyItem{Key: "/root/b"}); err != nil {
		t.Fatalf("write B (buffered): %v", err)
	}
	if len(m.buffer) != 1 {
		t.Fatalf("buffer len = %d, want 1", len(m.buffer))
	}
	if err := m.resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if len(m.buffer) != 0 {
		t.Fatalf("buffer not cleared after resume")
	}
	_ = m.stop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "/root/a") || !strings.Contains(lines[1], "/root/b") {
		t.Errorf("lines out of order: %v", lines)
	}
}

func TestResumeWithoutSuspendErrors(t *testing.T) {
	m := newManager(filepath.Join(t.TempDir(), "audit.log"))
	if err := m.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.resume(); err == nil {
		t.Fatalf("expected error resuming from Open state")
	}
}
