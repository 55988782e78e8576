package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richardoros/unified-defense/internal/model"
)

func TestRecordWritesLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "defense.log")
	l := NewLogger(path)

	l.Record(KindBash, model.BlockVerdict("Dangerous command: fork bomb"), "rm -rf /")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log not written: %v", err)
	}
	line := strings.TrimSpace(string(data))

	if !strings.Contains(line, " BASH BLOCK: ") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasSuffix(line, "| Dangerous command: fork bomb") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasPrefix(line, "[") {
		t.Errorf("line should start with a timestamp, got %q", line)
	}
}

func TestRecordTruncatesLongSubject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defense.log")
	l := NewLogger(path)

	long := strings.Repeat("x", 300)
	l.Record(KindBash, model.AllowVerdict("ok"), long)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), strings.Repeat("x", 100)+"...") {
		t.Error("subject should be truncated at 100 characters")
	}
	if strings.Contains(string(data), strings.Repeat("x", 101)) {
		t.Error("subject longer than the truncation limit leaked into the log")
	}
}

func TestNoopLoggerWithEmptyPath(t *testing.T) {
	l := NewLogger("")
	// Must not panic or create files.
	l.Record(KindEdit, model.AllowVerdict("ok"), "/tmp/x")
}

func TestTailReturnsLastN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defense.log")
	l := NewLogger(path)
	for i := 0; i < 5; i++ {
		l.Record(KindEdit, model.AllowVerdict("ok"), "/tmp/x")
	}
	l.Record(KindEdit, model.BlockVerdict("READ-ONLY: docs"), "/srv/docs/a")

	lines, err := Tail(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("Tail = %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[2], "BLOCK") {
		t.Errorf("last line should be the block, got %q", lines[2])
	}
}

func TestTailMissingFile(t *testing.T) {
	lines, err := Tail(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil {
		t.Fatalf("missing log should not error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("missing log should yield empty history, got %v", lines)
	}
}

func TestReadStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defense.log")
	l := NewLogger(path)
	l.Record(KindBash, model.AllowVerdict("ok"), "ls")
	l.Record(KindBash, model.BlockVerdict("no"), "rm -rf /")
	l.Record(KindEdit, model.AllowVerdict("ok"), "/tmp/x")

	s, err := ReadStats(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 3 || s.Blocked != 1 || s.Allowed != 2 {
		t.Errorf("stats = %+v", s)
	}
}
