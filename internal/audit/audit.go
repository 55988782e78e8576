// Package audit appends and reads the plain-text decision log.
//
// One line per decision:
//
//	[timestamp] {KIND} {DECISION}: {subject} | {reason}
//
// The format is stable: the dashboard's statistics and activity feed parse
// these lines back.
package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/richardoros/unified-defense/internal/model"
	"github.com/richardoros/unified-defense/internal/pattern"
)

// maxSubjectLen truncates long commands for log readability.
const maxSubjectLen = 100

// Kind labels the operation category in a log line.
type Kind string

const (
	KindBash Kind = "BASH"
	KindEdit Kind = "EDIT"
)

// Logger appends decision lines to a log file. The zero-value path disables
// logging entirely.
type Logger struct {
	path string
}

// NewLogger builds a Logger writing to path (~ and env refs expand).
// An empty path yields a no-op logger.
func NewLogger(path string) *Logger {
	if path != "" {
		path = pattern.Expand(path)
	}
	return &Logger{path: path}
}

// Record appends one decision line. Failures are swallowed: the audit trail
// must never break the decision path.
func (l *Logger) Record(kind Kind, verdict model.Verdict, subject string) {
	if l.path == "" {
		return
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %s %s: %s | %s\n",
		time.Now().Format(time.RFC3339),
		kind,
		strings.ToUpper(string(verdict.Decision)),
		truncate(subject, maxSubjectLen),
		verdict.Reason,
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Stats are decision counts aggregated from the log.
type Stats struct {
	Total   int
	Blocked int
	Allowed int
}

// Tail returns the last n log lines, oldest first. A missing log file is an
// empty history, not an error.
func Tail(path string, n int) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// ReadStats counts block/allow decisions across the whole log.
func ReadStats(path string) (Stats, error) {
	lines, err := readLines(path)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	for _, line := range lines {
		s.Total++
		switch {
		case strings.Contains(line, " BLOCK:"):
			s.Blocked++
		case strings.Contains(line, " ALLOW:"):
			s.Allowed++
		}
	}
	return s, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(pattern.Expand(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: read log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan log: %w", err)
	}
	return lines, nil
}
