package engine

import (
	"path/filepath"
	"regexp"

	"github.com/richardoros/unified-defense/internal/pattern"
)

// Candidate path tokens are bounded by whitespace or the shell
// metacharacters ; | & < > so that `cat /etc/passwd > /tmp/out` yields
// both paths rather than one glued token.
var (
	absPathRe  = regexp.MustCompile(`(?:^|\s)(/[^\s;|&<>]+)`)
	homePathRe = regexp.MustCompile(`(?:^|\s)(~[^\s;|&<>]*)`)
	relPathRe  = regexp.MustCompile(`(?:^|\s)(\./[^\s;|&<>]+)`)
)

// ExtractPaths pulls candidate filesystem paths out of a free-text shell
// command: absolute paths, ~-relative paths and ./-relative paths. Each is
// resolved to expanded absolute form and the result is deduplicated in
// first-seen order, so the short-circuiting caller produces a stable reason.
func ExtractPaths(command string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, m := range absPathRe.FindAllStringSubmatch(command, -1) {
		add(m[1])
	}
	for _, m := range homePathRe.FindAllStringSubmatch(command, -1) {
		add(pattern.Expand(m[1]))
	}
	for _, m := range relPathRe.FindAllStringSubmatch(command, -1) {
		if abs, err := filepath.Abs(m[1]); err == nil {
			add(abs)
		}
	}

	return out
}

// NormalizePath resolves a path to expanded, absolute, cleaned textual form.
// No filesystem access: symlinks are not followed.
func NormalizePath(path string) string {
	expanded := pattern.Expand(path)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return filepath.Clean(expanded)
	}
	return abs
}
