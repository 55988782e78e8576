// Package engine renders allow/block verdicts for commands and file edits.
//
// Both entry points are pure functions of (request, policy): no hidden
// state, no I/O, at most one short-circuit exit per evaluation. Precedence
// is fixed and shared by both operation kinds:
//
//  1. Dangerous command patterns: block, cannot be bypassed by safe zones
//  2. Safe zones: allow, absolute override in any mode
//  3. Whitelist mode: block anything outside a safe zone
//  4. Protected paths (blocklist mode): first match wins,
//     read_only only blocks writes
package engine

import (
	"fmt"
	"strings"

	"github.com/richardoros/unified-defense/internal/model"
	"github.com/richardoros/unified-defense/internal/policy"
)

// EvaluateCommand decides whether a shell command may run under the policy.
func EvaluateCommand(command string, pol *policy.Policy) model.Verdict {
	if command == "" {
		return model.AllowVerdict("Empty command")
	}

	if rule, hit := matchDangerous(command, pol.DangerousCommands()); hit {
		return model.BlockVerdict(fmt.Sprintf("Dangerous command: %s", rule.Reason))
	}

	paths := ExtractPaths(command)

	// Bare commands touch no files; nothing to hold against them even in
	// whitelist mode.
	if pol.Mode() == model.ModeWhitelist && len(paths) == 0 {
		return model.AllowVerdict("Command has no file paths (whitelist mode)")
	}

	for _, p := range paths {
		// Write intent cannot be inferred from free-text commands, so
		// read_only rules do not block here; the edit path carries the
		// write flag.
		if v := checkPath(p, pol, false); !v.Allowed() {
			return v
		}
	}

	return model.AllowVerdict("Command passed security checks")
}

// EvaluateEdit decides whether a file edit may land under the policy.
// Edits are always treated as writes.
func EvaluateEdit(targetPath string, pol *policy.Policy) model.Verdict {
	if targetPath == "" {
		return model.AllowVerdict("No file path specified")
	}

	if v := checkPath(targetPath, pol, true); !v.Allowed() {
		return v
	}

	return model.AllowVerdict("File edit passed security checks")
}

// EvaluateAccess decides whether touching a single path is permitted, with
// explicit write intent. Used by dry-run checks where the caller states the
// intent instead of it being implied by the operation kind.
func EvaluateAccess(targetPath string, write bool, pol *policy.Policy) model.Verdict {
	if targetPath == "" {
		return model.AllowVerdict("No file path specified")
	}

	if v := checkPath(targetPath, pol, write); !v.Allowed() {
		return v
	}

	return model.AllowVerdict("Path access passed security checks")
}

// matchDangerous scans command rules in declaration order for a
// case-insensitive substring hit.
func matchDangerous(command string, rules []policy.CommandRule) (policy.CommandRule, bool) {
	lower := strings.ToLower(command)
	for _, r := range rules {
		if r.Pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(r.Pattern)) {
			return r, true
		}
	}
	return policy.CommandRule{}, false
}

// checkPath applies the shared path-protection rule to one normalized path.
func checkPath(path string, pol *policy.Policy, isWrite bool) model.Verdict {
	normalized := NormalizePath(path)

	for _, zone := range pol.SafeZones() {
		if zone.Matches(normalized) {
			return model.AllowVerdict("Path is in a safe zone")
		}
	}

	if pol.Mode() == model.ModeWhitelist {
		return model.BlockVerdict("BLOCKED: Path not in safe zones (whitelist mode)")
	}

	for _, rule := range pol.ProtectedPaths() {
		if !rule.Matches(normalized) {
			continue
		}
		if rule.Level == model.LevelReadOnly {
			if isWrite {
				return model.BlockVerdict(fmt.Sprintf("READ-ONLY: %s", rule.Reason))
			}
			return model.AllowVerdict("Read-only rule does not block non-write operations")
		}
		return model.BlockVerdict(fmt.Sprintf("BLOCKED: %s", rule.Reason))
	}

	return model.AllowVerdict("No protection rule matched")
}
