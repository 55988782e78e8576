// Package policy holds the loaded rule set and its YAML configuration.
package policy

import (
	"fmt"

	"github.com/richardoros/unified-defense/internal/model"
	"github.com/richardoros/unified-defense/internal/pattern"
)

// PathRule is a protected path or safe zone entry with its compiled matcher.
// Matchers are compiled once at policy construction and never mutated.
type PathRule struct {
	Pattern string
	Level   model.Level
	Reason  string
	matcher pattern.Matcher
}

// Matches reports whether the rule's pattern matches the given path.
func (r PathRule) Matches(path string) bool {
	return r.matcher.Matches(path)
}

// CommandRule flags commands containing a case-insensitive substring.
type CommandRule struct {
	Pattern string
	Reason  string
}

// Policy is the immutable rule set consulted by the decision engine.
// It is constructed once per invocation and passed by reference into every
// evaluation call; rule order is declaration order because first-match-wins
// semantics apply within each category.
type Policy struct {
	mode              model.Mode
	loggingEnabled    bool
	logPath           string
	protectedPaths    []PathRule
	dangerousCommands []CommandRule
	safeZones         []PathRule
}

// New builds a Policy from a parsed Config, compiling every path pattern.
func New(cfg *Config) *Policy {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p := &Policy{
		mode:           model.ParseMode(cfg.Settings.Mode),
		loggingEnabled: cfg.Settings.Logging,
		logPath:        cfg.Settings.LogFile,
	}

	for _, e := range cfg.ProtectedPaths {
		reason := e.Reason
		if reason == "" {
			reason = fmt.Sprintf("Path matches protected pattern: %s", e.Pattern)
		}
		p.protectedPaths = append(p.protectedPaths, PathRule{
			Pattern: e.Pattern,
			Level:   model.ParseLevel(e.Level),
			Reason:  reason,
			matcher: pattern.Compile(e.Pattern),
		})
	}

	for _, e := range cfg.DangerousCommands {
		reason := e.Reason
		if reason == "" {
			reason = "Matches dangerous command pattern"
		}
		p.dangerousCommands = append(p.dangerousCommands, CommandRule{
			Pattern: e.Pattern,
			Reason:  reason,
		})
	}

	for _, e := range cfg.SafeZones {
		p.safeZones = append(p.safeZones, PathRule{
			Pattern: e.Pattern,
			Reason:  e.Reason,
			matcher: pattern.Compile(e.Pattern),
		})
	}

	return p
}

// Empty returns a policy with zero rules in every category. It allows
// everything, which is the fallback when no configuration is present.
func Empty() *Policy {
	return &Policy{mode: model.ModeBlocklist}
}

// Mode returns the enforcement posture.
func (p *Policy) Mode() model.Mode { return p.mode }

// LoggingEnabled reports whether audit logging is turned on.
func (p *Policy) LoggingEnabled() bool { return p.loggingEnabled }

// LogPath returns the configured audit log location (may contain ~).
func (p *Policy) LogPath() string { return p.logPath }

// ProtectedPaths returns the protected path rules in declaration order.
func (p *Policy) ProtectedPaths() []PathRule { return p.protectedPaths }

// DangerousCommands returns the command rules in declaration order.
func (p *Policy) DangerousCommands() []CommandRule { return p.dangerousCommands }

// SafeZones returns the safe zone rules in declaration order.
func (p *Policy) SafeZones() []PathRule { return p.safeZones }
