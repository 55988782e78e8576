package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultLogFile is where decisions are logged when the config does not say.
const DefaultLogFile = "~/.claude/defense.log"

// configEnvVar overrides the config search path when set.
const configEnvVar = "UNIFIED_DEFENSE_CONFIG"

// Settings are the global knobs from the settings: block of patterns.yaml.
type Settings struct {
	Mode    string `yaml:"mode"`
	Logging bool   `yaml:"logging"`
	LogFile string `yaml:"log_file"`
}

// RuleEntry is one list item under protected_paths, dangerous_commands or
// safe_zones. Level and Reason are optional depending on the category.
type RuleEntry struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level,omitempty"`
	Reason  string `yaml:"reason,omitempty"`
}

// Config is the raw patterns.yaml schema. Entry order is preserved by the
// YAML decoder, which the first-match-wins rule scanning depends on.
type Config struct {
	Settings          Settings    `yaml:"settings"`
	ProtectedPaths    []RuleEntry `yaml:"protected_paths"`
	DangerousCommands []RuleEntry `yaml:"dangerous_commands"`
	SafeZones         []RuleEntry `yaml:"safe_zones"`
}

// DefaultConfig returns the config used when no file is present: blocklist
// mode, logging off, no rules.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			Mode:    "blocklist",
			Logging: false,
			LogFile: DefaultLogFile,
		},
	}
}

// DefaultPath returns the conventional config location under the user's
// home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "hooks", "unified-defense", "config", "patterns.yaml")
}

// ResolvePath picks the config file to load: the explicit path if given,
// then $UNIFIED_DEFENSE_CONFIG, then the default location.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(configEnvVar); p != "" {
		return p
	}
	return DefaultPath()
}

// LoadConfig reads and parses a patterns.yaml file. A missing file is
// reported via os.IsNotExist on the returned error so the boundary can
// fail open. Defaults fill any settings the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the config path, parses the file and compiles it into a
// Policy in one step.
func Load(explicit string) (*Policy, error) {
	cfg, err := LoadConfig(ResolvePath(explicit))
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Save writes the config back to path, creating parent directories.
// Used by the dashboard's mode and logging toggles.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DefaultConfigYAML returns the commented starter config written by
// `defense init`.
func DefaultConfigYAML() string {
	return `# unified-defense policy configuration
# Generated by: defense init
#
# Decision order (cannot be changed):
#   1. Dangerous command patterns -> block (cannot be bypassed by safe zones)
#   2. Safe zones -> allow (absolute override, any mode)
#   3. Whitelist mode -> block anything outside a safe zone
#   4. Protected paths (blocklist mode, first match wins):
#        level block     -> block
#        level read_only -> block writes only

settings:
  # blocklist: allow by default, restrict protected paths
  # whitelist: deny by default, permit only safe zones
  mode: blocklist
  # Append one audit line per decision to log_file.
  logging: false
  log_file: ~/.claude/defense.log

# Paths the agent must not touch. Glob syntax: ** crosses directories,
# * stays within one segment, ? is a single character. ~ and $VARS expand.
protected_paths:
  - pattern: "/etc/**"
    level: block
    reason: "System configuration"
  - pattern: "~/.ssh/**"
    level: block
    reason: "SSH keys and configuration"
  - pattern: "~/.aws/**"
    level: block
    reason: "AWS credentials"
  - pattern: "**/.env"
    level: block
    reason: "Environment secrets"
  - pattern: "~/.gitconfig"
    level: read_only
    reason: "Git identity"

# Case-insensitive substrings that block a command outright.
dangerous_commands:
  - pattern: "rm -rf /"
    reason: "Recursive delete from root"
  - pattern: "mkfs"
    reason: "Filesystem format"
  - pattern: "dd if="
    reason: "Raw disk write"
  - pattern: ":(){ :|:& };:"
    reason: "Fork bomb"

# Paths that are always allowed, overriding every protected path and
# whitelist mode. Keep this to active project directories.
safe_zones:
  - pattern: "~/projects/**"
  - pattern: "/tmp/**"
`
}
