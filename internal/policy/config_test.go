package policy

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleYAML = `settings:
  mode: whitelist
  logging: true
  log_file: /var/log/defense.log

protected_paths:
  - pattern: "/etc/**"
    level: block
    reason: "System configuration"
  - pattern: "~/.gitconfig"
    level: read_only

dangerous_commands:
  - pattern: "rm -rf /"
    reason: "Recursive delete from root"

safe_zones:
  - pattern: "/home/user/project/**"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFull(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Settings.Mode != "whitelist" {
		t.Errorf("mode = %q, want whitelist", cfg.Settings.Mode)
	}
	if !cfg.Settings.Logging {
		t.Error("expected logging enabled")
	}
	if cfg.Settings.LogFile != "/var/log/defense.log" {
		t.Errorf("log_file = %q", cfg.Settings.LogFile)
	}
	if len(cfg.ProtectedPaths) != 2 {
		t.Fatalf("protected_paths = %d entries, want 2", len(cfg.ProtectedPaths))
	}
	if cfg.ProtectedPaths[0].Pattern != "/etc/**" || cfg.ProtectedPaths[0].Level != "block" {
		t.Errorf("unexpected first protected path: %+v", cfg.ProtectedPaths[0])
	}
	if len(cfg.DangerousCommands) != 1 || len(cfg.SafeZones) != 1 {
		t.Errorf("got %d dangerous commands, %d safe zones",
			len(cfg.DangerousCommands), len(cfg.SafeZones))
	}
}

func TestLoadConfigPreservesDeclarationOrder(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `protected_paths:
  - pattern: "/a/**"
  - pattern: "/b/**"
  - pattern: "/c/**"
`))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"/a/**", "/b/**", "/c/**"}
	for i, w := range want {
		if cfg.ProtectedPaths[i].Pattern != w {
			t.Errorf("entry %d = %q, want %q", i, cfg.ProtectedPaths[i].Pattern, w)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "settings: [broken"))
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadConfigDefaultsFillSettings(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "protected_paths:\n  - pattern: \"/etc/**\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.Mode != "blocklist" {
		t.Errorf("mode default = %q, want blocklist", cfg.Settings.Mode)
	}
	if cfg.Settings.LogFile != DefaultLogFile {
		t.Errorf("log_file default = %q", cfg.Settings.LogFile)
	}
}

func TestResolvePathPrecedence(t *testing.T) {
	t.Setenv(configEnvVar, "/from/env.yaml")

	if got := ResolvePath("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("explicit path should win, got %q", got)
	}
	if got := ResolvePath(""); got != "/from/env.yaml" {
		t.Errorf("env var should win over default, got %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "patterns.yaml")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Settings.Mode = "blocklist"
	cfg.Settings.Logging = false

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Settings.Mode != "blocklist" || back.Settings.Logging {
		t.Errorf("toggles not persisted: %+v", back.Settings)
	}
	if len(back.ProtectedPaths) != 2 {
		t.Errorf("rules lost on save: %d protected paths", len(back.ProtectedPaths))
	}
}

func TestDefaultConfigYAMLParses(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(DefaultConfigYAML()), &cfg); err != nil {
		t.Fatalf("starter config must parse: %v", err)
	}
	if cfg.Settings.Mode != "blocklist" {
		t.Errorf("starter mode = %q", cfg.Settings.Mode)
	}
	if len(cfg.ProtectedPaths) == 0 || len(cfg.DangerousCommands) == 0 || len(cfg.SafeZones) == 0 {
		t.Error("starter config should populate every category")
	}
}
