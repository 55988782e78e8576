package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/richardoros/unified-defense/internal/policy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadedModel(t *testing.T, configPath string) model {
	t.Helper()
	m := newModel(configPath, nil)
	msg := m.loadStatus()()
	updated, _ := m.Update(msg)
	return updated.(model)
}

func TestViewShowsModeAndLogging(t *testing.T) {
	m := loadedModel(t, writeConfig(t, "settings:\n  mode: whitelist\n  logging: true\n"))

	view := m.View()
	if !strings.Contains(view, "WHITELIST") {
		t.Error("view should show whitelist mode")
	}
	if !strings.Contains(view, "enabled") {
		t.Error("view should show logging enabled")
	}
}

func TestViewMissingConfigShowsDefaults(t *testing.T) {
	m := loadedModel(t, filepath.Join(t.TempDir(), "missing.yaml"))

	view := m.View()
	if !strings.Contains(view, "BLOCKLIST") {
		t.Error("missing config should fall back to blocklist defaults")
	}
	if !strings.Contains(view, "Config missing") {
		t.Error("view should flag the missing config")
	}
}

func TestToggleModePersists(t *testing.T) {
	path := writeConfig(t, "settings:\n  mode: blocklist\n")
	m := loadedModel(t, path)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	_ = updated

	cfg, err := policy.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.Mode != "whitelist" {
		t.Errorf("mode after toggle = %q, want whitelist", cfg.Settings.Mode)
	}
}

func TestToggleLoggingPersists(t *testing.T) {
	path := writeConfig(t, "settings:\n  logging: true\n")
	m := loadedModel(t, path)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})

	cfg, err := policy.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.Logging {
		t.Error("logging should be toggled off")
	}
}

func TestToggleWithoutConfigSetsNotice(t *testing.T) {
	m := loadedModel(t, filepath.Join(t.TempDir(), "missing.yaml"))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})

	if !strings.Contains(updated.(model).View(), "defense init") {
		t.Error("toggling without a config should point at `defense init`")
	}
}

func TestQuitKeys(t *testing.T) {
	m := loadedModel(t, writeConfig(t, "settings: {}\n"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("0123456789abc", 10); len([]rune(got)) != 10 {
		t.Errorf("clip length = %d, want 10", len([]rune(got)))
	}
}
