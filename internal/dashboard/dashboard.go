// Package dashboard is the interactive terminal UI for the defense system:
// current mode, logging state, decision statistics and recent audit
// activity, with keys to toggle settings. The config file and audit log are
// watched so external changes show up without manual refreshes.
package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/richardoros/unified-defense/internal/audit"
	"github.com/richardoros/unified-defense/internal/pattern"
	"github.com/richardoros/unified-defense/internal/policy"
)

const recentLines = 12

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleSection = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleAllow   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleBlock   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleMuted   = lipgloss.NewStyle().Faint(true)
	styleBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

// tickMsg drives the periodic refresh fallback.
type tickMsg time.Time

// fsEventMsg reports a config or log change picked up by the watcher.
type fsEventMsg struct{}

// statusMsg carries freshly loaded status data.
type statusMsg struct {
	data statusData
}

// statusData is everything the view renders, loaded in one shot.
type statusData struct {
	cfg     *policy.Config
	cfgMiss bool
	stats   audit.Stats
	recent  []string
}

type model struct {
	configPath string
	data       statusData
	events     <-chan struct{}
	notice     string
	width      int
	height     int
}

func newModel(configPath string, events <-chan struct{}) model {
	return model{configPath: configPath, events: events, width: 80}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadStatus(), m.waitForEvent(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// loadStatus reads the config and audit log off the update loop.
func (m model) loadStatus() tea.Cmd {
	configPath := m.configPath
	return func() tea.Msg {
		data := statusData{}
		cfg, err := policy.LoadConfig(configPath)
		if err != nil {
			data.cfg = policy.DefaultConfig()
			data.cfgMiss = true
		} else {
			data.cfg = cfg
		}

		logPath := data.cfg.Settings.LogFile
		if logPath == "" {
			logPath = policy.DefaultLogFile
		}
		if stats, err := audit.ReadStats(logPath); err == nil {
			data.stats = stats
		}
		if recent, err := audit.Tail(logPath, recentLines); err == nil {
			data.recent = recent
		}
		return statusMsg{data: data}
	}
}

// waitForEvent blocks on the next watcher notification.
func (m model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		if _, ok := <-events; !ok {
			return nil
		}
		return fsEventMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.data = msg.data
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.loadStatus(), tick())

	case fsEventMsg:
		return m, tea.Batch(m.loadStatus(), m.waitForEvent())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.notice = ""
			return m, m.loadStatus()
		case "m":
			return m.toggleMode()
		case "l":
			return m.toggleLogging()
		}
	}
	return m, nil
}

// toggleMode flips blocklist/whitelist in the config file.
func (m model) toggleMode() (tea.Model, tea.Cmd) {
	return m.updateConfig(func(cfg *policy.Config) {
		if cfg.Settings.Mode == "whitelist" {
			cfg.Settings.Mode = "blocklist"
		} else {
			cfg.Settings.Mode = "whitelist"
		}
	})
}

// toggleLogging flips the audit logging setting in the config file.
func (m model) toggleLogging() (tea.Model, tea.Cmd) {
	return m.updateConfig(func(cfg *policy.Config) {
		cfg.Settings.Logging = !cfg.Settings.Logging
	})
}

func (m model) updateConfig(mutate func(*policy.Config)) (tea.Model, tea.Cmd) {
	path := policy.ResolvePath(m.configPath)
	cfg, err := policy.LoadConfig(path)
	if err != nil {
		m.notice = "no config file to update; run `defense init` first"
		return m, nil
	}
	mutate(cfg)
	if err := cfg.Save(path); err != nil {
		m.notice = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.notice = ""
	return m, m.loadStatus()
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(styleTitle.Render("UNIFIED DEFENSE") + "\n\n")

	sb.WriteString(styleSection.Render("STATUS") + "\n")
	sb.WriteString(m.renderStatus() + "\n\n")

	sb.WriteString(styleSection.Render("STATISTICS") + "\n")
	sb.WriteString(m.renderStats() + "\n\n")

	sb.WriteString(styleSection.Render("RECENT ACTIVITY") + "\n")
	sb.WriteString(m.renderRecent() + "\n\n")

	if m.notice != "" {
		sb.WriteString(styleWarn.Render(m.notice) + "\n")
	}
	sb.WriteString(styleMuted.Render("m toggle mode · l toggle logging · r refresh · q quit"))

	return styleBox.Render(sb.String()) + "\n"
}

func (m model) renderStatus() string {
	cfg := m.data.cfg
	if cfg == nil {
		cfg = policy.DefaultConfig()
	}

	var modeLabel string
	if cfg.Settings.Mode == "whitelist" {
		modeLabel = styleWarn.Render("WHITELIST (deny by default)")
	} else {
		modeLabel = styleAllow.Render("BLOCKLIST (allow by default)")
	}

	var logLabel string
	if cfg.Settings.Logging {
		logLabel = styleAllow.Render("enabled")
	} else {
		logLabel = styleBlock.Render("disabled")
	}

	lines := []string{
		fmt.Sprintf("  Mode:    %s", modeLabel),
		fmt.Sprintf("  Logging: %s", logLabel),
		fmt.Sprintf("  Log:     %s", styleMuted.Render(pattern.Expand(cfg.Settings.LogFile))),
	}
	if m.data.cfgMiss {
		lines = append(lines, styleWarn.Render("  Config missing: defaults shown, all operations allowed"))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderStats() string {
	s := m.data.stats
	return strings.Join([]string{
		fmt.Sprintf("  Total:   %d decisions", s.Total),
		fmt.Sprintf("  Blocked: %s", styleBlock.Render(fmt.Sprintf("%d", s.Blocked))),
		fmt.Sprintf("  Allowed: %s", styleAllow.Render(fmt.Sprintf("%d", s.Allowed))),
	}, "\n")
}

func (m model) renderRecent() string {
	if len(m.data.recent) == 0 {
		return styleMuted.Render("  No activity yet.")
	}

	width := m.width - 8
	if width < 20 {
		width = 20
	}

	var lines []string
	for _, entry := range m.data.recent {
		style := styleAllow
		if strings.Contains(entry, " BLOCK:") {
			style = styleBlock
		}
		lines = append(lines, "  "+style.Render(clip(entry, width)))
	}
	return strings.Join(lines, "\n")
}

// clip shortens a line to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run launches the dashboard. It watches the config file and audit log for
// changes and refreshes every 2 seconds regardless.
func Run(configPath string) error {
	resolved := policy.ResolvePath(configPath)

	events := make(chan struct{}, 1)
	watcher, err := newWatcher(resolved, events)
	if err == nil {
		defer watcher.Close()
	}

	p := tea.NewProgram(newModel(configPath, events), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newWatcher watches the directories holding the config file and the audit
// log, coalescing events into the given channel. Watching directories
// instead of files survives the write-then-rename pattern editors use.
func newWatcher(configPath string, events chan<- struct{}) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := map[string]bool{}
	if d := filepath.Dir(configPath); d != "" {
		dirs[d] = true
	}
	if cfg, err := policy.LoadConfig(configPath); err == nil && cfg.Settings.LogFile != "" {
		if d := filepath.Dir(pattern.Expand(cfg.Settings.LogFile)); d != "" {
			dirs[d] = true
		}
	}
	for d := range dirs {
		if _, err := os.Stat(d); err == nil {
			_ = w.Add(d)
		}
	}

	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					close(events)
					return
				}
				select {
				case events <- struct{}{}:
				default: // coalesce bursts
				}
			case _, ok := <-w.Errors:
				if !ok {
					close(events)
					return
				}
			}
		}
	}()

	return w, nil
}
