package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/promofinder/internal/logtail"
)

// refreshLogs reads the tail of the log file off the update loop.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logsLoadedMsg{}
		}
		entries, err := logtail.ReadEntries(path, LogTailLimit)
		return logsLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = maxInt(1, m.width-4)
	m.logViewport.Height = maxInt(1, m.height-chromeRows-1)
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.GotoBottom()
}

func (m *Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render(m.logErr.Error())
	}
	if len(m.logEntries) == 0 {
		if m.logPath == "" {
			return styles.MutedText.Render("Logging is not configured.")
		}
		return styles.MutedText.Render("No log entries yet.")
	}
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, levelStyle(e.Level, styles).Render(e.String()))
	}
	return strings.Join(lines, "\n")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewCatalog
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title += " " + truncate(m.logPath, maxInt(10, m.width-12))
	}
	return m.renderBox(title, m.logViewport.View(), m.width, maxInt(3, m.height-chromeRows+1), true)
}
