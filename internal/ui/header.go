package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/promofinder/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("promofinder", styles.Logo)}

	status := m.snapshot.LoadingStatus
	if m.loading {
		status = state.StatusLoading
	}
	parts = append(parts, styles.BadgeStyle(string(status)).Render(statusLabel(status)))

	if m.snapshot.LoadingStatus == state.StatusSucceeded {
		parts = append(parts,
			bg.Render("Showing:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", len(m.visible), len(m.snapshot.AllPromotions)), styles.Text))
		if !m.snapshot.LoadedAt.IsZero() {
			parts = append(parts, bg.Render("loaded "+m.snapshot.LoadedAt.Local().Format("15:04:05"), styles.FaintText))
		}
	}

	if f := m.snapshot.Filters; f.HasUserLocation {
		parts = append(parts,
			bg.Render("@", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%.4f, %.4f", f.UserLatitude, f.UserLongitude), styles.InfoText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

func statusLabel(s state.LoadingStatus) string {
	switch s {
	case state.StatusLoading:
		return "LOADING"
	case state.StatusSucceeded:
		return "READY"
	case state.StatusFailed:
		return "FAILED"
	default:
		return "IDLE"
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Refresh"},
			{"l", "Catalog"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"c/C", "Category"},
			{"s/S", "Store"},
			{"d", "Distance"},
			{"/", "Search"},
		}
		if m.snapshot.Filters.Active() {
			commands = append(commands, cmd{"x", "Clear"})
		}
		if m.snapshot.LoadingStatus == state.StatusFailed {
			commands = append(commands, cmd{"r", "Retry"})
		}
		commands = append(commands, cmd{"l", "Logs"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderFilterBar shows the active criteria.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	f := m.snapshot.Filters

	value := func(v string, set bool) string {
		if set {
			return bg.Render(v, styles.WarningText)
		}
		return bg.Render(v, styles.Text)
	}

	category := optionName(categoryOptions(m.snapshot.Categories), f.CategoryID)
	store := optionName(storeOptions(m.snapshot.Stores), f.StoreID)
	distance := "any"
	if v, ok := f.MaxDistance(); ok {
		distance = "≤ " + formatKm(v)
	}

	parts := []string{
		bg.Render("Category", styles.MutedText) + bg.Space() + value(category, f.CategoryID != ""),
		bg.Render("Store", styles.MutedText) + bg.Space() + value(store, f.StoreID != ""),
		bg.Render("Distance", styles.MutedText) + bg.Space() + value(distance, f.HasMaxDistance),
	}

	switch {
	case m.search.active:
		parts = append(parts, m.search.input.View())
	case m.search.query != "":
		parts = append(parts, bg.Render("/"+truncate(m.search.query, 24), styles.AccentText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  │  "))
}

// renderStatusLine shows the notification toast or a transient message.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	line := lipgloss.NewStyle().Width(m.width).Padding(0, 1)

	if text := toastText(m.snapshot); text != "" {
		badge := styles.BadgeStyle(badgeSpecial).Bold(true).Render("★")
		msg := truncate(text, maxInt(10, m.width-12))
		return line.Render(badge + " " + styles.Text.Bold(true).Render(msg) + " " +
			styles.FaintText.Render("(enter)"))
	}
	if m.flash != "" {
		return line.Render(styles.WarningText.Render(m.flash))
	}
	return line.Render("")
}
