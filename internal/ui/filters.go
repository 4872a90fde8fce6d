package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/config"
	"github.com/five82/promofinder/internal/state"
)

// option is one entry of a cycling filter. The empty ID is "all".
type option struct {
	id   string
	name string
}

// categoryOptions lists "all" followed by each category once, in catalog
// order. Reference lists may repeat IDs; the first occurrence wins.
func categoryOptions(categories []catalog.Category) []option {
	out := []option{{name: "All"}}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, option{id: c.ID, name: c.Name})
	}
	return out
}

// storeOptions is categoryOptions for stores.
func storeOptions(stores []catalog.Store) []option {
	out := []option{{name: "All"}}
	seen := make(map[string]bool, len(stores))
	for _, s := range stores {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, option{id: s.ID, name: s.Name})
	}
	return out
}

// cycleOption returns the ID delta steps away from current, wrapping. An ID
// not in opts is treated as "all".
func cycleOption(opts []option, current string, delta int) string {
	if len(opts) == 0 {
		return ""
	}
	idx := 0
	for i, o := range opts {
		if o.id == current {
			idx = i
			break
		}
	}
	n := len(opts)
	next := ((idx+delta)%n + n) % n
	return opts[next].id
}

// optionName returns the display name for id, falling back to the raw ID.
func optionName(opts []option, id string) string {
	for _, o := range opts {
		if o.id == id {
			return o.name
		}
	}
	return id
}

func (m *Model) cycleCategory(delta int) {
	opts := categoryOptions(m.snapshot.Categories)
	m.store.SetCategoryFilter(cycleOption(opts, m.snapshot.Filters.CategoryID, delta))
	m.refresh()
}

func (m *Model) cycleStore(delta int) {
	opts := storeOptions(m.snapshot.Stores)
	m.store.SetStoreFilter(cycleOption(opts, m.snapshot.Filters.StoreID, delta))
	m.refresh()
}

func (m *Model) clearFilters() {
	if !m.snapshot.Filters.Active() {
		m.flash = "No filters to clear"
		return
	}
	m.store.ClearFilters()
	m.refresh()
}

// parseDistanceInput converts the distance box contents to a limit in km.
// Anything that is not a finite number greater than zero means "no limit".
func parseDistanceInput(s string) *float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "km"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	return &v
}

// formatKm renders a distance for display.
func formatKm(v float64) string {
	if v < 10 {
		return fmt.Sprintf("%.1f km", v)
	}
	return fmt.Sprintf("%.0f km", v)
}

// distanceModal edits the proximity limit. Submitting keeps the viewer where
// it is, or places it at the configured location when none is set.
type distanceModal struct {
	store    *state.Store
	lat, lon float64
	input    textinput.Model
}

func newDistanceModal(store *state.Store, f state.Filters, fallback config.Location) distanceModal {
	ti := textinput.New()
	ti.Placeholder = "e.g. 25 (empty for no limit)"
	ti.CharLimit = 12
	ti.Width = 30
	if v, ok := f.MaxDistance(); ok {
		ti.SetValue(strconv.FormatFloat(v, 'f', -1, 64))
	}
	ti.Focus()

	lat, lon := fallback.Latitude, fallback.Longitude
	if f.HasUserLocation {
		lat, lon = f.UserLatitude, f.UserLongitude
	}
	return distanceModal{store: store, lat: lat, lon: lon, input: ti}
}

func (d distanceModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Confirm):
			if d.store != nil {
				d.store.SetProximityFilter(d.lat, d.lon, parseDistanceInput(d.input.Value()))
			}
			return d, nil, true
		case key.Matches(k, keys.Escape):
			return d, nil, true
		}
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd, false
}

func (d distanceModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Maximum distance (km)"))
	b.WriteString("\n\n")
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("from %.4f, %.4f", d.lat, d.lon)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter apply · esc cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(40).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
