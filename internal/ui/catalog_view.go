package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/state"
)

const dateLayout = "02/01/2006"

// listHeight is the number of promotion rows that fit in the list box.
func (m Model) listHeight() int {
	h := m.height - chromeRows - 2
	if m.width < LayoutCompactWidth {
		h = h / 2
	}
	return maxInt(1, h)
}

// renderCatalog renders the list and the detail card for the selection.
func (m Model) renderCatalog() string {
	styles := m.theme.Styles()
	contentHeight := maxInt(3, m.height-chromeRows)

	if m.isLoading() {
		body := m.spinner.View() + " " + styles.MutedText.Render("Loading promotions...")
		return m.renderBox("Promotions", body, m.width, contentHeight, true)
	}

	if m.snapshot.LoadingStatus == state.StatusFailed {
		body := styles.DangerText.Render("Error loading promotions") + "\n" +
			styles.Text.Render(m.snapshot.Error) + "\n\n" +
			styles.MutedText.Render("Press r to retry.")
		return m.renderBox("Promotions", body, m.width, contentHeight, true)
	}

	if len(m.visible) == 0 {
		body := styles.Text.Render("No promotions found") + "\n" +
			styles.MutedText.Render("Try adjusting the filters or come back later.")
		return m.renderBox("Promotions", body, m.width, contentHeight, true)
	}

	if m.width < LayoutCompactWidth {
		listH := m.listHeight() + 2
		list := m.renderBox("Promotions", m.renderList(m.width-4, listH-2), m.width, listH, true)
		detail := m.renderBox("Details", m.renderDetail(m.width-4), m.width, maxInt(3, contentHeight-listH), false)
		return lipgloss.JoinVertical(lipgloss.Left, list, detail)
	}

	listW := m.width * LayoutListRatio / 100
	detailW := m.width - listW
	list := m.renderBox("Promotions", m.renderList(listW-4, contentHeight-2), listW, contentHeight, true)
	detail := m.renderBox("Details", m.renderDetail(detailW-4), detailW, contentHeight, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// renderBox draws a bordered panel with a title.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	heading := styles.AccentText.Bold(true).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(maxInt(1, width-2)).
		Height(maxInt(1, height-2)).
		Padding(0, 1).
		Render(heading + "\n" + content)
}

// renderList renders the visible rows around the selection.
func (m Model) renderList(width, rows int) string {
	styles := m.theme.Styles()
	now := m.now()

	rows = maxInt(1, rows-1)
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := start + rows
	if end > len(m.visible) {
		end = len(m.visible)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		p := m.visible[i]
		marker := "  "
		if p.IsSpecial {
			marker = "★ "
		}
		discount := ""
		if p.DiscountPercentage != nil {
			discount = fmt.Sprintf(" -%.0f%%", *p.DiscountPercentage)
		}
		title := truncate(p.Title, maxInt(4, width-len([]rune(marker))-len(discount)))
		row := padRight(marker+title+discount, width)

		style := styles.Text
		switch {
		case i == m.selectedRow:
			style = styles.Selected
		case p.Expired(now):
			style = styles.FaintText
		case p.IsSpecial:
			style = styles.WarningText
		}
		lines = append(lines, style.Render(row))
	}
	return strings.Join(lines, "\n")
}

// renderDetail renders the card for the selected promotion.
func (m Model) renderDetail(width int) string {
	p, ok := m.selectedPromotion()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()
	expired := p.Expired(m.now())

	text := styles.Text
	if expired {
		text = styles.FaintText
	}

	var b strings.Builder
	header := styles.AccentText.Render(strings.ToUpper(p.Category.Name))
	if p.IsSpecial {
		header += " " + styles.BadgeStyle(badgeSpecial).Render("SPECIAL")
	}
	if expired {
		header += " " + styles.BadgeStyle(badgeExpired).Render("EXPIRED")
	}
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(text.Bold(true).Width(width).Render(p.Title))
	b.WriteString("\n")
	b.WriteString(text.Width(width).Render(p.Description))
	b.WriteString("\n\n")

	for _, f := range detailFields(p, m.snapshot.Filters, m.now()) {
		b.WriteString(styles.MutedText.Render(padRight(f.label, 12)))
		b.WriteString(text.Render(truncate(f.value, maxInt(width-12, 1))))
		b.WriteString("\n")
	}
	return b.String()
}

type detailField struct {
	label string
	value string
}

// detailFields lists the card's label/value rows. Absent optional values are
// omitted.
func detailFields(p catalog.Promotion, f state.Filters, now time.Time) []detailField {
	var out []detailField
	if p.DiscountPercentage != nil {
		out = append(out, detailField{"Discount", fmt.Sprintf("%.0f%%", *p.DiscountPercentage)})
	}
	if p.DiscountCode != "" {
		out = append(out, detailField{"Code", p.DiscountCode})
	}
	out = append(out, detailField{"Store", p.Store.Name})
	if d, ok := state.DistanceFromViewer(f, p.Store); ok {
		out = append(out, detailField{"Distance", formatKm(d)})
	}
	if until, ok := p.Expiry(); ok {
		label := "Valid until"
		if until.Before(now) {
			label = "Expired on"
		}
		out = append(out, detailField{label, until.Local().Format(dateLayout)})
	}
	if p.ImageURL != "" {
		out = append(out, detailField{"Image", p.ImageURL})
	}
	return out
}
