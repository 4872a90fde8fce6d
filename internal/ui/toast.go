package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/promofinder/internal/state"
)

// handleSpecialArrived simulates the push: the first special promotion in the
// catalog is offered to the store, which drops duplicates.
func (m Model) handleSpecialArrived() (tea.Model, tea.Cmd) {
	m.refresh()
	p, ok := state.FirstSpecial(m.snapshot.AllPromotions)
	if !ok {
		return m, nil
	}
	if !m.store.TriggerSpecialPromotion(p) {
		return m, nil
	}
	m.logger.Info().Str("promotion", p.ID).Msg("special offer shown")
	m.toastSeq++
	m.refresh()
	return m, toastExpiryCmd(m.cfg.DisplayDuration(), m.toastSeq)
}

func (m *Model) dismissToast() {
	m.store.ClearSpecialPromotionNotification()
	m.refresh()
}

// toastText is the single-line notification message.
func toastText(n state.State) string {
	p := n.SpecialPromotionNotification
	if p == nil {
		return ""
	}
	return "Special offer! " + p.Title + " - " + p.Description
}
