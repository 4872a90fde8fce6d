// Package ui implements promofinder's terminal interface with Bubble Tea.
//
// The Model renders a state.Store and dispatches its actions; it holds no
// catalog data of its own beyond the latest snapshot and the visible slice.
// Every handler that mutates the store calls refresh, which re-reads the
// snapshot and recomputes the visible list through a state.FilteredView, then
// narrows it by the free-text search.
//
// # Timers
//
// The store owns no timers. After a successful load the model schedules a
// one-shot tea.Tick; when it fires the first special promotion is offered to
// the store (TriggerSpecialPromotion drops duplicates) and a second tick hides
// the toast after the configured display time. Each shown toast gets a
// sequence number so a hide tick left over from an earlier toast does nothing.
//
// # Views
//
//   - Catalog: filter bar, list and detail card; a spinner while loading, the
//     error with a retry hint when loading failed
//   - Logs: the tail of the diagnostic log, read with logtail
//
// The distance prompt is a Modal; help is an overlay built from the key map.
package ui
