package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/config"
	"github.com/five82/promofinder/internal/prefs"
	"github.com/five82/promofinder/internal/state"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// newLoadedModel builds a model over the demo catalog and completes the
// initial load the way the load command would.
func newLoadedModel(t *testing.T, opts ...catalog.MockOption) (Model, *state.Store, tea.Cmd) {
	t.Helper()
	opts = append([]catalog.MockOption{catalog.WithLatency(0), catalog.WithClock(clock)}, opts...)
	src, err := catalog.NewMockSource(opts...)
	if err != nil {
		t.Fatalf("NewMockSource: %v", err)
	}
	store := state.New(src)
	m := New(Options{
		Context:   context.Background(),
		Store:     store,
		Config:    config.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       clock,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	store.FetchInitialData(context.Background())
	next, cmd := m.Update(loadDoneMsg{})
	return next.(Model), store, cmd
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func visibleIDs(m Model) []string {
	ids := make([]string, 0, len(m.visible))
	for _, p := range m.visible {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestModel_SuccessfulLoadSchedulesArrival(t *testing.T) {
	m, _, cmd := newLoadedModel(t)

	if cmd == nil {
		t.Fatalf("loadDoneMsg returned nil cmd, want arrival timer")
	}
	if m.snapshot.LoadingStatus != state.StatusSucceeded {
		t.Fatalf("status = %q, want succeeded", m.snapshot.LoadingStatus)
	}
	if len(m.visible) != 7 {
		t.Fatalf("visible = %d, want 7", len(m.visible))
	}
	if m.isLoading() {
		t.Fatalf("isLoading = true after load")
	}
}

func TestModel_FailedLoadRendersErrorAndRetries(t *testing.T) {
	m, _, cmd := newLoadedModel(t, catalog.WithFailures(catalog.EndpointStores))

	if cmd != nil {
		t.Fatalf("failed load scheduled a command")
	}
	if m.snapshot.LoadingStatus != state.StatusFailed {
		t.Fatalf("status = %q, want failed", m.snapshot.LoadingStatus)
	}
	if view := m.View(); !strings.Contains(view, state.LoadErrorMessage) {
		t.Fatalf("view does not show the load error:\n%s", view)
	}

	next, retry := m.Update(keyMsg("r"))
	m = next.(Model)
	if retry == nil || !m.loading {
		t.Fatalf("retry: cmd=%v loading=%v, want a load command", retry != nil, m.loading)
	}

	// A second press while the retry is pending does nothing.
	if _, again := m.Update(keyMsg("r")); again != nil {
		t.Fatalf("second retry returned a command")
	}
}

func TestModel_SpecialNotificationLifecycle(t *testing.T) {
	m, store, _ := newLoadedModel(t)

	next, hide := m.Update(specialArrivedMsg{})
	m = next.(Model)
	if hide == nil {
		t.Fatalf("specialArrivedMsg returned nil cmd, want hide timer")
	}
	n := store.Snapshot().SpecialPromotionNotification
	if n == nil || n.ID != "promo-4" {
		t.Fatalf("notification = %v, want promo-4", n)
	}
	if got := toastText(m.snapshot); got != "Special offer! Oferta Flash: Portátil X - ¡Solo hoy! Unidades limitadas." {
		t.Fatalf("toastText = %q", got)
	}

	// The same promotion arriving again is dropped and schedules nothing.
	next, again := m.Update(specialArrivedMsg{})
	m = next.(Model)
	if again != nil || m.toastSeq != 1 {
		t.Fatalf("duplicate arrival: cmd=%v seq=%d, want nil and 1", again != nil, m.toastSeq)
	}

	m = update(t, m, toastExpiredMsg{seq: 0})
	if store.Snapshot().SpecialPromotionNotification == nil {
		t.Fatalf("stale hide timer cleared the notification")
	}

	m = update(t, m, toastExpiredMsg{seq: m.toastSeq})
	if store.Snapshot().SpecialPromotionNotification != nil {
		t.Fatalf("notification still set after hide timer")
	}
	if toastText(m.snapshot) != "" {
		t.Fatalf("toast still rendered after hide")
	}
}

func TestModel_EnterDismissesToast(t *testing.T) {
	m, store, _ := newLoadedModel(t)
	m = update(t, m, specialArrivedMsg{})

	m = press(t, m, "enter")
	if store.Snapshot().SpecialPromotionNotification != nil {
		t.Fatalf("enter did not dismiss the notification")
	}
	if m.snapshot.SpecialPromotionNotification != nil {
		t.Fatalf("model snapshot still holds the notification")
	}
}

func TestModel_CategoryCyclingAndClear(t *testing.T) {
	m, store, _ := newLoadedModel(t)

	m = press(t, m, "x")
	if m.flash != "No filters to clear" {
		t.Fatalf("flash = %q, want no-op message", m.flash)
	}

	m = press(t, m, "c")
	if got := store.Snapshot().Filters.CategoryID; got != "cat-1" {
		t.Fatalf("CategoryID = %q, want cat-1", got)
	}
	if got := strings.Join(visibleIDs(m), ","); got != "promo-1,promo-4,promo-7" {
		t.Fatalf("visible = %s", got)
	}

	m = press(t, m, "C")
	if got := store.Snapshot().Filters.CategoryID; got != "" {
		t.Fatalf("CategoryID after C = %q, want all", got)
	}

	m = press(t, m, "s", "c", "x")
	f := store.Snapshot().Filters
	if f.CategoryID != "" || f.StoreID != "" || f.HasMaxDistance {
		t.Fatalf("filters not cleared: %#v", f)
	}
	if !f.HasUserLocation || f.UserLatitude != state.DefaultLatitude {
		t.Fatalf("clear moved the viewer: %#v", f)
	}
	if len(m.visible) != 7 {
		t.Fatalf("visible = %d after clear, want 7", len(m.visible))
	}
}

func TestModel_DistanceModal(t *testing.T) {
	m, store, _ := newLoadedModel(t)

	m = press(t, m, "d")
	if m.modal == nil {
		t.Fatalf("d did not open the distance modal")
	}
	m = press(t, m, "1", "enter")
	if m.modal != nil {
		t.Fatalf("modal still open after enter")
	}

	f := store.Snapshot().Filters
	if v, ok := f.MaxDistance(); !ok || v != 1 {
		t.Fatalf("MaxDistance = %v,%v, want 1", v, ok)
	}
	if f.UserLatitude != state.DefaultLatitude || f.UserLongitude != state.DefaultLongitude {
		t.Fatalf("viewer moved: %#v", f)
	}
	if got := strings.Join(visibleIDs(m), ","); got != "promo-1,promo-6,promo-7" {
		t.Fatalf("visible = %s, want stores within 1 km", got)
	}

	// Submitting an invalid value removes the limit.
	m = press(t, m, "d")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(t, m, "abc", "enter")
	if store.Snapshot().Filters.HasMaxDistance {
		t.Fatalf("invalid distance kept a limit")
	}
}

func TestModel_DistanceModalEscapeCancels(t *testing.T) {
	m, store, _ := newLoadedModel(t)

	m = press(t, m, "d", "5", "esc")
	if m.modal != nil {
		t.Fatalf("modal still open after esc")
	}
	if store.Snapshot().Filters.HasMaxDistance {
		t.Fatalf("esc applied the distance")
	}
}

func TestModel_SearchIgnoresAccentsAndCase(t *testing.T) {
	m, _, _ := newLoadedModel(t)

	m = press(t, m, "/", "INCREIBLE")
	if got := strings.Join(visibleIDs(m), ","); got != "promo-7" {
		t.Fatalf("visible = %s, want promo-7", got)
	}

	m = press(t, m, "enter")
	if m.search.active || m.search.query == "" {
		t.Fatalf("enter should keep the query and leave input: %#v", m.search)
	}

	// Outside the input, esc clears the query.
	m = press(t, m, "esc")
	if m.search.query != "" || len(m.visible) != 7 {
		t.Fatalf("esc did not clear the search: query=%q visible=%d", m.search.query, len(m.visible))
	}
}

func TestModel_SelectionClampsToVisible(t *testing.T) {
	m, _, _ := newLoadedModel(t)

	m = press(t, m, "G")
	if m.selectedRow != 6 {
		t.Fatalf("selectedRow = %d, want 6", m.selectedRow)
	}
	m = press(t, m, "c")
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d after filtering, want 2", m.selectedRow)
	}
	m = press(t, m, "g", "k")
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
}

func TestModel_ThemeCyclePersists(t *testing.T) {
	m, _, _ := newLoadedModel(t)

	m = press(t, m, "T")
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("saved theme = %q, want Slate", p.Theme)
	}
}

func TestModel_HelpOverlayClosesOnAnyKey(t *testing.T) {
	m, store, _ := newLoadedModel(t)

	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("help not shown")
	}
	m = press(t, m, "c")
	if m.showHelp {
		t.Fatalf("help still shown")
	}
	if store.Snapshot().Filters.CategoryID != "" {
		t.Fatalf("key that closed help was also applied")
	}
}
